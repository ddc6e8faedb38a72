package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"formrelay/backend/internal/domain"
	"formrelay/backend/internal/relay"
	"formrelay/backend/internal/storage/uploads"
)

// stubMailer 捕获投递的邮件，行为由注入的函数决定
type stubMailer struct {
	sent []*domain.OutboundMessage
	fn   func(msg *domain.OutboundMessage) error
}

func (s *stubMailer) Send(_ context.Context, msg *domain.OutboundMessage) error {
	s.sent = append(s.sent, msg)
	if s.fn != nil {
		return s.fn(msg)
	}
	return nil
}

func (s *stubMailer) Name() string { return "stub" }

func setupRouter(t *testing.T, m *stubMailer) (*gin.Engine, *uploads.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	svc := relay.NewService(m, store, relay.Config{
		Sender:     "noreply@example.com",
		Recipients: []string{"inbox@example.com"},
		Timeout:    5 * time.Second,
	}, zap.NewNop())

	handler := NewHandler(svc, zap.NewNop())

	router := gin.New()
	router.GET("/ping", handler.Ping)
	router.GET("/send-test-email", handler.SendTestEmail)
	router.POST("/api/contact-scroll", handler.ContactScroll)
	router.POST("/api/contact-page", handler.ContactPage)
	router.POST("/api/chatbot", handler.Chatbot)
	router.POST("/api/career-apply", handler.CareerApply)

	return router, store
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func careerForm(t *testing.T, fields map[string]string, resume []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if resume != nil {
		fw, err := w.CreateFormFile("resume", "resume.pdf")
		require.NoError(t, err)
		_, err = fw.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestPing(t *testing.T) {
	router, _ := setupRouter(t, &stubMailer{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Server is working")
}

func TestContactScroll(t *testing.T) {
	t.Run("default subject and field order", func(t *testing.T) {
		m := &stubMailer{}
		router, _ := setupRouter(t, m)

		w := postJSON(router, "/api/contact-scroll", gin.H{
			"name":        "Ada",
			"email":       "ada@example.com",
			"phoneNumber": "555",
			"company":     "Acme",
			"message":     "Hello",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "Email sent successfully", resp.Message)

		require.Len(t, m.sent, 1)
		msg := m.sent[0]
		assert.Equal(t, "New Contact (Scroll Section)", msg.Subject)
		assert.Equal(t, "ada@example.com", msg.ReplyTo)

		last := -1
		for _, f := range []string{"Ada", "ada@example.com", "555", "Acme", "Hello"} {
			idx := strings.Index(msg.Text, f)
			assert.Greater(t, idx, last, "field %q out of order", f)
			last = idx
		}
	})

	t.Run("caller supplied subject overrides default", func(t *testing.T) {
		m := &stubMailer{}
		router, _ := setupRouter(t, m)

		w := postJSON(router, "/api/contact-scroll", gin.H{
			"name":    "Ada",
			"subject": "Partnership inquiry",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, m.sent, 1)
		assert.Equal(t, "Partnership inquiry", m.sent[0].Subject)
	})

	t.Run("delivery failure returns 500 envelope", func(t *testing.T) {
		m := &stubMailer{fn: func(*domain.OutboundMessage) error {
			return errors.New("connection timed out")
		}}
		router, _ := setupRouter(t, m)

		w := postJSON(router, "/api/contact-scroll", gin.H{"name": "Ada"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "Error sending email", resp.Message)
		// 上游的失败原因不出现在响应体里
		assert.NotContains(t, w.Body.String(), "connection timed out")
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		router, _ := setupRouter(t, &stubMailer{})

		req := httptest.NewRequest(http.MethodPost, "/api/contact-scroll", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decodeResponse(t, w).Success)
	})
}

func TestChatbot(t *testing.T) {
	m := &stubMailer{}
	router, _ := setupRouter(t, m)

	w := postJSON(router, "/api/chatbot", gin.H{"topic": "pricing"})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, "💬 New Chatbot Message - pricing", msg.Subject)
	// 缺失的可选字段渲染为占位符
	assert.Contains(t, msg.Text, "Name: N/A")
	assert.Contains(t, msg.Text, "Email: N/A")
	assert.Contains(t, msg.Text, "Preferred Time: N/A")
}

func TestContactPage(t *testing.T) {
	m := &stubMailer{}
	router, _ := setupRouter(t, m)

	w := postJSON(router, "/api/contact-page", gin.H{
		"firstName": "Alan",
		"lastName":  "Turing",
		"email":     "alan@example.com",
		"country":   "UK",
		"message":   "Hi",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, m.sent, 1)
	assert.Equal(t, "New Contact (Contact Page)", m.sent[0].Subject)
	assert.Equal(t, "alan@example.com", m.sent[0].ReplyTo)
}

func TestCareerApply(t *testing.T) {
	fields := map[string]string{
		"fullName": "Grace Hopper",
		"email":    "grace@example.com",
		"phone":    "555",
		"jobTitle": "Compiler Engineer",
	}

	t.Run("with resume attachment", func(t *testing.T) {
		m := &stubMailer{}
		router, store := setupRouter(t, m)

		body, contentType := careerForm(t, fields, []byte("%PDF-1.4 fake resume"))
		req := httptest.NewRequest(http.MethodPost, "/api/career-apply", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "Application sent successfully", resp.Message)

		require.Len(t, m.sent, 1)
		msg := m.sent[0]
		assert.Equal(t, "🧑‍💼 New Job Application - Compiler Engineer", msg.Subject)
		require.NotNil(t, msg.Attachment)
		assert.Equal(t, "resume.pdf", msg.Attachment.Filename)

		// 请求处理结束后暂存文件已删除
		entries, err := os.ReadDir(store.Dir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("without resume", func(t *testing.T) {
		m := &stubMailer{}
		router, store := setupRouter(t, m)

		body, contentType := careerForm(t, fields, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/career-apply", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, m.sent, 1)
		assert.Nil(t, m.sent[0].Attachment)
		assert.Contains(t, m.sent[0].Text, "Message: N/A")

		entries, err := os.ReadDir(store.Dir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("delivery failure still releases attachment", func(t *testing.T) {
		m := &stubMailer{fn: func(*domain.OutboundMessage) error {
			return errors.New("recipient rejected")
		}}
		router, store := setupRouter(t, m)

		body, contentType := careerForm(t, fields, []byte("%PDF-1.4 fake resume"))
		req := httptest.NewRequest(http.MethodPost, "/api/career-apply", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "Error sending application", resp.Message)

		entries, err := os.ReadDir(store.Dir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestSendTestEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := &stubMailer{}
		router, _ := setupRouter(t, m)

		req := httptest.NewRequest(http.MethodGet, "/send-test-email", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Test email sent!", decodeResponse(t, w).Message)
	})

	t.Run("failure", func(t *testing.T) {
		m := &stubMailer{fn: func(*domain.OutboundMessage) error {
			return errors.New("bad credentials")
		}}
		router, _ := setupRouter(t, m)

		req := httptest.NewRequest(http.MethodGet, "/send-test-email", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Test email failed", decodeResponse(t, w).Message)
	})
}
