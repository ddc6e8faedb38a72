package httptransport

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"formrelay/backend/internal/domain"
	"formrelay/backend/internal/relay"
)

// Handler 聚合所有表单端点的处理逻辑
type Handler struct {
	relay  *relay.Service
	logger *zap.Logger
}

// NewHandler 创建表单处理器
func NewHandler(relayService *relay.Service, logger *zap.Logger) *Handler {
	return &Handler{
		relay:  relayService,
		logger: logger,
	}
}

// scrollContactRequest 滚动区联系表单的请求体
type scrollContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phoneNumber"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// contactPageRequest 联系页表单的请求体
type contactPageRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Message   string `json:"message"`
}

// chatbotRequest 聊天机器人表单的请求体，所有字段均可缺省
type chatbotRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Datetime string `json:"datetime"`
	Topic    string `json:"topic"`
}

// Ping 存活探测端点
func (h *Handler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "✅ Server is working!")
}

// SendTestEmail 通过当前传输发送测试邮件
func (h *Handler) SendTestEmail(c *gin.Context) {
	if err := h.relay.SendTest(c.Request.Context()); err != nil {
		DeliveryFailed(c, "Test email failed")
		return
	}
	OK(c, "Test email sent!")
}

// ContactScroll 处理滚动区联系表单
func (h *Handler) ContactScroll(c *gin.Context) {
	var req scrollContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	sub := domain.ScrollContact{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		SubjectLine: req.Subject,
		Message:     req.Message,
	}

	if err := h.relay.Relay(c.Request.Context(), sub, nil); err != nil {
		h.relayError(c, err, "Error sending email")
		return
	}
	OK(c, "Email sent successfully")
}

// ContactPage 处理联系页表单
func (h *Handler) ContactPage(c *gin.Context) {
	var req contactPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	sub := domain.ContactPage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Country:   req.Country,
		Message:   req.Message,
	}

	if err := h.relay.Relay(c.Request.Context(), sub, nil); err != nil {
		h.relayError(c, err, "Error sending email")
		return
	}
	OK(c, "Email sent successfully")
}

// Chatbot 处理聊天机器人留资表单
func (h *Handler) Chatbot(c *gin.Context) {
	var req chatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	sub := domain.ChatbotLead{
		Name:     req.Name,
		Email:    req.Email,
		Datetime: req.Datetime,
		Topic:    req.Topic,
	}

	if err := h.relay.Relay(c.Request.Context(), sub, nil); err != nil {
		h.relayError(c, err, "Error sending message")
		return
	}
	OK(c, "Message sent successfully")
}

// CareerApply 处理职位申请表单（multipart，附件字段名 "resume"，可选）
func (h *Handler) CareerApply(c *gin.Context) {
	sub := domain.CareerApplication{
		FullName: c.PostForm("fullName"),
		Email:    c.PostForm("email"),
		Phone:    c.PostForm("phone"),
		Message:  c.PostForm("message"),
		JobTitle: c.PostForm("jobTitle"),
	}

	var up *relay.Upload
	fileHeader, err := c.FormFile("resume")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			h.logger.Error("failed to open uploaded resume", zap.Error(err))
			DeliveryFailed(c, "Error sending application")
			return
		}
		defer file.Close()
		up = uploadFromFileHeader(fileHeader, file)
	case errors.Is(err, http.ErrMissingFile):
		// 无简历：零附件，零暂存目录操作
	default:
		BadRequest(c, "Invalid multipart request")
		return
	}

	if err := h.relay.Relay(c.Request.Context(), sub, up); err != nil {
		h.relayError(c, err, "Error sending application")
		return
	}
	OK(c, "Application sent successfully")
}

// relayError 把中继错误映射为响应信封：
// 严格校验拒绝返回 400，其余一律按投递失败返回 500。
func (h *Handler) relayError(c *gin.Context, err error, failureMsg string) {
	if errors.Is(err, relay.ErrInvalidSubmission) {
		BadRequest(c, err.Error())
		return
	}
	DeliveryFailed(c, failureMsg)
}

func uploadFromFileHeader(fh *multipart.FileHeader, file multipart.File) *relay.Upload {
	return &relay.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      file,
	}
}
