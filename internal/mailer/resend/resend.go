// Package resend 实现经 Resend HTTPS API 的邮件投递传输。
package resend

import (
	"context"
	"fmt"
	"os"

	"github.com/resend/resend-go/v2"

	"formrelay/backend/internal/domain"
)

// Config Resend 传输的配置
type Config struct {
	APIKey string // Bearer 凭证
}

// Mailer 将邮件以 JSON 形式 POST 到 Resend。
// 附件无法按文件引用传递，投递前从暂存文件整体读入并内联；
// 非 2xx 响应由客户端转为错误，其中携带服务端返回的错误详情。
type Mailer struct {
	client *resend.Client
}

// New 创建 Resend 传输
func New(cfg Config) *Mailer {
	return &Mailer{client: resend.NewClient(cfg.APIKey)}
}

// Send 通过 Resend API 投递邮件
func (m *Mailer) Send(ctx context.Context, msg *domain.OutboundMessage) error {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}

	if att := msg.Attachment; att != nil {
		content, err := os.ReadFile(att.Path)
		if err != nil {
			return fmt.Errorf("resend: failed to read attachment %q: %w", att.Filename, err)
		}
		req.Attachments = []*resend.Attachment{{
			Filename:    att.Filename,
			Content:     content,
			ContentType: att.ContentType,
		}}
	}

	if _, err := m.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: send failed: %w", err)
	}
	return nil
}

// Name 返回传输名称
func (m *Mailer) Name() string {
	return "resend"
}
