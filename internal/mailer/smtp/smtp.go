// Package smtp 实现直连 SMTP 会话的邮件投递传输。
package smtp

import (
	"context"
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"

	"formrelay/backend/internal/domain"
)

// Config 直连 SMTP 传输的配置
type Config struct {
	Host     string
	Port     int
	SSL      bool // 隐式 TLS（465 端口）
	Username string
	Password string
	Timeout  time.Duration // 会话 I/O 超时，防止上游缓慢时挂住请求
}

// Mailer 通过固定的邮件提交端点投递邮件。
// 客户端在构造时建立配置，跨请求复用；每次 Send 建立一次会话，
// 失败即为最终结果。
type Mailer struct {
	client *mail.Client
	sender string
}

// New 创建 SMTP 传输
func New(cfg Config, sender string) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.SSL {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: failed to create client: %w", err)
	}

	return &Mailer{client: client, sender: sender}, nil
}

// Send 通过认证的 SMTP 会话提交邮件。
// 附件按暂存文件路径直接读取（SMTP 客户端可访问本地文件系统），
// 认证被拒、连接超时、收件人被拒均作为单一不透明错误上报。
func (m *Mailer) Send(ctx context.Context, msg *domain.OutboundMessage) error {
	mm := mail.NewMsg()
	if err := mm.From(msg.From); err != nil {
		return fmt.Errorf("smtp: invalid sender %q: %w", msg.From, err)
	}
	if err := mm.To(msg.To...); err != nil {
		return fmt.Errorf("smtp: invalid recipients: %w", err)
	}
	if msg.ReplyTo != "" {
		// 回信路由到提交者；地址不合法时忽略而不是失败
		_ = mm.ReplyTo(msg.ReplyTo)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		mm.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	if att := msg.Attachment; att != nil {
		mm.AttachFile(att.Path, mail.WithFileName(att.Filename))
	}

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("smtp: send failed: %w", err)
	}
	return nil
}

// Name 返回传输名称
func (m *Mailer) Name() string {
	return "smtp"
}
