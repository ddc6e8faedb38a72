package relay

import (
	"time"

	"formrelay/backend/internal/domain"
)

// BuildMessage 从一次提交确定性地构造出站邮件。
// 主题与正文由表单自身的模板决定，发件人与收件人来自配置，
// 提交者邮箱（若有）作为回信地址。字段不做转义或长度限制，
// 缺失的可选字段由模板渲染为占位符，正文结构保持稳定。
func BuildMessage(sub domain.Submission, att *domain.Attachment, sender string, recipients []string, now time.Time) *domain.OutboundMessage {
	return &domain.OutboundMessage{
		From:       sender,
		To:         recipients,
		ReplyTo:    sub.ReplyTo(),
		Subject:    sub.Subject(),
		Text:       sub.Text(now),
		Attachment: att,
	}
}
