// Package mailer 定义邮件投递能力的抽象。
// 部署时从配置选定唯一的传输实现（直连 SMTP 或 Resend HTTPS API），
// 实现除持有自身凭证外无状态，单次尝试，不做重试或连接池。
package mailer

import (
	"context"

	"formrelay/backend/internal/domain"
)

// Mailer 是邮件投递传输必须实现的接口
type Mailer interface {
	// Send 投递一封邮件，失败时返回错误（对调用方不透明）
	Send(ctx context.Context, msg *domain.OutboundMessage) error

	// Name 返回传输的可读名称
	Name() string
}
