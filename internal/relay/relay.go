// Package relay 实现提交中继：把一次表单提交转换为一封邮件并投递。
// 每次请求的控制流严格线性：提取字段 →（有附件则落盘暂存）→
// 构造邮件 → 投递 → 无条件清理暂存文件 → 返回结果。
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"formrelay/backend/internal/domain"
	"formrelay/backend/internal/mailer"
	"formrelay/backend/internal/monitoring"
	"formrelay/backend/internal/storage/uploads"
)

// ErrInvalidSubmission 严格校验模式下的拒绝错误，区别于投递失败
var ErrInvalidSubmission = errors.New("invalid submission")

// Upload 描述一个尚未落盘的上传文件
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Config 中继行为配置
type Config struct {
	Sender           string        // 固定发件人地址
	Recipients       []string      // 收件人列表
	Timeout          time.Duration // 单次投递的超时上限
	StrictValidation bool          // 严格校验模式
}

// Service 封装提交中继逻辑。
// 除注入的投递客户端与暂存目录外不持有任何跨请求状态，
// 两次相同的提交产生两次相互独立的投递尝试。
type Service struct {
	mailer  mailer.Mailer
	uploads *uploads.Store
	cfg     Config
	logger  *zap.Logger
	metrics *monitoring.Metrics // 可选
	now     func() time.Time
}

// NewService 创建提交中继服务
func NewService(m mailer.Mailer, up *uploads.Store, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		mailer:  m,
		uploads: up,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// SetMetrics 设置监控指标
func (s *Service) SetMetrics(metrics *monitoring.Metrics) {
	s.metrics = metrics
}

// Relay 处理一次表单提交。
// up 为可选附件（仅职位申请表单），无附件时不发生任何暂存目录操作。
// 暂存文件在投递尝试结束后删除，无论投递成败；清理失败仅记录日志，
// 绝不作为请求的错误上报。
func (s *Service) Relay(ctx context.Context, sub domain.Submission, up *Upload) error {
	if s.metrics != nil {
		s.metrics.RecordSubmission(sub.Kind())
	}

	if s.cfg.StrictValidation {
		if err := domain.Validate(sub); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
	}

	var att *domain.Attachment
	if up != nil {
		saved, err := s.uploads.Save(up.Filename, up.ContentType, up.Reader)
		if err != nil {
			return fmt.Errorf("failed to store attachment: %w", err)
		}
		att = saved

		defer func() {
			if err := s.uploads.Remove(att); err != nil {
				s.logger.Warn("failed to remove upload file",
					zap.String("path", att.Path),
					zap.Error(err),
				)
			}
		}()

		if s.metrics != nil {
			s.metrics.RecordAttachment(att.Size)
		}
	}

	msg := BuildMessage(sub, att, s.cfg.Sender, s.cfg.Recipients, s.now())

	return s.deliver(ctx, sub.Kind(), msg)
}

// SendTest 通过当前传输发送一封固定的测试邮件
func (s *Service) SendTest(ctx context.Context) error {
	msg := &domain.OutboundMessage{
		From:    s.cfg.Sender,
		To:      s.cfg.Recipients,
		Subject: "Test Email from Form Relay",
		Text:    "This is a test email to confirm the mail transport is working.",
	}
	return s.deliver(ctx, "test", msg)
}

// deliver 执行单次投递尝试，以配置的超时为界。
// 失败原因只记录在服务端日志，调用方得到的错误不携带凭证细节。
func (s *Service) deliver(ctx context.Context, kind string, msg *domain.OutboundMessage) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := s.mailer.Send(ctx, msg)
	if s.metrics != nil {
		s.metrics.RecordDelivery(s.mailer.Name(), err, time.Since(start))
	}

	if err != nil {
		s.logger.Error("mail delivery failed",
			zap.String("form", kind),
			zap.String("transport", s.mailer.Name()),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("delivery failed: %w", err)
	}

	s.logger.Info("mail delivered",
		zap.String("form", kind),
		zap.String("transport", s.mailer.Name()),
		zap.String("subject", msg.Subject),
		zap.Bool("attachment", msg.Attachment != nil),
	)
	return nil
}
