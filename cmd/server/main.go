package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"formrelay/backend/internal/config"
	"formrelay/backend/internal/health"
	"formrelay/backend/internal/logger"
	"formrelay/backend/internal/mailer"
	resendmailer "formrelay/backend/internal/mailer/resend"
	smtpmailer "formrelay/backend/internal/mailer/smtp"
	"formrelay/backend/internal/monitoring"
	"formrelay/backend/internal/relay"
	"formrelay/backend/internal/storage/uploads"
	httptransport "formrelay/backend/internal/transport/http"
)

// main 是表单中继后端的程序入口。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()
	log.Info("starting form relay server",
		zap.String("transport", cfg.Mail.Transport),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 初始化附件暂存目录（进程级，仅创建一次）
	uploadStore, err := uploads.NewStore(cfg.Relay.UploadDir)
	if err != nil {
		log.Fatal("failed to initialize upload store", zap.Error(err))
	}
	log.Info("upload store initialized", zap.String("dir", uploadStore.Dir()))

	// 按配置选定唯一的投递传输
	mailClient, err := buildMailer(cfg)
	if err != nil {
		log.Fatal("failed to initialize mail transport", zap.Error(err))
	}
	log.Info("mail transport initialized",
		zap.String("transport", mailClient.Name()),
		zap.String("sender", cfg.Mail.Sender),
		zap.Int("recipients", len(cfg.Mail.Recipients)),
		zap.Duration("timeout", cfg.Mail.Timeout),
	)

	// 初始化监控指标
	metrics := monitoring.NewMetrics()

	// 初始化提交中继服务
	relayService := relay.NewService(mailClient, uploadStore, relay.Config{
		Sender:           cfg.Mail.Sender,
		Recipients:       cfg.Mail.Recipients,
		Timeout:          cfg.Mail.Timeout,
		StrictValidation: cfg.Relay.StrictValidation,
	}, log)
	relayService.SetMetrics(metrics)

	// 健康检查
	checker := health.NewChecker(uploadStore, log)

	// 创建 HTTP 路由
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:  cfg,
		Relay:   relayService,
		Metrics: metrics,
		Health:  checker,
		Logger:  log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("HTTP server listening", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// 等待退出信号后优雅关闭
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
		return
	}
	log.Info("server stopped cleanly")
}

// buildMailer 根据配置构造选定的投递传输
func buildMailer(cfg *config.Config) (mailer.Mailer, error) {
	switch cfg.Mail.Transport {
	case config.TransportSMTP:
		return smtpmailer.New(smtpmailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			SSL:      cfg.SMTP.SSL,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			Timeout:  cfg.Mail.Timeout,
		}, cfg.Mail.Sender)
	case config.TransportResend:
		return resendmailer.New(resendmailer.Config{APIKey: cfg.Resend.APIKey}), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
	}
}
