package health

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"

	"formrelay/backend/internal/storage/uploads"
)

// Checker 健康检查器
type Checker struct {
	health  healthcheck.Handler
	uploads *uploads.Store
	logger  *zap.Logger
}

// NewChecker 创建健康检查器
func NewChecker(up *uploads.Store, logger *zap.Logger) *Checker {
	c := &Checker{
		health:  healthcheck.NewHandler(),
		uploads: up,
		logger:  logger,
	}
	c.addChecks()
	return c
}

// addChecks 添加健康检查
func (c *Checker) addChecks() {
	// 暂存目录必须存在且可写，否则带附件的请求必然失败
	c.health.AddReadinessCheck("upload-dir", func() error {
		return checkDirWritable(c.uploads.Dir())
	})

	// goroutine 数量异常通常意味着上游投递端点挂住了请求
	c.health.AddLivenessCheck("goroutine-count", healthcheck.GoroutineCountCheck(200))
}

// LiveHandler 返回存活检查处理器
func (c *Checker) LiveHandler() http.HandlerFunc {
	return c.health.LiveEndpoint
}

// ReadyHandler 返回就绪检查处理器
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return c.health.ReadyEndpoint
}

// checkDirWritable 验证目录可写
func checkDirWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("upload dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload path %q is not a directory", dir)
	}

	probe := filepath.Join(dir, ".healthcheck")
	if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
		return fmt.Errorf("upload dir not writable: %w", err)
	}
	return os.Remove(probe)
}
