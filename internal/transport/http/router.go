package httptransport

import (
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"formrelay/backend/internal/config"
	"formrelay/backend/internal/health"
	"formrelay/backend/internal/middleware"
	"formrelay/backend/internal/monitoring"
	"formrelay/backend/internal/relay"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config  *config.Config
	Relay   *relay.Service
	Metrics *monitoring.Metrics
	Health  *health.Checker
	Logger  *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	mon := middleware.NewMonitoringMiddleware(deps.Metrics, deps.Logger)

	// 使用自定义中间件替代默认中间件
	router.Use(mon.PanicRecovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(mon.HTTPMetrics())

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:  deps.Config.CORS.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	router.Use(gincors.New(corsConfig))

	handler := NewHandler(deps.Relay, deps.Logger)

	// 探活与运维端点
	router.GET("/ping", handler.Ping)
	router.GET("/live", gin.WrapF(deps.Health.LiveHandler()))
	router.GET("/ready", gin.WrapF(deps.Health.ReadyHandler()))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 测试邮件端点
	router.GET("/send-test-email", handler.SendTestEmail)

	// 表单端点：JSON 表单限制 1MB，带简历的 multipart 限制 10MB
	api := router.Group("/api")
	{
		jsonLimit := middleware.BodySizeLimit(middleware.SmallBodyLimit)
		api.POST("/contact-scroll", jsonLimit, handler.ContactScroll)
		api.POST("/contact-page", jsonLimit, handler.ContactPage)
		api.POST("/chatbot", jsonLimit, handler.Chatbot)
		api.POST("/career-apply", middleware.BodySizeLimit(middleware.UploadBodyLimit), handler.CareerApply)
	}

	return router
}
