package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 邮件投递传输方式
const (
	TransportSMTP   = "smtp"   // 直连 SMTP 会话
	TransportResend = "resend" // Resend HTTPS API
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 5000
}

// MailConfig 定义邮件投递的公共配置
type MailConfig struct {
	Transport  string        // 传输方式: "smtp" 或 "resend"，部署时选定，不随请求变化
	Sender     string        // 固定的发件人地址
	Recipients []string      // 收件人列表（环境变量中逗号分隔）
	Timeout    time.Duration // 单次投递的超时上限，默认 30s
}

// SMTPConfig 定义直连 SMTP 传输的配置
type SMTPConfig struct {
	Host     string // SMTP 提交端点主机
	Port     int    // 端口，默认 465
	SSL      bool   // 是否使用隐式 TLS，默认 true
	Username string // 认证用户名
	Password string // 认证密码
}

// ResendConfig 定义 Resend HTTPS API 传输的配置
type ResendConfig struct {
	APIKey string // Bearer 凭证
}

// RelayConfig 定义提交中继的行为配置
type RelayConfig struct {
	UploadDir        string // 附件暂存目录，进程启动时创建一次
	StrictValidation bool   // 严格校验模式：开启后缺失必填字段/非法邮箱返回 400
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server ServerConfig
	Mail   MailConfig
	SMTP   SMTPConfig
	Resend ResendConfig
	Relay  RelayConfig
	CORS   CORSConfig
	Log    LogConfig
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: FORMRELAY_
// 例如: FORMRELAY_SERVER_PORT, FORMRELAY_SMTP_PASSWORD
//
// 所选传输方式的凭证在这里即被校验：缺失凭证在启动时失败，
// 而不是等到第一次投递才暴露。
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvPrefix("formrelay")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("mail.transport", TransportSMTP)
	viper.SetDefault("mail.sender", "")
	viper.SetDefault("mail.recipients", "")
	viper.SetDefault("mail.timeout", "30s")
	viper.SetDefault("smtp.host", "smtpout.secureserver.net")
	viper.SetDefault("smtp.port", 465)
	viper.SetDefault("smtp.ssl", true)
	viper.SetDefault("smtp.username", "")
	viper.SetDefault("smtp.password", "")
	viper.SetDefault("resend.api_key", "")
	viper.SetDefault("relay.upload_dir", "./uploads")
	viper.SetDefault("relay.strict_validation", false)
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)

	timeout, err := time.ParseDuration(viper.GetString("mail.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid mail.timeout: %w", err)
	}

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		Mail: MailConfig{
			Transport:  strings.ToLower(viper.GetString("mail.transport")),
			Sender:     viper.GetString("mail.sender"),
			Recipients: parseList(viper.GetString("mail.recipients")),
			Timeout:    timeout,
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("smtp.host"),
			Port:     viper.GetInt("smtp.port"),
			SSL:      viper.GetBool("smtp.ssl"),
			Username: viper.GetString("smtp.username"),
			Password: viper.GetString("smtp.password"),
		},
		Resend: ResendConfig{
			APIKey: viper.GetString("resend.api_key"),
		},
		Relay: RelayConfig{
			UploadDir:        viper.GetString("relay.upload_dir"),
			StrictValidation: viper.GetBool("relay.strict_validation"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate 启动期配置校验，保证首次投递前凭证齐备
func (c *Config) validate() error {
	if c.Mail.Sender == "" {
		return fmt.Errorf("mail.sender must be set")
	}
	if len(c.Mail.Recipients) == 0 {
		return fmt.Errorf("mail.recipients must not be empty")
	}
	if c.Mail.Timeout <= 0 {
		return fmt.Errorf("mail.timeout must be positive")
	}

	switch c.Mail.Transport {
	case TransportSMTP:
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp.host must be set for smtp transport")
		}
		if c.SMTP.Username == "" || c.SMTP.Password == "" {
			return fmt.Errorf("smtp.username and smtp.password must be set for smtp transport")
		}
	case TransportResend:
		if c.Resend.APIKey == "" {
			return fmt.Errorf("resend.api_key must be set for resend transport")
		}
	default:
		return fmt.Errorf("unknown mail.transport %q (expected %q or %q)",
			c.Mail.Transport, TransportSMTP, TransportResend)
	}

	return nil
}

// parseList 将逗号分隔的字符串解析为字符串切片
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env（用于从 backend/ 子目录运行的情况）
//
// 注意：已存在的环境变量优先级更高，不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
