package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSMTPEnv 返回能通过校验的最小 SMTP 配置
func validSMTPEnv() map[string]string {
	return map[string]string{
		"FORMRELAY_MAIL_SENDER":     "noreply@example.com",
		"FORMRELAY_MAIL_RECIPIENTS": "inbox@example.com",
		"FORMRELAY_SMTP_USERNAME":   "noreply@example.com",
		"FORMRELAY_SMTP_PASSWORD":   "secret",
	}
}

// loadWith 在干净的 viper 状态下按给定环境变量加载配置
func loadWith(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	viper.Reset()
	for k, v := range env {
		t.Setenv(k, v)
	}
	return Load()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWith(t, validSMTPEnv())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, TransportSMTP, cfg.Mail.Transport)
	assert.Equal(t, 30*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "smtpout.secureserver.net", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.SSL)
	assert.Equal(t, "./uploads", cfg.Relay.UploadDir)
	assert.False(t, cfg.Relay.StrictValidation)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
}

func TestLoadOverrides(t *testing.T) {
	env := validSMTPEnv()
	env["FORMRELAY_SERVER_PORT"] = "8080"
	env["FORMRELAY_MAIL_TIMEOUT"] = "10s"
	env["FORMRELAY_RELAY_STRICT_VALIDATION"] = "true"
	env["FORMRELAY_LOG_LEVEL"] = "debug"

	cfg, err := loadWith(t, env)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
	assert.True(t, cfg.Relay.StrictValidation)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRecipientListParsing(t *testing.T) {
	env := validSMTPEnv()
	env["FORMRELAY_MAIL_RECIPIENTS"] = " inbox@example.com , backup@example.com ,,sales@example.com"
	env["FORMRELAY_CORS_ALLOWED_ORIGINS"] = "https://example.com, https://www.example.com"

	cfg, err := loadWith(t, env)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"inbox@example.com", "backup@example.com", "sales@example.com"},
		cfg.Mail.Recipients)
	assert.Equal(t,
		[]string{"https://example.com", "https://www.example.com"},
		cfg.CORS.AllowedOrigins)
}

func TestLoadResendTransport(t *testing.T) {
	env := map[string]string{
		"FORMRELAY_MAIL_TRANSPORT":  "resend",
		"FORMRELAY_MAIL_SENDER":     "noreply@example.com",
		"FORMRELAY_MAIL_RECIPIENTS": "inbox@example.com",
		"FORMRELAY_RESEND_API_KEY":  "re_test_key",
	}

	cfg, err := loadWith(t, env)
	require.NoError(t, err)

	assert.Equal(t, TransportResend, cfg.Mail.Transport)
	assert.Equal(t, "re_test_key", cfg.Resend.APIKey)
}

func TestLoadTransportCaseInsensitive(t *testing.T) {
	env := validSMTPEnv()
	env["FORMRELAY_MAIL_TRANSPORT"] = "SMTP"

	cfg, err := loadWith(t, env)
	require.NoError(t, err)
	assert.Equal(t, TransportSMTP, cfg.Mail.Transport)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env map[string]string)
		wantErr string
	}{
		{
			name:    "missing sender",
			mutate:  func(env map[string]string) { delete(env, "FORMRELAY_MAIL_SENDER") },
			wantErr: "mail.sender",
		},
		{
			name:    "missing recipients",
			mutate:  func(env map[string]string) { delete(env, "FORMRELAY_MAIL_RECIPIENTS") },
			wantErr: "mail.recipients",
		},
		{
			name:    "missing smtp credentials",
			mutate:  func(env map[string]string) { delete(env, "FORMRELAY_SMTP_PASSWORD") },
			wantErr: "smtp.username and smtp.password",
		},
		{
			name: "missing resend api key",
			mutate: func(env map[string]string) {
				env["FORMRELAY_MAIL_TRANSPORT"] = "resend"
			},
			wantErr: "resend.api_key",
		},
		{
			name: "unknown transport",
			mutate: func(env map[string]string) {
				env["FORMRELAY_MAIL_TRANSPORT"] = "carrier-pigeon"
			},
			wantErr: "unknown mail.transport",
		},
		{
			name: "invalid timeout",
			mutate: func(env map[string]string) {
				env["FORMRELAY_MAIL_TIMEOUT"] = "soon"
			},
			wantErr: "invalid mail.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validSMTPEnv()
			tt.mutate(env)

			_, err := loadWith(t, env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
