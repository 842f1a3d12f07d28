package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/config"
)

// chdir moves into an empty directory so no config.yaml or .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "resend", cfg.Email.Provider)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 10, cfg.Queue.Concurrency)
	assert.True(t, cfg.Idempotency.Enabled)
	assert.Equal(t, 86400, cfg.Idempotency.TTLSec)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
	assert.False(t, cfg.Supabase.Enabled())
	assert.False(t, cfg.SMS.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoad_Env(t *testing.T) {
	chdir(t)
	t.Setenv("NOTIFIER_SERVER_PORT", "9090")
	t.Setenv("NOTIFIER_AUTH_API_KEYS", "k1, k2,,k3")
	t.Setenv("NOTIFIER_EMAIL_PROVIDER", "smtp")
	t.Setenv("NOTIFIER_EMAIL_SMTP_HOST", "mail.example.com")
	t.Setenv("NOTIFIER_SMS_ACCOUNT_SID", "AC123")
	t.Setenv("NOTIFIER_SMS_FROM", "+15550000000")
	t.Setenv("NOTIFIER_TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"k1", "k2", "k3"}, cfg.Auth.APIKeys)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "mail.example.com", cfg.Email.SMTP.Host)
	assert.True(t, cfg.SMS.Enabled())
	assert.Equal(t, "+15550000000", cfg.SMS.From)
	assert.True(t, cfg.Telegram.Enabled())
}

func TestLoad_File(t *testing.T) {
	dir := chdir(t)
	yaml := `
server:
  port: 7000
email:
  provider: resend
  from_address: no-reply@example.com
  from_name: Acme
supabase:
  url: https://project.supabase.co
  service_key: secret
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "no-reply@example.com", cfg.Email.FromAddress)
	assert.Equal(t, "Acme", cfg.Email.FromName)
	assert.True(t, cfg.Supabase.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown email provider", map[string]string{"NOTIFIER_EMAIL_PROVIDER": "postmark"}},
		{"smtp without host", map[string]string{"NOTIFIER_EMAIL_PROVIDER": "smtp"}},
		{"sms without sender", map[string]string{"NOTIFIER_SMS_ACCOUNT_SID": "AC1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
