package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Auth        AuthConfig        `mapstructure:"auth"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Supabase    SupabaseConfig    `mapstructure:"supabase"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Email       EmailConfig       `mapstructure:"email"`
	SMS         SMSConfig         `mapstructure:"sms"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// AuthConfig holds API key authentication settings.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SupabaseConfig holds Supabase project settings. The delivery log is
// disabled when URL is empty.
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// Enabled reports whether the delivery log is configured.
func (c SupabaseConfig) Enabled() bool {
	return c.URL != ""
}

// QueueConfig holds async queue settings.
type QueueConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// IdempotencyConfig holds idempotency key settings.
type IdempotencyConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TTLSec  int  `mapstructure:"ttl_sec"`
}

// EmailConfig holds email channel settings. Provider is "resend", "smtp" or
// empty to disable the channel.
type EmailConfig struct {
	Provider    string     `mapstructure:"provider"`
	APIKey      string     `mapstructure:"api_key"`
	FromAddress string     `mapstructure:"from_address"`
	FromName    string     `mapstructure:"from_name"`
	ReplyTo     string     `mapstructure:"reply_to"`
	SMTP        SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	Encryption string `mapstructure:"encryption"`
}

// SMSConfig holds SMS channel settings. The channel is disabled when
// AccountSID is empty.
type SMSConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
}

// Enabled reports whether the SMS channel is configured.
func (c SMSConfig) Enabled() bool {
	return c.AccountSID != ""
}

// TelegramConfig holds Telegram channel settings. The channel is disabled
// when BotToken is empty.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
}

// Enabled reports whether the Telegram channel is configured.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}

// Load reads configuration from config.yaml and environment variables.
// Environment variables use the NOTIFIER_ prefix and underscore separators.
// Example: NOTIFIER_SERVER_PORT overrides server.port in config.yaml.
func Load() (*Config, error) {
	v := viper.New()

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Load .env file if it exists
	_ = godotenv.Load()

	// Environment variable settings
	v.SetEnvPrefix("NOTIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional; env vars can provide everything)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Handle comma-separated lists from env vars
	cfg.Auth.APIKeys = splitList(v, "auth.api_keys", cfg.Auth.APIKeys)
	cfg.CORS.AllowedOrigins = splitList(v, "cors.allowed_origins", cfg.CORS.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Every key is given a default so AutomaticEnv can see it during Unmarshal.
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("auth.api_keys", []string{})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_key", "")
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl_sec", 86400) // 24 hours
	v.SetDefault("email.provider", "resend")
	v.SetDefault("email.api_key", "")
	v.SetDefault("email.from_address", "")
	v.SetDefault("email.from_name", "")
	v.SetDefault("email.reply_to", "")
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.encryption", "starttls")
	v.SetDefault("sms.base_url", "")
	v.SetDefault("sms.account_sid", "")
	v.SetDefault("sms.auth_token", "")
	v.SetDefault("sms.from", "")
	v.SetDefault("telegram.bot_token", "")
}

// splitList returns current, or the comma-separated value of key when the
// value arrived as a single string (as it does from an env var).
func splitList(v *viper.Viper, key string, current []string) []string {
	raw, ok := v.Get(key).(string)
	if !ok || raw == "" {
		return current
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks settings that would otherwise fail at send time.
func (c *Config) Validate() error {
	switch c.Email.Provider {
	case "", "resend", "smtp":
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}
	if c.Email.Provider == "smtp" && c.Email.SMTP.Host == "" {
		return fmt.Errorf("email.smtp.host is required for the smtp provider")
	}
	if c.SMS.Enabled() && c.SMS.From == "" {
		return fmt.Errorf("sms.from is required when sms is configured")
	}
	return nil
}
