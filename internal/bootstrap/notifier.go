// Package bootstrap builds the dispatch notifier from configuration. Both the
// API server and the worker use it, so they agree on channels and templates.
package bootstrap

import (
	"fmt"
	"log/slog"

	"notifier/internal/catalog"
	"notifier/internal/config"
	infraemail "notifier/internal/infra/email"
	infrasms "notifier/internal/infra/sms"
	infratelegram "notifier/internal/infra/telegram"
	"notifier/pkg/channel/email"
	"notifier/pkg/channel/sms"
	"notifier/pkg/channel/telegram"
	"notifier/pkg/dispatch"
	"notifier/pkg/engine/liquid"
)

// NewTelegramProvider is swapped out in tests, where there is no Bot API to
// authenticate against.
var NewTelegramProvider = func(token string) (telegram.Provider, error) {
	p, err := infratelegram.NewBotProvider(token)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Notifier registers every configured channel and the catalog's templates,
// then freezes the notifier.
func Notifier(cfg *config.Config, cat *catalog.Catalog, logger *slog.Logger) (*dispatch.Notifier, error) {
	n := dispatch.New(liquid.NewEngine(), dispatch.WithLogger(logger))

	channels, err := buildChannels(cfg)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if err := n.RegisterChannel(ch); err != nil {
			return nil, fmt.Errorf("registering channel %s: %w", ch.Identity(), err)
		}
	}

	if err := cat.Register(n, logger); err != nil {
		return nil, fmt.Errorf("registering templates: %w", err)
	}

	n.Freeze()

	logger.Info("notifier ready", "channels", len(channels), "notifications", len(cat.IDs()))
	return n, nil
}

func buildChannels(cfg *config.Config) ([]dispatch.ErasedChannel, error) {
	var channels []dispatch.ErasedChannel

	if cfg.Email.Provider != "" {
		ch, err := emailChannel(cfg.Email)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}

	if cfg.SMS.Enabled() {
		from, err := sms.ParsePhoneNumber(cfg.SMS.From)
		if err != nil {
			return nil, fmt.Errorf("parsing sms.from: %w", err)
		}
		provider := infrasms.NewGatewayProvider(cfg.SMS.BaseURL, cfg.SMS.AccountSID, cfg.SMS.AuthToken)
		channels = append(channels, sms.New(provider, from).Erased())
	}

	if cfg.Telegram.Enabled() {
		provider, err := NewTelegramProvider(cfg.Telegram.BotToken)
		if err != nil {
			return nil, fmt.Errorf("initializing telegram: %w", err)
		}
		channels = append(channels, telegram.New(provider).Erased())
	}

	return channels, nil
}

func emailChannel(cfg config.EmailConfig) (dispatch.ErasedChannel, error) {
	var provider email.Provider
	switch cfg.Provider {
	case "resend":
		provider = infraemail.NewResendProvider(cfg.APIKey)
	case "smtp":
		provider = infraemail.NewSMTPProvider(infraemail.SMTPConfig{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			Username:   cfg.SMTP.Username,
			Password:   cfg.SMTP.Password,
			Encryption: cfg.SMTP.Encryption,
		})
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}

	opts := email.Options{
		DefaultSender: email.Address{Name: cfg.FromName, Email: cfg.FromAddress},
	}
	if cfg.ReplyTo != "" {
		replyTo, err := email.ParseAddress(cfg.ReplyTo)
		if err != nil {
			return nil, fmt.Errorf("parsing email.reply_to: %w", err)
		}
		opts.ReplyTo = &replyTo
	}

	return email.New(provider, opts).Erased(), nil
}
