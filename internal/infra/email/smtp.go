package email

import (
	"context"
	"fmt"

	"notifier/internal/common"
	"notifier/pkg/channel/email"

	"github.com/wneessen/go-mail"
)

var _ email.Provider = (*SMTPProvider)(nil)

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Encryption is "ssl_tls", "starttls" or empty for none.
	Encryption string
}

// SMTPProvider delivers email over SMTP using the go-mail library.
type SMTPProvider struct {
	config SMTPConfig
}

// NewSMTPProvider creates a new SMTPProvider with the given configuration.
func NewSMTPProvider(config SMTPConfig) *SMTPProvider {
	return &SMTPProvider{config: config}
}

// Name returns the provider identifier.
func (p *SMTPProvider) Name() string { return "smtp" }

// Send dials the configured server and delivers msg.
func (p *SMTPProvider) Send(ctx context.Context, msg *email.Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(p.config.Port),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(p.config.Encryption)),
	}
	if p.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.config.Username),
			mail.WithPassword(p.config.Password),
		)
	}

	c, err := mail.NewClient(p.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return common.NewProviderError(p.Name(), 0, fmt.Errorf("sending mail: %w", err))
	}
	return nil
}

func buildMsg(msg *email.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(msg.From.Name, msg.From.Email); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.AddToFormat(msg.To.Name, msg.To.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To.Email, err)
	}
	if msg.ReplyTo != nil {
		if err := m.ReplyToFormat(msg.ReplyTo.Name, msg.ReplyTo.Email); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}

	m.Subject(msg.Contents.Subject)

	// Plain-text first so clients that can't render HTML fall back to it.
	m.SetBodyString(mail.TypeTextPlain, msg.Contents.Text)
	if msg.Contents.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.Contents.HTML)
	}
	return m, nil
}

// tlsPolicyFromEncryption converts the encryption setting to a go-mail TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}
