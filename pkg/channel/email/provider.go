package email

import "context"

// Provider delivers email messages. Implementations live in internal/infra/email.
type Provider interface {
	// Name identifies the provider in errors and logs (e.g. "resend").
	Name() string

	// Send delivers msg.
	Send(ctx context.Context, msg *Message) error
}
