package email

import (
	"context"
	"errors"

	"notifier/internal/common"
	"notifier/pkg/channel/email"

	"github.com/resend/resend-go/v2"
)

var _ email.Provider = (*ResendProvider)(nil)

// ResendProvider sends emails using the Resend API.
type ResendProvider struct {
	client *resend.Client
}

// NewResendProvider creates a new Resend email provider.
func NewResendProvider(apiKey string) *ResendProvider {
	return &ResendProvider{client: resend.NewClient(apiKey)}
}

// Name returns the provider identifier.
func (p *ResendProvider) Name() string { return "resend" }

// Send delivers an email via the Resend API.
func (p *ResendProvider) Send(ctx context.Context, msg *email.Message) error {
	resp, err := p.client.Emails.SendWithContext(ctx, resendRequest(msg))
	if err != nil {
		return common.NewProviderError(p.Name(), 0, err)
	}
	if resp == nil || resp.Id == "" {
		return common.NewProviderError(p.Name(), 0, errors.New("empty response"))
	}
	return nil
}

func resendRequest(msg *email.Message) *resend.SendEmailRequest {
	req := &resend.SendEmailRequest{
		From:    msg.From.String(),
		To:      []string{msg.To.String()},
		Subject: msg.Contents.Subject,
		Html:    msg.Contents.HTML,
		Text:    msg.Contents.Text,
	}
	if msg.ReplyTo != nil {
		req.ReplyTo = msg.ReplyTo.String()
	}
	return req
}
