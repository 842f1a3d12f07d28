// Package sms is the SMS delivery channel.
package sms

import (
	"context"

	"notifier/pkg/dispatch"
)

const channelName = "sms"

var _ dispatch.Channel[PhoneNumber, *Message, Template, Contents] = (*Channel)(nil)

// Provider delivers SMS messages. Implementations live in internal/infra/sms.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

// Channel delivers notifications by SMS.
type Channel struct {
	provider      Provider
	defaultSender PhoneNumber
}

// New creates an SMS channel. Without a default sender every message fails
// to build.
func New(provider Provider, defaultSender PhoneNumber) *Channel {
	return &Channel{provider: provider, defaultSender: defaultSender}
}

// Erased returns the channel ready for Notifier.RegisterChannel.
func (c *Channel) Erased() dispatch.ErasedChannel {
	return dispatch.Erase[PhoneNumber, *Message, Template, Contents](c)
}

// Identity returns the SMS channel's identity.
func (c *Channel) Identity() dispatch.ChannelIdentity {
	return dispatch.IdentityOf[*Message, PhoneNumber]()
}

// CreateMessage addresses contents to contact from the default sender. A
// missing recipient, sender or body is a BuildError.
func (c *Channel) CreateMessage(contact PhoneNumber, contents Contents) (*Message, error) {
	if contact == "" {
		return nil, dispatch.NewBuildError(channelName, "to")
	}
	if c.defaultSender == "" {
		return nil, dispatch.NewBuildError(channelName, "from")
	}
	if contents.Body == "" {
		return nil, dispatch.NewBuildError(channelName, "body")
	}
	return &Message{To: contact, From: c.defaultSender, Body: contents.Body}, nil
}

// Send delivers msg through the provider.
func (c *Channel) Send(ctx context.Context, msg *Message) error {
	if err := c.provider.Send(ctx, msg); err != nil {
		return dispatch.NewTransportError(channelName, c.provider.Name(), err)
	}
	return nil
}

// RegisterTemplate compiles the message body.
func (c *Channel) RegisterTemplate(id dispatch.NotificationID, source Template, ts *dispatch.TemplateService) error {
	handle, err := ts.Compile(source.Body)
	if err != nil {
		return err
	}
	ts.PutTemplate(id, c.Identity(), handle)
	return nil
}

// RenderTemplate renders the stored body for id.
func (c *Channel) RenderTemplate(id dispatch.NotificationID, ctx dispatch.RenderContext, ts *dispatch.TemplateService) (Contents, error) {
	handle, err := dispatch.GetTemplate[dispatch.TemplateHandle](ts, id, c.Identity())
	if err != nil {
		return Contents{}, err
	}
	body, err := ts.RenderTemplate(handle, ctx)
	if err != nil {
		return Contents{}, err
	}
	return Contents{Body: body}, nil
}
