// Package email is the email delivery channel.
package email

import (
	"context"

	"notifier/pkg/dispatch"
)

const channelName = "email"

var _ dispatch.Channel[Address, *Message, Template, Contents] = (*Channel)(nil)

// Options configures the email channel.
type Options struct {
	// DefaultSender is used as the From address of every message.
	DefaultSender Address
	// ReplyTo is set on every message when non-nil.
	ReplyTo *Address
	// Preprocessor converts MJML bodies to HTML at registration.
	Preprocessor dispatch.Preprocessor
}

// Channel delivers notifications by email.
type Channel struct {
	provider Provider
	options  Options
}

// New creates an email channel sending through provider.
func New(provider Provider, options Options) *Channel {
	return &Channel{provider: provider, options: options}
}

// Erased returns the channel ready for Notifier.RegisterChannel.
func (c *Channel) Erased() dispatch.ErasedChannel {
	return dispatch.Erase[Address, *Message, Template, Contents](c)
}

// Identity returns the email channel's identity.
func (c *Channel) Identity() dispatch.ChannelIdentity {
	return dispatch.IdentityOf[*Message, Address]()
}

// CreateMessage addresses contents to contact from the default sender.
func (c *Channel) CreateMessage(contact Address, contents Contents) (*Message, error) {
	if contact.Email == "" {
		return nil, dispatch.NewBuildError(channelName, "to")
	}
	if c.options.DefaultSender.Email == "" {
		return nil, dispatch.NewBuildError(channelName, "from")
	}

	msg := &Message{
		To:       contact,
		From:     c.options.DefaultSender,
		Contents: contents,
	}
	if c.options.ReplyTo != nil {
		replyTo := *c.options.ReplyTo
		msg.ReplyTo = &replyTo
	}
	return msg, nil
}

// Send delivers msg through the provider.
func (c *Channel) Send(ctx context.Context, msg *Message) error {
	if err := c.provider.Send(ctx, msg); err != nil {
		return dispatch.NewTransportError(channelName, c.provider.Name(), err)
	}
	return nil
}

// RegisterTemplate compiles the subject, HTML and optional text bodies.
func (c *Channel) RegisterTemplate(id dispatch.NotificationID, source Template, ts *dispatch.TemplateService) error {
	html, err := source.HTML.Preprocess(c.options.Preprocessor)
	if err != nil {
		return err
	}

	compiled := &compiledTemplate{}

	if compiled.subject, err = ts.Compile(source.Subject); err != nil {
		return err
	}
	if compiled.html, err = ts.Compile(html); err != nil {
		ts.Forget(compiled.subject)
		return err
	}
	if source.Text != "" {
		text, err := ts.Compile(source.Text)
		if err != nil {
			ts.Forget(compiled.subject, compiled.html)
			return err
		}
		compiled.text = &text
	}

	ts.PutTemplate(id, c.Identity(), compiled)
	return nil
}

// RenderTemplate renders the stored template for id.
func (c *Channel) RenderTemplate(id dispatch.NotificationID, ctx dispatch.RenderContext, ts *dispatch.TemplateService) (Contents, error) {
	compiled, err := dispatch.GetTemplate[*compiledTemplate](ts, id, c.Identity())
	if err != nil {
		return Contents{}, err
	}

	subject, err := ts.RenderTemplate(compiled.subject, ctx)
	if err != nil {
		return Contents{}, err
	}
	html, err := ts.RenderTemplate(compiled.html, ctx)
	if err != nil {
		return Contents{}, err
	}

	var text string
	if compiled.text != nil {
		if text, err = ts.RenderTemplate(*compiled.text, ctx); err != nil {
			return Contents{}, err
		}
	} else {
		text = stripHTML(html)
	}

	return Contents{Subject: subject, HTML: html, Text: text}, nil
}
