package dispatch

import (
	"context"
	"reflect"
)

// ErasedContact carries a contact across the erasure boundary, tagged with the
// channel it was resolved for.
type ErasedContact struct {
	Channel ChannelIdentity
	Value   any
}

// ErasedMessage carries a built message, tagged with the channel that built it.
type ErasedMessage struct {
	Channel ChannelIdentity
	Value   any
}

// ErasedRenderedTemplate carries rendered content, tagged with the channel
// that rendered it.
type ErasedRenderedTemplate struct {
	Channel ChannelIdentity
	Value   any
}

// ErasedUserTemplate carries a user template on its way to its channel.
type ErasedUserTemplate struct {
	Value any
}

// ErasedChannel is the uniform, non-generic view of a Channel. Only Erase
// produces values of this type, so every registered channel goes through the
// same type checks.
type ErasedChannel interface {
	Identity() ChannelIdentity
	ContactType() reflect.Type
	TemplateType() reflect.Type

	SendErased(ctx context.Context, message ErasedMessage) error
	CreateErasedMessage(contact ErasedContact, contents ErasedRenderedTemplate) (ErasedMessage, error)
	RegisterErasedTemplate(id NotificationID, template ErasedUserTemplate, ts *TemplateService) error
	RenderErasedTemplate(id NotificationID, ctx RenderContext, ts *TemplateService) (ErasedRenderedTemplate, error)

	erased()
}

// Erase wraps ch so it can be stored alongside channels of other types.
func Erase[C, M, U, R any](ch Channel[C, M, U, R]) ErasedChannel {
	return &adapter[C, M, U, R]{channel: ch}
}

type adapter[C, M, U, R any] struct {
	channel Channel[C, M, U, R]
}

func (a *adapter[C, M, U, R]) erased() {}

func (a *adapter[C, M, U, R]) Identity() ChannelIdentity {
	return a.channel.Identity()
}

func (a *adapter[C, M, U, R]) ContactType() reflect.Type {
	return reflect.TypeFor[C]()
}

func (a *adapter[C, M, U, R]) TemplateType() reflect.Type {
	return reflect.TypeFor[U]()
}

func (a *adapter[C, M, U, R]) SendErased(ctx context.Context, message ErasedMessage) error {
	if err := a.checkTag(message.Channel, "message"); err != nil {
		return err
	}
	msg, err := downcast[M](message.Value, "message")
	if err != nil {
		return err
	}
	return a.channel.Send(ctx, msg)
}

func (a *adapter[C, M, U, R]) CreateErasedMessage(contact ErasedContact, contents ErasedRenderedTemplate) (ErasedMessage, error) {
	if err := a.checkTag(contact.Channel, "contact"); err != nil {
		return ErasedMessage{}, err
	}
	if err := a.checkTag(contents.Channel, "rendered template"); err != nil {
		return ErasedMessage{}, err
	}

	c, err := downcast[C](contact.Value, "contact")
	if err != nil {
		return ErasedMessage{}, err
	}
	r, err := downcast[R](contents.Value, "rendered template")
	if err != nil {
		return ErasedMessage{}, err
	}

	msg, err := a.channel.CreateMessage(c, r)
	if err != nil {
		return ErasedMessage{}, err
	}
	return ErasedMessage{Channel: a.Identity(), Value: msg}, nil
}

func (a *adapter[C, M, U, R]) RegisterErasedTemplate(id NotificationID, template ErasedUserTemplate, ts *TemplateService) error {
	u, err := downcast[U](template.Value, "user template")
	if err != nil {
		return err
	}
	return a.channel.RegisterTemplate(id, u, ts)
}

func (a *adapter[C, M, U, R]) RenderErasedTemplate(id NotificationID, ctx RenderContext, ts *TemplateService) (ErasedRenderedTemplate, error) {
	r, err := a.channel.RenderTemplate(id, ctx, ts)
	if err != nil {
		return ErasedRenderedTemplate{}, err
	}
	return ErasedRenderedTemplate{Channel: a.Identity(), Value: r}, nil
}

// checkTag rejects values tagged for another channel. An untagged value is
// accepted and left to the type check.
func (a *adapter[C, M, U, R]) checkTag(tag ChannelIdentity, what string) error {
	if tag.IsZero() || tag == a.Identity() {
		return nil
	}
	return &DowncastError{
		Expected: a.Identity().MessageType(),
		Found:    tag.MessageType(),
		Context:  what + " tagged for channel " + tag.String(),
	}
}

func downcast[T any](v any, what string) (T, error) {
	t, ok := v.(T)
	if !ok {
		return t, &DowncastError{
			Expected: reflect.TypeFor[T](),
			Found:    reflect.TypeOf(v),
			Context:  what,
		}
	}
	return t, nil
}
