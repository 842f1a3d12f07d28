package dispatch

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
)

// Notifier is the dispatch facade. It owns the channel registry and the
// template service.
type Notifier struct {
	mu        sync.RWMutex
	channels  *ChannelRegistry
	templates *TemplateService
	frozen    bool
	logger    *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger used for registration and send events.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a Notifier whose templates are compiled by engine.
func New(engine Engine, opts ...Option) *Notifier {
	n := &Notifier{
		channels:  NewChannelRegistry(),
		templates: NewTemplateService(engine),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// RegisterChannel adds ch to the registry. A channel with the same identity
// is replaced.
func (n *Notifier) RegisterChannel(ch ErasedChannel) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.frozen {
		return ErrFrozen
	}

	if replaced := n.channels.Register(ch); replaced {
		n.logger.Warn("channel replaced", "channel", ch.Identity().String())
	} else {
		n.logger.Debug("channel registered", "channel", ch.Identity().String())
	}
	return nil
}

// RegisterTemplate registers template for notification id on the channel
// that owns template's type.
func (n *Notifier) RegisterTemplate(id NotificationID, template any) error {
	return n.registerTemplate(id, reflect.TypeOf(template), template)
}

// RegisterNotification registers template for the notification kind N on the
// channel that owns user templates of type U.
func RegisterNotification[N Notification, U any](n *Notifier, template U) error {
	id, err := NotificationIDOf[N]()
	if err != nil {
		return err
	}
	return n.registerTemplate(id, reflect.TypeFor[U](), template)
}

func (n *Notifier) registerTemplate(id NotificationID, templateType reflect.Type, template any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.frozen {
		return ErrFrozen
	}

	ch, ok := n.channels.FindByTemplateType(templateType)
	if !ok {
		return NewUnknownChannelError("template", templateType)
	}

	if err := ch.RegisterErasedTemplate(id, ErasedUserTemplate{Value: template}, n.templates); err != nil {
		return err
	}

	n.logger.Debug("notification template registered",
		"notification", id.String(),
		"channel", ch.Identity().String(),
	)
	return nil
}

// Send delivers notification to contact through the channel registered for
// the contact's dynamic type.
func (n *Notifier) Send(ctx context.Context, notification Notification, contact any) error {
	return n.send(ctx, notification, reflect.TypeOf(contact), contact)
}

// SendMessageToContact delivers notification to contact through the channel
// registered for contact type C.
func SendMessageToContact[N Notification, C any](ctx context.Context, n *Notifier, notification N, contact C) error {
	return n.send(ctx, notification, reflect.TypeFor[C](), contact)
}

func (n *Notifier) send(ctx context.Context, notification Notification, contactType reflect.Type, contact any) error {
	if isNil(notification) {
		return ErrNilNotification
	}

	ch, msg, err := n.prepare(notification, contactType, contact)
	if err != nil {
		return err
	}

	if err := ch.SendErased(ctx, msg); err != nil {
		return err
	}

	n.logger.Debug("notification sent",
		"notification", notification.NotificationID().String(),
		"channel", ch.Identity().String(),
	)
	return nil
}

func isNil(notification Notification) bool {
	if notification == nil {
		return true
	}
	v := reflect.ValueOf(notification)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// prepare resolves the channel, renders the template and builds the message
// under the read lock. The transport call happens after the lock is released.
func (n *Notifier) prepare(notification Notification, contactType reflect.Type, contact any) (ErasedChannel, ErasedMessage, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ch, ok := n.channels.FindByContactType(contactType)
	if !ok {
		return nil, ErasedMessage{}, NewUnknownChannelError("contact", contactType)
	}

	ctx, err := NewRenderContext(notification)
	if err != nil {
		return nil, ErasedMessage{}, err
	}

	rendered, err := ch.RenderErasedTemplate(notification.NotificationID(), ctx, n.templates)
	if err != nil {
		return nil, ErasedMessage{}, err
	}

	msg, err := ch.CreateErasedMessage(ErasedContact{Channel: ch.Identity(), Value: contact}, rendered)
	if err != nil {
		return nil, ErasedMessage{}, err
	}
	return ch, msg, nil
}

// Freeze closes registration. Later RegisterChannel and template
// registration calls fail with ErrFrozen.
func (n *Notifier) Freeze() {
	n.mu.Lock()
	n.frozen = true
	n.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (n *Notifier) Frozen() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.frozen
}

// Channels lists the registered channel identities.
func (n *Notifier) Channels() []ChannelIdentity {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.channels.Identities()
}

// SupportsContact reports whether a channel is registered for contact's type.
func (n *Notifier) SupportsContact(contact any) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.channels.FindByContactType(reflect.TypeOf(contact))
	return ok
}

// HasTemplate reports whether notification id can be rendered for contact's
// channel.
func (n *Notifier) HasTemplate(id NotificationID, contact any) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ch, ok := n.channels.FindByContactType(reflect.TypeOf(contact))
	if !ok {
		return false
	}
	_, ok = n.templates.Registry().Lookup(id, ch.Identity())
	return ok
}

// Validate reports whether notification id could be sent to contact: it
// fails with UnknownChannelError when no channel handles the contact's type
// and TemplateNotFoundError when that channel has no template for id.
func (n *Notifier) Validate(id NotificationID, contact any) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	contactType := reflect.TypeOf(contact)
	ch, ok := n.channels.FindByContactType(contactType)
	if !ok {
		return NewUnknownChannelError("contact", contactType)
	}
	if _, ok := n.templates.Registry().Lookup(id, ch.Identity()); !ok {
		return NewTemplateNotFoundError(id, ch.Identity())
	}
	return nil
}
