package dispatch

import (
	"fmt"
	"reflect"
)

// NotificationID identifies one kind of notification across all channels.
type NotificationID string

func (id NotificationID) String() string {
	return string(id)
}

// Notification is implemented by the data payload of a notification kind.
// NotificationID must not depend on the receiver's fields: the dispatcher
// calls it on a zero value.
type Notification interface {
	NotificationID() NotificationID
}

// NotificationIDOf returns the id of notification kind N. N may be a struct
// type or a pointer to one; for pointers the id is read from a freshly
// allocated element rather than a nil pointer. N must not be an interface.
func NotificationIDOf[N Notification]() (NotificationID, error) {
	t := reflect.TypeFor[N]()
	switch t.Kind() {
	case reflect.Interface:
		return "", fmt.Errorf("%w: %s", ErrAbstractNotification, t)
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface().(Notification).NotificationID(), nil
	default:
		var zero N
		return zero.NotificationID(), nil
	}
}

// ChannelIdentity tags one channel implementation. It is derived from the
// channel's message and contact types, so two implementations never share
// one and the same implementation always produces the same one.
type ChannelIdentity struct {
	message reflect.Type
	contact reflect.Type
}

// IdentityOf returns the identity of a channel whose message type is M and
// whose contact type is C. Channel implementations return it from Identity.
func IdentityOf[M, C any]() ChannelIdentity {
	return ChannelIdentity{
		message: reflect.TypeFor[M](),
		contact: reflect.TypeFor[C](),
	}
}

// IsZero reports whether the identity was never assigned.
func (c ChannelIdentity) IsZero() bool {
	return c.message == nil && c.contact == nil
}

// MessageType returns the channel's message type.
func (c ChannelIdentity) MessageType() reflect.Type {
	return c.message
}

// ContactType returns the channel's contact type.
func (c ChannelIdentity) ContactType() reflect.Type {
	return c.contact
}

func (c ChannelIdentity) String() string {
	if c.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%s|%s", c.message, c.contact)
}
