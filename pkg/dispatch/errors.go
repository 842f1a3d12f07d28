package dispatch

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrFrozen is returned by registration calls made after Freeze.
var ErrFrozen = errors.New("notifier is frozen: registration is closed")

// ErrAbstractNotification is returned when a notification kind is given as an
// interface type, which has no id of its own.
var ErrAbstractNotification = errors.New("notification kind must be a concrete type")

// ErrNilNotification is returned when a send is given a nil notification.
var ErrNilNotification = errors.New("notification is nil")

// UnknownChannelError indicates that no registered channel handles the
// contact or template type used in a call.
type UnknownChannelError struct {
	// Lookup is "contact" or "template".
	Lookup string
	Type   reflect.Type
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("no channel registered for %s type %s", e.Lookup, typeName(e.Type))
}

// NewUnknownChannelError creates a new UnknownChannelError.
func NewUnknownChannelError(lookup string, t reflect.Type) *UnknownChannelError {
	return &UnknownChannelError{Lookup: lookup, Type: t}
}

// TemplateNotFoundError indicates that no template was registered for a
// notification on a channel.
type TemplateNotFoundError struct {
	NotificationID NotificationID
	Channel        ChannelIdentity
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("no template registered for notification '%s' on channel %s", e.NotificationID, e.Channel)
}

// NewTemplateNotFoundError creates a new TemplateNotFoundError.
func NewTemplateNotFoundError(id NotificationID, channel ChannelIdentity) *TemplateNotFoundError {
	return &TemplateNotFoundError{NotificationID: id, Channel: channel}
}

// DowncastError reports a type mismatch at the erasure boundary. Lookups are
// keyed by type before any downcast, so this signals a broken registry
// invariant rather than a caller mistake.
type DowncastError struct {
	Expected reflect.Type
	Found    reflect.Type
	Context  string
}

func (e *DowncastError) Error() string {
	msg := fmt.Sprintf("downcast failed: expected %s, found %s", typeName(e.Expected), typeName(e.Found))
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// EngineError wraps a template engine failure.
type EngineError struct {
	// Op is the failing step: "compile", "render", "context" or "preprocess".
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new EngineError.
func NewEngineError(op string, err error) *EngineError {
	return &EngineError{Op: op, Err: err}
}

// BuildError indicates that a channel could not build its message, usually
// because a required field is missing on the contact and has no default.
type BuildError struct {
	Channel string
	Field   string
	Reason  string
}

func (e *BuildError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: cannot build message: missing %s", e.Channel, e.Field)
	}
	return fmt.Sprintf("%s: cannot build message: %s: %s", e.Channel, e.Field, e.Reason)
}

// NewBuildError creates a BuildError for a missing field.
func NewBuildError(channel, field string) *BuildError {
	return &BuildError{Channel: channel, Field: field}
}

// TransportError wraps a failure of a channel's underlying transport.
type TransportError struct {
	Channel  string
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s provider %s: %v", e.Channel, e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError.
func NewTransportError(channel, provider string, err error) *TransportError {
	return &TransportError{Channel: channel, Provider: provider, Err: err}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
