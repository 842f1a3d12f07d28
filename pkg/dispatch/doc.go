// Package dispatch routes notifications to delivery channels.
//
// Channels (email, SMS, ...) are registered once and stored behind a
// type-erased interface. Templates are registered per notification and per
// channel, and compiled into the template service. At send time the channel
// is resolved from the Go type of the contact, the stored template is rendered
// against the notification's data, and the resulting message is handed to the
// channel's transport.
//
// Registration is expected to finish before concurrent sends start. Call
// Notifier.Freeze to make that explicit; registration afterwards fails with
// ErrFrozen.
package dispatch
