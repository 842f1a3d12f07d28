package dispatch

import "context"

// Channel is a concrete delivery mechanism. C is its contact type, M its
// message type, U the user template integrators register and R the rendered
// content the template produces.
type Channel[C, M, U, R any] interface {
	// Identity returns IdentityOf[M, C]().
	Identity() ChannelIdentity

	// CreateMessage builds a transport-ready message for contact. It fails
	// with a BuildError when a required field cannot be derived.
	CreateMessage(contact C, contents R) (M, error)

	// Send hands message to the transport. Transport failures are returned
	// as a TransportError.
	Send(ctx context.Context, message M) error

	// RegisterTemplate compiles source and stores the compiled record in ts
	// under (id, Identity()).
	RegisterTemplate(id NotificationID, source U, ts *TemplateService) error

	// RenderTemplate renders the record stored under (id, Identity()).
	RenderTemplate(id NotificationID, ctx RenderContext, ts *TemplateService) (R, error)
}
