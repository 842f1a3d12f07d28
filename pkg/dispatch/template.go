package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// TemplateHandle refers to a template compiled by an Engine.
type TemplateHandle struct {
	id uuid.UUID
}

// NewTemplateHandle returns a fresh random handle. Engines call it from Compile.
func NewTemplateHandle() TemplateHandle {
	return TemplateHandle{id: uuid.New()}
}

// IsZero reports whether the handle was never assigned.
func (h TemplateHandle) IsZero() bool {
	return h.id == uuid.Nil
}

func (h TemplateHandle) String() string {
	return h.id.String()
}

// TemplateHandles lets a bare handle be stored as a compiled-template record.
func (h TemplateHandle) TemplateHandles() []TemplateHandle {
	return []TemplateHandle{h}
}

// HandleSet is implemented by compiled-template records that own engine
// handles. When such a record is replaced, its handles are released.
type HandleSet interface {
	TemplateHandles() []TemplateHandle
}

// Forgetter is implemented by engines that can drop a compiled template.
// Render with a forgotten handle fails.
type Forgetter interface {
	Forget(handle TemplateHandle)
}

// RenderContext is the data a template is rendered against.
type RenderContext map[string]any

// NewRenderContext builds a render context from a notification payload. The
// payload is JSON-encoded, so json struct tags decide the variable names, and
// it must encode to an object.
func NewRenderContext(data any) (RenderContext, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, NewEngineError("context", fmt.Errorf("encoding data: %w", err))
	}

	var ctx RenderContext
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, NewEngineError("context", fmt.Errorf("data must encode to a JSON object: %w", err))
	}
	if ctx == nil {
		ctx = RenderContext{}
	}
	return ctx, nil
}

// Engine compiles template sources into handles and renders them.
// Implementations must be safe for concurrent Render calls.
type Engine interface {
	// Compile parses source and returns a handle to the compiled template.
	Compile(source string) (TemplateHandle, error)

	// Render executes the template behind handle against ctx.
	Render(handle TemplateHandle, ctx RenderContext) (string, error)
}
