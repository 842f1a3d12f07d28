// Package liquid implements dispatch.Engine with the Liquid template
// language ({{ name }}, {% if %}, filters).
package liquid

import (
	"fmt"
	"sync"

	"notifier/pkg/dispatch"

	"github.com/osteele/liquid"
)

var _ dispatch.Engine = (*Engine)(nil)

// Engine compiles Liquid templates and keeps them by handle.
type Engine struct {
	parser *liquid.Engine

	mu        sync.RWMutex
	templates map[dispatch.TemplateHandle]*liquid.Template
}

// NewEngine creates an empty Liquid engine with the standard filters and tags.
func NewEngine() *Engine {
	return &Engine{
		parser:    liquid.NewEngine(),
		templates: make(map[dispatch.TemplateHandle]*liquid.Template),
	}
}

// Compile parses source and stores the compiled template.
func (e *Engine) Compile(source string) (dispatch.TemplateHandle, error) {
	tmpl, err := e.parser.ParseString(source)
	if err != nil {
		return dispatch.TemplateHandle{}, fmt.Errorf("parsing liquid template: %w", err)
	}

	handle := dispatch.NewTemplateHandle()

	e.mu.Lock()
	e.templates[handle] = tmpl
	e.mu.Unlock()

	return handle, nil
}

// Render executes the template behind handle.
func (e *Engine) Render(handle dispatch.TemplateHandle, ctx dispatch.RenderContext) (string, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[handle]
	e.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("unknown template handle %s", handle)
	}

	out, err := tmpl.RenderString(liquid.Bindings(ctx))
	if err != nil {
		return "", fmt.Errorf("rendering liquid template: %w", err)
	}
	return out, nil
}

// Forget drops the template behind handle.
func (e *Engine) Forget(handle dispatch.TemplateHandle) {
	e.mu.Lock()
	delete(e.templates, handle)
	e.mu.Unlock()
}

// Len returns the number of compiled templates.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.templates)
}
