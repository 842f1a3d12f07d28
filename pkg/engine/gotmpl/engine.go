// Package gotmpl implements dispatch.Engine with Go's text/template and
// html/template packages. Variables are addressed as {{.name}}.
package gotmpl

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	"sync"
	texttemplate "text/template"

	"notifier/pkg/dispatch"
)

var _ dispatch.Engine = (*Engine)(nil)

type executor interface {
	Execute(w io.Writer, data any) error
}

// Engine compiles Go templates. In HTML mode values are escaped for HTML
// output; in text mode they are written verbatim.
type Engine struct {
	html bool

	mu        sync.RWMutex
	templates map[dispatch.TemplateHandle]executor
}

// NewHTML creates an engine backed by html/template.
func NewHTML() *Engine {
	return &Engine{html: true, templates: make(map[dispatch.TemplateHandle]executor)}
}

// NewText creates an engine backed by text/template.
func NewText() *Engine {
	return &Engine{templates: make(map[dispatch.TemplateHandle]executor)}
}

// Compile parses source. Referencing a key missing from the render context
// is a render error.
func (e *Engine) Compile(source string) (dispatch.TemplateHandle, error) {
	handle := dispatch.NewTemplateHandle()

	var (
		tmpl executor
		err  error
	)
	if e.html {
		tmpl, err = htmltemplate.New(handle.String()).Option("missingkey=error").Parse(source)
	} else {
		tmpl, err = texttemplate.New(handle.String()).Option("missingkey=error").Parse(source)
	}
	if err != nil {
		return dispatch.TemplateHandle{}, fmt.Errorf("parsing template: %w", err)
	}

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

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(ctx)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
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
