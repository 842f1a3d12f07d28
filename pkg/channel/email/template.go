package email

import (
	"html"
	"regexp"
	"strings"

	"notifier/pkg/dispatch"
)

// Template is the email template integrators register for a notification.
type Template struct {
	Subject string
	HTML    dispatch.Markup
	// Text is the optional plain-text body. When empty, the text part is
	// derived from the rendered HTML.
	Text string
}

type compiledTemplate struct {
	subject dispatch.TemplateHandle
	html    dispatch.TemplateHandle
	text    *dispatch.TemplateHandle
}

func (c *compiledTemplate) TemplateHandles() []dispatch.TemplateHandle {
	handles := []dispatch.TemplateHandle{c.subject, c.html}
	if c.text != nil {
		handles = append(handles, *c.text)
	}
	return handles
}

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	styleRe      = regexp.MustCompile(`(?is)<(style|script|head)[^>]*>.*?</(style|script|head)>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// stripHTML turns rendered HTML into a plain-text fallback.
func stripHTML(s string) string {
	text := styleRe.ReplaceAllString(s, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
