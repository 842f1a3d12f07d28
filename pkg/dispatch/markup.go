package dispatch

import "errors"

// MarkupKind is the source language of a template body.
type MarkupKind int

const (
	MarkupText MarkupKind = iota
	MarkupHTML
	MarkupMJML
)

func (k MarkupKind) String() string {
	switch k {
	case MarkupText:
		return "text"
	case MarkupHTML:
		return "html"
	case MarkupMJML:
		return "mjml"
	default:
		return "unknown"
	}
}

// Markup is template source tagged with its markup language.
type Markup struct {
	Kind   MarkupKind
	Source string
}

// Text returns plain-text markup.
func Text(source string) Markup { return Markup{Kind: MarkupText, Source: source} }

// HTML returns HTML markup.
func HTML(source string) Markup { return Markup{Kind: MarkupHTML, Source: source} }

// MJML returns MJML markup. It needs a Preprocessor to become HTML.
func MJML(source string) Markup { return Markup{Kind: MarkupMJML, Source: source} }

// Preprocessor turns markup such as MJML into HTML before it is compiled.
type Preprocessor interface {
	Preprocess(source string) (string, error)
}

// PreprocessorFunc adapts a function to the Preprocessor interface.
type PreprocessorFunc func(source string) (string, error)

func (f PreprocessorFunc) Preprocess(source string) (string, error) {
	return f(source)
}

var errNoPreprocessor = errors.New("mjml markup requires a preprocessor")

// Preprocess returns the source ready for the template engine. Text and HTML
// pass through unchanged; MJML goes through p.
func (m Markup) Preprocess(p Preprocessor) (string, error) {
	switch m.Kind {
	case MarkupText, MarkupHTML:
		return m.Source, nil
	case MarkupMJML:
		if p == nil {
			return "", NewEngineError("preprocess", errNoPreprocessor)
		}
		out, err := p.Preprocess(m.Source)
		if err != nil {
			return "", NewEngineError("preprocess", err)
		}
		return out, nil
	default:
		return "", NewEngineError("preprocess", errors.New("unknown markup kind"))
	}
}
