// Package richtext holds the markup-neutral representation of a formatted
// citation: plain strings, tags, hyperlinks, and named symbols. A Text is
// turned into markup by a Formatter.
package richtext

import (
	"strings"
)

// Formatter renders rich-text nodes in one markup dialect.
type Formatter interface {
	// Escape escapes literal text.
	Escape(text string) string
	// Tag wraps already-escaped text in the named tag.
	Tag(name, text string) (string, error)
	// HRef renders a hyperlink around an already-rendered label.
	HRef(url, label string) string
	// Symbol renders a named symbol such as "ndash" or "nbsp".
	Symbol(name string) (string, error)
}

// Node is one run of rich text.
type Node interface {
	render(f Formatter) (string, error)
	plain() string
}

// Text is an ordered sequence of nodes.
type Text []Node

// String is a run of literal text.
type String string

// Tag wraps its body in a named tag ("em", "strong", ...).
type Tag struct {
	Name string
	Body Text
}

// HRef is a hyperlink.
type HRef struct {
	URL  string
	Body Text
}

// Symbol is a named symbol.
type Symbol string

// Common symbols.
const (
	NDash    Symbol = "ndash"
	NBSP     Symbol = "nbsp"
	NewBlock Symbol = "newblock"
)

// New builds a Text from nodes, skipping nils.
func New(nodes ...Node) Text {
	t := make(Text, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			t = append(t, n)
		}
	}
	return t
}

// Append returns a new Text with nodes added at the end. The receiver is
// never modified.
func (t Text) Append(nodes ...Node) Text {
	out := make(Text, 0, len(t)+len(nodes))
	out = append(out, t...)
	return append(out, nodes...)
}

// IsEmpty reports whether the text has no visible content.
func (t Text) IsEmpty() bool {
	return t.Plain() == ""
}

// Render renders the text with the given formatter.
func (t Text) Render(f Formatter) (string, error) {
	return t.render(f)
}

// Plain returns the text content without markup.
func (t Text) Plain() string {
	return t.plain()
}

func (t Text) render(f Formatter) (string, error) {
	var b strings.Builder
	for _, n := range t {
		s, err := n.render(f)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (t Text) plain() string {
	var b strings.Builder
	for _, n := range t {
		b.WriteString(n.plain())
	}
	return b.String()
}

func (s String) render(f Formatter) (string, error) {
	return f.Escape(string(s)), nil
}

func (s String) plain() string {
	return string(s)
}

func (t Tag) render(f Formatter) (string, error) {
	body, err := t.Body.render(f)
	if err != nil {
		return "", err
	}
	return f.Tag(t.Name, body)
}

func (t Tag) plain() string {
	return t.Body.plain()
}

func (h HRef) render(f Formatter) (string, error) {
	label, err := h.Body.render(f)
	if err != nil {
		return "", err
	}
	return f.HRef(h.URL, label), nil
}

func (h HRef) plain() string {
	return h.Body.plain()
}

func (s Symbol) render(f Formatter) (string, error) {
	return f.Symbol(string(s))
}

func (s Symbol) plain() string {
	switch s {
	case NDash:
		return "–"
	case NBSP, NewBlock:
		return " "
	}
	return ""
}

// Join concatenates texts, placing sep between non-empty ones.
func Join(sep Node, parts ...Text) Text {
	var out Text
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		if len(out) > 0 && sep != nil {
			out = append(out, sep)
		}
		out = append(out, p...)
	}
	return out
}
