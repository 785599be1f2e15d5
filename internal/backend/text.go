package backend

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Text renders citations as plain text, one numbered line per entry.
type Text struct{}

var textSymbols = map[string]string{
	"ndash":    "–",
	"nbsp":     " ",
	"newblock": " ",
}

func (Text) Name() string      { return "text" }
func (Text) Extension() string { return "txt" }

func (Text) Escape(text string) string { return text }

func (Text) Tag(name, text string) (string, error) {
	// Emphasis has no plain-text form, but the vocabulary is still enforced.
	if _, ok := htmlTags[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTag, name)
	}
	return text, nil
}

func (Text) HRef(url, label string) string {
	if hrefClass(label) != "" {
		return fmt.Sprintf("[%s] <%s>", label, url)
	}
	return fmt.Sprintf("%s <%s>", label, url)
}

func (Text) Symbol(name string) (string, error) {
	s, ok := textSymbols[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
	}
	return s, nil
}

func (Text) Heading(title string) string {
	return title + "\n" + strings.Repeat("=", utf8.RuneCountInString(title)) + "\n\n"
}

func (Text) BeginList() string { return "" }
func (Text) EndList() string   { return "\n" }

func (Text) RenderEntry(key, label, text string) string {
	return fmt.Sprintf("[%s] %s\n", label, text)
}
