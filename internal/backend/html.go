package backend

import (
	"fmt"

	"golang.org/x/net/html"
)

// HTML renders citations as an HTML fragment for a Jekyll page.
type HTML struct{}

var htmlTags = map[string]string{
	"em":     "em",
	"emph":   "em",
	"i":      "em",
	"strong": "strong",
	"b":      "strong",
}

var htmlSymbols = map[string]string{
	"ndash":    "&ndash;",
	"nbsp":     "&nbsp;",
	"newblock": "\n",
}

func (HTML) Name() string      { return "html" }
func (HTML) Extension() string { return "html" }

func (HTML) Escape(text string) string {
	return html.EscapeString(text)
}

func (HTML) Tag(name, text string) (string, error) {
	tag, ok := htmlTags[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTag, name)
	}
	return fmt.Sprintf("<%s>%s</%s>", tag, text, tag), nil
}

func (HTML) HRef(url, label string) string {
	if class := hrefClass(label); class != "" {
		return fmt.Sprintf(`<a href="%s" class="%s">%s</a>`, html.EscapeString(url), class, label)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(url), label)
}

func (HTML) Symbol(name string) (string, error) {
	s, ok := htmlSymbols[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
	}
	return s, nil
}

func (HTML) Heading(title string) string {
	return "<h2>" + html.EscapeString(title) + "</h2>\n"
}

func (HTML) BeginList() string { return "<ul>\n" }
func (HTML) EndList() string   { return "</ul>\n" }

func (HTML) RenderEntry(key, label, text string) string {
	return "<li>" + text + "</li>\n"
}
