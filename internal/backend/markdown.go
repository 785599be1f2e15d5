package backend

import (
	"fmt"
	"strings"
)

// Markdown renders citations as a Markdown list. With Attributes set,
// special links carry a kramdown class attribute ("{: .pdf}") so Jekyll
// sites can style them like the HTML backend does.
type Markdown struct {
	Attributes bool
}

var markdownTags = map[string]string{
	"em":     "*",
	"emph":   "*",
	"i":      "*",
	"strong": "**",
	"b":      "**",
}

var markdownSymbols = map[string]string{
	"ndash":    "–",
	"nbsp":     " ",
	"newblock": " ",
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
)

func (Markdown) Name() string      { return "markdown" }
func (Markdown) Extension() string { return "md" }

func (Markdown) Escape(text string) string {
	return markdownEscaper.Replace(text)
}

func (Markdown) Tag(name, text string) (string, error) {
	mark, ok := markdownTags[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTag, name)
	}
	return mark + text + mark, nil
}

func (m Markdown) HRef(url, label string) string {
	link := fmt.Sprintf("[%s](%s)", label, strings.ReplaceAll(url, ")", "%29"))
	if class := hrefClass(label); class != "" && m.Attributes {
		link += "{: ." + class + "}"
	}
	return link
}

func (Markdown) Symbol(name string) (string, error) {
	s, ok := markdownSymbols[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
	}
	return s, nil
}

func (m Markdown) Heading(title string) string {
	return "## " + m.Escape(title) + "\n\n"
}

func (Markdown) BeginList() string { return "" }
func (Markdown) EndList() string   { return "\n" }

func (Markdown) RenderEntry(key, label, text string) string {
	return "- " + text + "\n"
}
