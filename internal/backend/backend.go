// Package backend renders grouped citations into a markup dialect.
package backend

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/matsen/pubpage/internal/publist"
	"github.com/matsen/pubpage/internal/richtext"
)

// ErrUnknownTag is returned when a citation uses a tag outside the
// backend's vocabulary. It indicates a bug in the style, not bad input.
var ErrUnknownTag = errors.New("unknown tag")

// ErrUnknownSymbol is returned for a symbol the backend cannot render.
var ErrUnknownSymbol = errors.New("unknown symbol")

// ErrUnknownBackend is returned by Find for an unregistered name.
var ErrUnknownBackend = errors.New("unknown backend")

// Backend is one output dialect.
type Backend interface {
	richtext.Formatter

	// Name is the registry name of the backend.
	Name() string
	// Extension is the file extension of the output, without a dot.
	Extension() string

	// Heading renders a category heading from an unescaped title.
	Heading(title string) string
	// BeginList opens the list of entries under a heading.
	BeginList() string
	// EndList closes the list.
	EndList() string
	// RenderEntry renders one list item from already-rendered text.
	RenderEntry(key, label, text string) string
}

var registry = map[string]func() Backend{
	"html":     func() Backend { return HTML{} },
	"markdown": func() Backend { return Markdown{Attributes: true} },
	"text":     func() Backend { return Text{} },
}

// Find returns the backend registered under name.
func Find(name string) (Backend, error) {
	newBackend, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Names())
	}
	return newBackend(), nil
}

// Names lists the registered backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteToStream writes one heading and list per block. Entry labels are
// 1-based positions across the whole page.
func WriteToStream(w io.Writer, b Backend, blocks []publist.Block) error {
	label := 0
	for _, block := range blocks {
		if _, err := io.WriteString(w, b.Heading(block.Category)); err != nil {
			return fmt.Errorf("writing heading: %w", err)
		}
		if _, err := io.WriteString(w, b.BeginList()); err != nil {
			return fmt.Errorf("writing list: %w", err)
		}
		for _, e := range block.Entries {
			label++
			text, err := e.Citation.Render(b)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", e.Record.Key, err)
			}
			item := b.RenderEntry(e.Record.Key, fmt.Sprint(label), text)
			if _, err := io.WriteString(w, item); err != nil {
				return fmt.Errorf("writing entry %s: %w", e.Record.Key, err)
			}
		}
		if _, err := io.WriteString(w, b.EndList()); err != nil {
			return fmt.Errorf("writing list: %w", err)
		}
	}
	return nil
}

// hrefClass returns the style marker for special link labels.
func hrefClass(label string) string {
	switch {
	case label == publist.PDFLabel:
		return "pdf"
	case len(label) >= 4 && label[:4] == "doi:":
		return "doi"
	}
	return ""
}
