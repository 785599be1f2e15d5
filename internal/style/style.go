// Package style formats bibliography records as rich text.
package style

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/matsen/pubpage/internal/bibtex"
	"github.com/matsen/pubpage/internal/reference"
	"github.com/matsen/pubpage/internal/richtext"
)

// ErrUnknownStyle is returned by Find for an unregistered name.
var ErrUnknownStyle = errors.New("unknown style")

// MissingFieldError reports a record without a field the style requires.
type MissingFieldError struct {
	Key   string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("entry %s: missing required field %q", e.Key, e.Field)
}

// Style formats records. The result is aligned 1:1 with the input.
type Style interface {
	Name() string
	FormatEntries(recs []reference.Record) ([]richtext.Text, error)
}

var registry = map[string]func() Style{
	"plain":   func() Style { return Plain{} },
	"compact": func() Style { return Compact{} },
}

// Find returns the style registered under name.
func Find(name string) (Style, error) {
	newStyle, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownStyle, name, Names())
	}
	return newStyle(), nil
}

// Names lists the registered styles in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatAll applies a per-record formatter.
func formatAll(recs []reference.Record, format func(reference.Record) (richtext.Text, error)) ([]richtext.Text, error) {
	out := make([]richtext.Text, 0, len(recs))
	for _, rec := range recs {
		t, err := format(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// field returns a record field decoded to rich text, or nil if absent.
func field(rec reference.Record, name string) richtext.Text {
	v := strings.TrimSpace(rec.Field(name, ""))
	if v == "" {
		return nil
	}
	return decode(v)
}

// laidOut lists the entry types the styles have a dedicated layout for.
var laidOut = map[string]bool{
	"article":       true,
	"inproceedings": true,
	"conference":    true,
	"techreport":    true,
}

// titleOf returns the record's title. Laid-out types must have one; other
// types render like a miscellaneous entry with or without it.
func titleOf(rec reference.Record) (richtext.Text, error) {
	if !laidOut[rec.Type] {
		return field(rec, reference.FieldTitle), nil
	}
	return required(rec, reference.FieldTitle)
}

func required(rec reference.Record, name string) (richtext.Text, error) {
	t := field(rec, name)
	if t.IsEmpty() {
		return nil, &MissingFieldError{Key: rec.Key, Field: name}
	}
	return t, nil
}

// decode turns a BibTeX value into rich text: LaTeX escapes are reversed,
// protective braces dropped, and "--" becomes an en dash.
func decode(v string) richtext.Text {
	parts := strings.Split(bibtex.UnescapeLatex(v), "--")
	var t richtext.Text
	for i, p := range parts {
		if i > 0 {
			t = append(t, richtext.NDash)
		}
		if p != "" {
			t = append(t, richtext.String(p))
		}
	}
	return t
}

func str(s string) richtext.Text {
	return richtext.New(richtext.String(s))
}

func em(t richtext.Text) richtext.Text {
	if len(t) == 0 {
		return nil
	}
	return richtext.New(richtext.Tag{Name: "em", Body: t})
}

// sentence joins non-empty parts with ", " and ends with a period unless
// the text already ends in punctuation.
func sentence(parts ...richtext.Text) richtext.Text {
	t := richtext.Join(richtext.String(", "), parts...)
	if len(t) == 0 {
		return nil
	}
	if p := t.Plain(); strings.HasSuffix(p, ".") || strings.HasSuffix(p, "?") || strings.HasSuffix(p, "!") {
		return t
	}
	return t.Append(richtext.String("."))
}

// authors renders "A", "A and B", or "A, B, and C"; "others" becomes
// "et al.".
func authors(rec reference.Record) richtext.Text {
	list := reference.ParseAuthors(rec.Field(reference.FieldAuthor, ""))
	if len(list) == 0 {
		return nil
	}

	var names []string
	etAl := false
	for _, a := range list {
		if a.Last == reference.Others {
			etAl = true
			continue
		}
		name := a.Last
		if a.First != "" {
			name = a.First + " " + a.Last
		}
		names = append(names, bibtex.UnescapeLatex(name))
	}

	var s string
	switch {
	case len(names) == 0:
		return nil
	case etAl:
		s = strings.Join(names, ", ") + " et al."
	case len(names) == 1:
		s = names[0]
	case len(names) == 2:
		s = names[0] + " and " + names[1]
	default:
		s = strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
	return str(s)
}

// date renders "Month Year", "Year", or nothing.
func date(rec reference.Record) richtext.Text {
	year := field(rec, reference.FieldYear)
	if len(year) == 0 {
		return nil
	}
	month := field(rec, reference.FieldMonth)
	if len(month) == 0 {
		return year
	}
	return richtext.Join(richtext.String(" "), month, year)
}

// doiLink renders a DOI as a link labelled "doi:<doi>".
func doiLink(rec reference.Record) richtext.Text {
	doi := strings.TrimSpace(rec.Field(reference.FieldDOI, ""))
	if doi == "" {
		return nil
	}
	return richtext.New(richtext.HRef{
		URL:  "https://doi.org/" + doi,
		Body: str("doi:" + doi),
	})
}
