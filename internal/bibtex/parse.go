// Package bibtex reads and writes BibTeX databases.
package bibtex

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/pubpage/internal/reference"
)

// ParseError reports malformed BibTeX input.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// monthMacros are the predefined BibTeX month abbreviations.
var monthMacros = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

// ParseFile parses the BibTeX database at path.
func ParseFile(path string) ([]reference.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}
	return parse(string(data), path)
}

// Parse parses a BibTeX database. Records are returned in file order.
func Parse(r io.Reader) ([]reference.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}
	return parse(string(data), "")
}

type parser struct {
	src    string
	pos    int
	path   string
	macros map[string]string
	keys   map[string]bool
}

func parse(src, path string) ([]reference.Record, error) {
	p := &parser{
		src:    src,
		path:   path,
		macros: make(map[string]string, len(monthMacros)),
		keys:   make(map[string]bool),
	}
	for k, v := range monthMacros {
		p.macros[k] = v
	}

	var records []reference.Record
	for {
		// Anything outside an @-command is a comment.
		at := strings.IndexByte(p.src[p.pos:], '@')
		if at < 0 {
			return records, nil
		}
		p.pos += at + 1

		rec, ok, err := p.command()
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{
		Path: p.path,
		Line: strings.Count(p.src[:min(p.pos, len(p.src))], "\n") + 1,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// command parses everything after an '@'. ok is false for @string,
// @preamble, and @comment.
func (p *parser) command() (reference.Record, bool, error) {
	typ := strings.ToLower(p.ident())
	if typ == "" {
		return reference.Record{}, false, p.errorf("expected entry type after '@'")
	}
	p.skipSpace()

	if typ == "comment" {
		// A bare @comment is treated like any text between entries.
		if p.eof() || (p.src[p.pos] != '{' && p.src[p.pos] != '(') {
			return reference.Record{}, false, nil
		}
	}

	closer, err := p.open()
	if err != nil {
		return reference.Record{}, false, err
	}

	switch typ {
	case "comment":
		return reference.Record{}, false, p.skipBalanced(closer)
	case "preamble":
		if _, err := p.value(); err != nil {
			return reference.Record{}, false, err
		}
		return reference.Record{}, false, p.close(closer)
	case "string":
		name, value, err := p.field()
		if err != nil {
			return reference.Record{}, false, err
		}
		p.macros[name] = value
		return reference.Record{}, false, p.close(closer)
	}

	rec, err := p.entry(typ, closer)
	return rec, err == nil, err
}

func (p *parser) entry(typ string, closer byte) (reference.Record, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(",\n\t \r", rune(p.src[p.pos])) && p.src[p.pos] != closer {
		p.pos++
	}
	key := p.src[start:p.pos]
	if key == "" {
		return reference.Record{}, p.errorf("entry of type %s has no key", typ)
	}
	folded := strings.ToLower(key)
	if p.keys[folded] {
		return reference.Record{}, p.errorf("duplicate entry key %q", key)
	}
	p.keys[folded] = true

	rec := reference.Record{Type: typ, Key: key, Fields: reference.Fields{}}
	for {
		p.skipSpace()
		if p.eof() {
			return reference.Record{}, p.errorf("unterminated entry %s", key)
		}
		switch p.src[p.pos] {
		case closer:
			p.pos++
			return rec, nil
		case ',':
			p.pos++
			continue
		}

		name, value, err := p.field()
		if err != nil {
			return reference.Record{}, err
		}
		if _, dup := rec.Fields[name]; dup {
			return reference.Record{}, p.errorf("duplicate field %q in entry %s", name, key)
		}
		rec.Fields[name] = value
	}
}

// field parses "name = value".
func (p *parser) field() (string, string, error) {
	p.skipSpace()
	name := strings.ToLower(p.ident())
	if name == "" {
		return "", "", p.errorf("expected field name")
	}
	p.skipSpace()
	if p.eof() || p.src[p.pos] != '=' {
		return "", "", p.errorf("expected '=' after field %q", name)
	}
	p.pos++
	value, err := p.value()
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

// value parses one or more pieces joined by '#'.
func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		p.skipSpace()
		piece, err := p.piece()
		if err != nil {
			return "", err
		}
		b.WriteString(piece)

		p.skipSpace()
		if p.eof() || p.src[p.pos] != '#' {
			break
		}
		p.pos++
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

func (p *parser) piece() (string, error) {
	if p.eof() {
		return "", p.errorf("unexpected end of input, expected value")
	}

	switch c := p.src[p.pos]; {
	case c == '{':
		p.pos++
		start := p.pos
		if err := p.skipBalanced('}'); err != nil {
			return "", err
		}
		return p.src[start : p.pos-1], nil
	case c == '"':
		return p.quoted()
	case c >= '0' && c <= '9':
		start := p.pos
		for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		return p.src[start:p.pos], nil
	}

	name := strings.ToLower(p.ident())
	if name == "" {
		return "", p.errorf("unexpected character %q in value", p.src[p.pos])
	}
	v, ok := p.macros[name]
	if !ok {
		return "", p.errorf("undefined macro %q", name)
	}
	return v, nil
}

func (p *parser) quoted() (string, error) {
	p.pos++ // opening quote
	start := p.pos
	depth := 0
	for ; !p.eof(); p.pos++ {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				s := p.src[start:p.pos]
				p.pos++
				return s, nil
			}
		}
	}
	return "", p.errorf("unterminated quoted value")
}

// skipBalanced advances past the closer that balances an already
// consumed opener.
func (p *parser) skipBalanced(closer byte) error {
	opener := byte('{')
	if closer == ')' {
		opener = '('
	}
	depth := 1
	for ; !p.eof(); p.pos++ {
		switch p.src[p.pos] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
	}
	return p.errorf("unbalanced %q", opener)
}

func (p *parser) open() (byte, error) {
	if p.eof() {
		return 0, p.errorf("unexpected end of input")
	}
	switch p.src[p.pos] {
	case '{':
		p.pos++
		return '}', nil
	case '(':
		p.pos++
		return ')', nil
	}
	return 0, p.errorf("expected '{' or '(' but found %q", p.src[p.pos])
}

func (p *parser) close(closer byte) error {
	p.skipSpace()
	if p.eof() || p.src[p.pos] != closer {
		return p.errorf("expected %q", closer)
	}
	p.pos++
	return nil
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if c == '_' || c == '-' || c == ':' || c == '.' || c == '+' || c == '/' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}
