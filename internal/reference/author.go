package reference

import "strings"

// Author represents a paper author.
type Author struct {
	First string `json:"first"`           // First/given name(s)
	Last  string `json:"last"`            // Last/family name
	ORCID string `json:"orcid,omitempty"` // ORCID identifier (without URL prefix)
}

// Others is the BibTeX placeholder for a truncated author list.
const Others = "others"

// ParseAuthors splits a BibTeX name list ("A and B and others") into authors.
// Each name may be written "Last, First" or "First Last". The "others"
// placeholder is returned as an Author with Last set to Others.
func ParseAuthors(s string) []Author {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var authors []Author
	for _, name := range splitAnd(s) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		authors = append(authors, parseName(name))
	}
	return authors
}

// FormatAuthors formats authors in BibTeX style: "Last, First and Last, First".
func FormatAuthors(authors []Author) string {
	var formatted []string
	for _, a := range authors {
		if a.First != "" {
			formatted = append(formatted, a.Last+", "+a.First)
		} else {
			formatted = append(formatted, a.Last)
		}
	}
	return strings.Join(formatted, " and ")
}

// splitAnd splits on the word "and" at brace depth zero.
func splitAnd(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ' ', '\t', '\n':
			if depth != 0 {
				continue
			}
			rest := s[i+1:]
			if len(rest) > 4 && strings.EqualFold(rest[:3], "and") && isSpace(rest[3]) {
				parts = append(parts, s[start:i])
				i += 4
				start = i
			}
		}
	}
	return append(parts, s[start:])
}

func parseName(name string) Author {
	if strings.EqualFold(name, Others) {
		return Author{Last: Others}
	}

	// Fully braced names are corporate authors.
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		return Author{Last: name}
	}

	if last, first, ok := strings.Cut(name, ","); ok {
		return Author{First: strings.TrimSpace(first), Last: strings.TrimSpace(last)}
	}

	words := strings.Fields(name)
	if len(words) == 1 {
		return Author{Last: words[0]}
	}

	// von-particles ("van", "de") start the last name.
	split := len(words) - 1
	for i := 1; i < len(words)-1; i++ {
		if isLower(words[i]) {
			split = i
			break
		}
	}
	return Author{
		First: strings.Join(words[:split], " "),
		Last:  strings.Join(words[split:], " "),
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func isLower(word string) bool {
	return word != "" && word[0] >= 'a' && word[0] <= 'z'
}
