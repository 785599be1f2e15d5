package publist

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/matsen/pubpage/internal/reference"
)

// Rule assigns records of the listed types to a category. When NotePrefix
// is set the rule only matches records whose note starts with it (ignoring
// case), and the residual note has the prefix plus one separator character
// removed, then leading whitespace trimmed.
type Rule struct {
	Category   string
	Types      []string
	NotePrefix string
}

// Classification is the result of a successful match.
type Classification struct {
	Category string
	Note     string
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []Rule
	fold  cases.Caser
}

// NewClassifier creates a classifier over an ordered rule list.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules, fold: cases.Fold()}
}

// DefaultRules is the built-in publication taxonomy.
func DefaultRules() []Rule {
	return []Rule{
		{Category: "Journal Papers", Types: []string{"article"}},
		{Category: "Workshop Papers", Types: []string{"inproceedings", "conference"}, NotePrefix: "workshop"},
		{Category: "Conference Papers", Types: []string{"inproceedings", "conference"}},
		{Category: "Technical Reports", Types: []string{"techreport"}},
	}
}

// DefaultCategories is the built-in display order.
func DefaultCategories() []string {
	return []string{"Journal Papers", "Conference Papers", "Workshop Papers", "Technical Reports"}
}

// Classify returns the category and residual note for a record. The
// boolean is false when no rule matches the record's type.
func (c *Classifier) Classify(rec reference.Record) (Classification, bool) {
	note := rec.Field(reference.FieldNote, "")
	for _, r := range c.rules {
		if !hasType(r.Types, rec.Type) {
			continue
		}
		if r.NotePrefix == "" {
			return Classification{Category: r.Category, Note: note}, true
		}
		if residual, ok := c.stripMarker(note, r.NotePrefix); ok {
			return Classification{Category: r.Category, Note: residual}, true
		}
	}
	return Classification{}, false
}

// stripMarker drops the marker and one following separator character.
func (c *Classifier) stripMarker(note, marker string) (string, bool) {
	if !strings.HasPrefix(c.fold.String(note), c.fold.String(marker)) {
		return "", false
	}
	rest := note
	for i := 0; i < utf8.RuneCountInString(marker)+1 && rest != ""; i++ {
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
	}
	return strings.TrimLeftFunc(rest, unicode.IsSpace), true
}

func hasType(types []string, t string) bool {
	for _, candidate := range types {
		if strings.EqualFold(candidate, t) {
			return true
		}
	}
	return false
}
