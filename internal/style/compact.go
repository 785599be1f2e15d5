package style

import (
	"github.com/matsen/pubpage/internal/reference"
	"github.com/matsen/pubpage/internal/richtext"
)

// Compact puts the title first in bold and folds venue and year into one
// sentence.
type Compact struct{}

func (Compact) Name() string { return "compact" }

func (c Compact) FormatEntries(recs []reference.Record) ([]richtext.Text, error) {
	return formatAll(recs, c.format)
}

func (Compact) format(rec reference.Record) (richtext.Text, error) {
	title, err := titleOf(rec)
	if err != nil {
		return nil, err
	}
	var heading richtext.Text
	if len(title) > 0 {
		heading = richtext.New(richtext.Tag{Name: "strong", Body: title})
	}

	venue := field(rec, reference.FieldJournal)
	if len(venue) == 0 {
		venue = field(rec, reference.FieldBooktitle)
	}
	if len(venue) == 0 {
		venue = field(rec, reference.FieldInstitution)
	}

	return richtext.Join(richtext.String(" "),
		sentence(heading),
		sentence(authors(rec)),
		sentence(em(venue), field(rec, reference.FieldYear)),
	), nil
}
