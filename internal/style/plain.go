package style

import (
	"github.com/matsen/pubpage/internal/reference"
	"github.com/matsen/pubpage/internal/richtext"
)

// Plain lists authors, title, venue, and note as separate
// sentences, followed by a DOI link when one is known.
type Plain struct{}

func (Plain) Name() string { return "plain" }

func (p Plain) FormatEntries(recs []reference.Record) ([]richtext.Text, error) {
	return formatAll(recs, p.format)
}

func (Plain) format(rec reference.Record) (richtext.Text, error) {
	title, err := titleOf(rec)
	if err != nil {
		return nil, err
	}

	var venue richtext.Text
	switch rec.Type {
	case "article":
		venue = sentence(em(field(rec, reference.FieldJournal)), volume(rec), date(rec))
	case "inproceedings", "conference":
		var in richtext.Text
		if booktitle := field(rec, reference.FieldBooktitle); len(booktitle) > 0 {
			in = str("In ").Append(em(booktitle)...)
		}
		venue = sentence(in, pages(rec), date(rec))
	case "techreport":
		report := str("Technical Report")
		if number := field(rec, "number"); len(number) > 0 {
			report = richtext.Join(richtext.String(" "), report, number)
		}
		venue = sentence(report, field(rec, reference.FieldInstitution), date(rec))
	default:
		venue = sentence(date(rec))
	}

	return richtext.Join(richtext.String(" "),
		sentence(authors(rec)),
		sentence(title),
		venue,
		sentence(field(rec, reference.FieldNote)),
		doiLink(rec),
	), nil
}

// volume renders "12(3):45--67" style volume, number, and pages.
func volume(rec reference.Record) richtext.Text {
	t := field(rec, "volume")
	if number := field(rec, "number"); len(number) > 0 && len(t) > 0 {
		t = t.Append(richtext.String("("))
		t = t.Append(number...)
		t = t.Append(richtext.String(")"))
	}
	if pp := field(rec, "pages"); len(pp) > 0 {
		if len(t) == 0 {
			return pages(rec)
		}
		t = t.Append(richtext.String(":"))
		t = t.Append(pp...)
	}
	return t
}

func pages(rec reference.Record) richtext.Text {
	pp := field(rec, "pages")
	if len(pp) == 0 {
		return nil
	}
	return str("pages ").Append(pp...)
}
