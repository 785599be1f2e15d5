package publist

import (
	"strings"

	"github.com/matsen/pubpage/internal/richtext"
)

// PDFLabel is the display label of an injected supplementary link.
const PDFLabel = "PDF"

// Enrich appends a " " run and a "PDF" hyperlink to the entry's citation
// when the record carries a non-blank link field. The input entry is not
// modified.
func Enrich(e Entry, linkField string) Entry {
	url := strings.TrimSpace(e.Record.Field(linkField, ""))
	if url == "" {
		return e
	}
	return Entry{
		Record: e.Record,
		Citation: e.Citation.Append(
			richtext.String(" "),
			richtext.HRef{URL: url, Body: richtext.Text{richtext.String(PDFLabel)}},
		),
	}
}
