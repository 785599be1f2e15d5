// Package importer reads reference exports from other tools.
package importer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matsen/pubpage/internal/reference"
)

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// PaperpileEntry is one entry of a Paperpile JSON export. Only the fields
// a publications page uses are decoded.
type PaperpileEntry struct {
	ID        string `json:"_id"`
	Citekey   string `json:"citekey"`
	DOI       string `json:"doi"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Journal   string `json:"journal"`
	Published struct {
		Year  FlexibleString `json:"year"`
		Month FlexibleString `json:"month"`
		Day   FlexibleString `json:"day"`
	} `json:"published"`
	Author []struct {
		First string `json:"first"`
		Last  string `json:"last"`
		ORCID string `json:"orcid"`
	} `json:"author"`
	Attachments []struct {
		ArticlePDF int    `json:"article_pdf"` // 1 = main PDF, 0 = supplement
		Filename   string `json:"filename"`
	} `json:"attachments"`
}

// ParsePaperpile parses a Paperpile JSON export. Entries that cannot be
// converted are reported in errs; the rest are returned in export order.
func ParsePaperpile(data []byte) (refs []reference.Reference, errs []error) {
	var entries []PaperpileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, []error{fmt.Errorf("parsing Paperpile JSON: %w", err)}
	}

	for i, entry := range entries {
		ref, err := entry.toReference()
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i+1, entry.Citekey, err))
			continue
		}
		refs = append(refs, ref)
	}
	return refs, errs
}

func (e PaperpileEntry) toReference() (reference.Reference, error) {
	if e.Title == "" {
		return reference.Reference{}, fmt.Errorf("missing required field 'title'")
	}
	if e.Published.Year.String() == "" {
		return reference.Reference{}, fmt.Errorf("missing required field 'published.year'")
	}

	year, err := strconv.Atoi(e.Published.Year.String())
	if err != nil {
		return reference.Reference{}, fmt.Errorf("invalid year: %s", e.Published.Year)
	}
	date := reference.PublicationDate{
		Year:  year,
		Month: inRange(e.Published.Month, 12),
		Day:   inRange(e.Published.Day, 31),
	}

	authors := make([]reference.Author, len(e.Author))
	for i, a := range e.Author {
		authors[i] = reference.Author{First: a.First, Last: a.Last, ORCID: a.ORCID}
	}

	var pdfPath string
	for _, att := range e.Attachments {
		if att.ArticlePDF == 1 {
			pdfPath = att.Filename
			break
		}
	}

	// Citekey is the ID, falling back to Paperpile's own ID.
	id := e.Citekey
	if id == "" {
		id = e.ID
	}

	return reference.Reference{
		ID:        id,
		DOI:       e.DOI,
		Title:     e.Title,
		Authors:   authors,
		Abstract:  e.Abstract,
		Venue:     e.Journal,
		Published: date,
		PDFPath:   pdfPath,
	}, nil
}

// inRange parses a 1-based date component, or 0 when absent or invalid.
func inRange(s FlexibleString, max int) int {
	n, err := strconv.Atoi(s.String())
	if err != nil || n < 1 || n > max {
		return 0
	}
	return n
}
