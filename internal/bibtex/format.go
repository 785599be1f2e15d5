package bibtex

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/matsen/pubpage/internal/reference"
)

// fieldOrder is the order fields are written in; others follow sorted.
var fieldOrder = []string{
	"author", "title", "journal", "booktitle", "institution",
	"volume", "number", "pages", "month", "year", "doi", "note", "howpublished",
}

// Format writes a record as a BibTeX entry. Field values are written as
// they are stored, so records parsed from BibTeX round-trip unchanged.
func Format(rec reference.Record) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", rec.Type, rec.Key))
	for _, name := range orderedFields(rec) {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, rec.Fields[name]))
	}
	b.WriteString("}\n")

	return b.String()
}

// FormatList writes multiple records separated by blank lines.
func FormatList(recs []reference.Record) string {
	var entries []string
	for _, rec := range recs {
		entries = append(entries, Format(rec))
	}
	return strings.Join(entries, "\n")
}

func orderedFields(rec reference.Record) []string {
	seen := make(map[string]bool, len(fieldOrder))
	var names []string
	for _, name := range fieldOrder {
		seen[name] = true
		if _, ok := rec.Fields[name]; ok {
			names = append(names, name)
		}
	}
	var rest []string
	for name := range rec.Fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// FromReference converts a stored reference into a BibTeX record, escaping text fields for LaTeX.
func FromReference(ref reference.Reference) reference.Record {
	entryType := determineEntryType(ref)
	fields := reference.Fields{
		reference.FieldTitle: escapeLatex(ref.Title),
		reference.FieldYear:  strconv.Itoa(ref.Published.Year),
	}

	if len(ref.Authors) > 0 {
		fields[reference.FieldAuthor] = reference.FormatAuthors(ref.Authors)
	}

	if ref.Venue != "" {
		fieldName := reference.FieldJournal
		if entryType == "inproceedings" {
			fieldName = reference.FieldBooktitle
		}
		fields[fieldName] = escapeLatex(ref.Venue)
	}

	if m := ref.Published.Month; m >= 1 && m <= 12 {
		fields[reference.FieldMonth] = reference.MonthNames[m-1]
	}

	if ref.DOI != "" {
		fields[reference.FieldDOI] = ref.DOI
	}

	if ref.Abstract != "" {
		fields[reference.FieldAbstract] = escapeLatex(ref.Abstract)
	}

	if ref.PDFPath != "" {
		fields[reference.FieldHowPublished] = ref.PDFPath
	}

	return reference.Record{Type: entryType, Key: ref.ID, Fields: fields}
}

// determineEntryType returns the BibTeX entry type for a reference.
func determineEntryType(ref reference.Reference) string {
	venue := strings.ToLower(ref.Venue)

	// Preprints
	if strings.Contains(venue, "arxiv") ||
		strings.Contains(venue, "biorxiv") ||
		strings.Contains(venue, "medrxiv") {
		return "article"
	}

	// Conference proceedings
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	// Default to article
	return "article"
}

var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

var latexUnescaper = strings.NewReplacer(
	`\&`, "&",
	`\%`, "%",
	`\$`, "$",
	`\#`, "#",
	`\_`, "_",
	`\textasciitilde{}`, "~",
	`\textasciicircum{}`, "^",
)

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	return latexEscaper.Replace(s)
}

// UnescapeLatex reverses the escapes written by FromReference and drops
// the protective braces BibTeX uses to preserve capitalisation.
func UnescapeLatex(s string) string {
	const lbrace, rbrace = "\x00", "\x01"
	s = latexUnescaper.Replace(strings.NewReplacer(`\{`, lbrace, `\}`, rbrace).Replace(s))
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.NewReplacer(lbrace, "{", rbrace, "}").Replace(s)
}
