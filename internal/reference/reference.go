// Package reference defines the core domain types for bibliography records.
package reference

import (
	"sort"
	"strings"
)

// Well-known field names.
const (
	FieldAuthor       = "author"
	FieldTitle        = "title"
	FieldJournal      = "journal"
	FieldBooktitle    = "booktitle"
	FieldInstitution  = "institution"
	FieldYear         = "year"
	FieldMonth        = "month"
	FieldNote         = "note"
	FieldDOI          = "doi"
	FieldHowPublished = "howpublished"
	FieldAbstract     = "abstract"
)

// MonthNames are the full month names, January first.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Record is one bibliographic entry as read from a source.
//
// A Record is treated as immutable: stages that need a changed record
// call With, which returns a copy.
type Record struct {
	Type   string // lowercased entry type: article, inproceedings, ...
	Key    string // citation key, unique within a source
	Fields Fields
}

// Fields maps lowercased field names to their text values.
type Fields map[string]string

// Get returns the value of a field and whether it is present.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.Fields[strings.ToLower(name)]
	return v, ok
}

// Field returns the value of a field, or def if the field is absent.
func (r Record) Field(name, def string) string {
	if v, ok := r.Get(name); ok {
		return v
	}
	return def
}

// With returns a copy of the record with one field set.
func (r Record) With(name, value string) Record {
	fields := make(Fields, len(r.Fields)+1)
	for k, v := range r.Fields {
		fields[k] = v
	}
	fields[strings.ToLower(name)] = value
	return Record{Type: r.Type, Key: r.Key, Fields: fields}
}

// FieldNames returns the record's field names in sorted order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reference is a paper as kept in a refs.jsonl or refs.db library.
type Reference struct {
	// Identity
	ID  string `json:"id"`  // Internal stable identifier (from citekey)
	DOI string `json:"doi"` // Digital Object Identifier

	// Metadata
	Title    string   `json:"title"`
	Authors  []Author `json:"authors"`
	Abstract string   `json:"abstract"`
	Venue    string   `json:"venue"` // Journal, conference, or preprint server

	// Publication Date
	Published PublicationDate `json:"published"`

	PDFPath string `json:"pdf_path"`
}

// PublicationDate represents a publication date with optional month and day.
type PublicationDate struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"` // 1-12, 0 if unknown
	Day   int `json:"day,omitempty"`   // 1-31, 0 if unknown
}
