package bibtex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matsen/pubpage/internal/reference"
)

const sampleBib = `
This text sits outside any entry and is ignored.

@string{icra = "IEEE International Conference on Robotics and Automation"}

@comment{ generated by hand {nested} }

@Article{Koval2015,
  Author  = {Koval, Michael and Pollard, Nancy S. and Srinivasa, Siddhartha},
  title   = "Pose estimation for planar contact {manipulation}",
  journal = {The International Journal of Robotics Research},
  year    = 2015,
  month   = may,
  howpublished = {papers/koval2015.pdf}
}

@inproceedings(Koval2013,
  author = {Michael Koval and Siddhartha Srinivasa},
  title = {Manipulation with
           particle filters},
  booktitle = "Proceedings of " # icra,
  year = {2013},
  note = {Workshop: Mobile Manipulation},
)

@misc{NoFields}
`

func TestParse(t *testing.T) {
	recs, err := Parse(strings.NewReader(sampleBib))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []reference.Record{
		{
			Type: "article",
			Key:  "Koval2015",
			Fields: reference.Fields{
				"author":       "Koval, Michael and Pollard, Nancy S. and Srinivasa, Siddhartha",
				"title":        "Pose estimation for planar contact {manipulation}",
				"journal":      "The International Journal of Robotics Research",
				"year":         "2015",
				"month":        "May",
				"howpublished": "papers/koval2015.pdf",
			},
		},
		{
			Type: "inproceedings",
			Key:  "Koval2013",
			Fields: reference.Fields{
				"author":    "Michael Koval and Siddhartha Srinivasa",
				"title":     "Manipulation with particle filters",
				"booktitle": "Proceedings of IEEE International Conference on Robotics and Automation",
				"year":      "2013",
				"note":      "Workshop: Mobile Manipulation",
			},
		},
		{Type: "misc", Key: "NoFields", Fields: reference.Fields{}},
	}

	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "duplicate key",
			input:    "@article{a, year = 1}\n@book{A, year = 2}",
			wantLine: 2,
			wantMsg:  "duplicate entry key",
		},
		{
			name:     "duplicate field",
			input:    "@article{a,\n year = 1,\n year = 2}",
			wantLine: 3,
			wantMsg:  "duplicate field",
		},
		{
			name:     "undefined macro",
			input:    "@article{a,\n journal = jrr}",
			wantLine: 2,
			wantMsg:  "undefined macro",
		},
		{
			name:     "unterminated",
			input:    "@article{a, title = {open",
			wantLine: 1,
			wantMsg:  "unbalanced",
		},
		{
			name:     "missing equals",
			input:    "@article{a, title {x}}",
			wantLine: 1,
			wantMsg:  "expected '='",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d (%v)", perr.Line, tt.wantLine, err)
			}
			if !strings.Contains(perr.Msg, tt.wantMsg) {
				t.Errorf("Msg = %q, want it to contain %q", perr.Msg, tt.wantMsg)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubs.bib")
	if err := os.WriteFile(path, []byte(sampleBib), 0644); err != nil {
		t.Fatal(err)
	}

	recs, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("ParseFile() returned %d records, want 3", len(recs))
	}
	for i, key := range []string{"Koval2015", "Koval2013", "NoFields"} {
		if recs[i].Key != key {
			t.Errorf("recs[%d].Key = %q, want %q", i, recs[i].Key, key)
		}
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.bib"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile() error = %v, want os.ErrNotExist", err)
	}
}

func TestParseFile_ErrorIncludesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.bib")
	if err := os.WriteFile(path, []byte("@article{x, title = }"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseFile(path)
	if err == nil || !strings.HasPrefix(err.Error(), path+":1:") {
		t.Errorf("ParseFile() error = %v, want prefix %q", err, path+":1:")
	}
}
