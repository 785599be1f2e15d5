package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matsen/pubpage/internal/reference"
)

func sampleRefs() []reference.Reference {
	return []reference.Reference{
		{
			ID:        "Koval2015",
			DOI:       "10.1177/0278364915576234",
			Title:     "Pose estimation for planar contact manipulation",
			Authors:   []reference.Author{{First: "Michael", Last: "Koval"}, {First: "Nancy S.", Last: "Pollard"}},
			Venue:     "The International Journal of Robotics Research",
			Published: reference.PublicationDate{Year: 2015, Month: 5},
			PDFPath:   "pubs/koval2015.pdf",
		},
		{
			ID:        "Aardvark2013",
			Title:     "Grasping in clutter",
			Authors:   []reference.Author{{First: "Ann", Last: "Aardvark"}},
			Venue:     "IEEE International Conference on Robotics and Automation",
			Published: reference.PublicationDate{Year: 2013},
		},
	}
}

func TestReadAll_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	refs, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("ReadAll() returned %d refs, want 0", len(refs))
	}
}

func TestReadAll_NonExistentFile(t *testing.T) {
	refs, err := ReadAll("/nonexistent/path/refs.jsonl")
	if err != nil {
		t.Fatalf("ReadAll() error = %v (should return nil for nonexistent file)", err)
	}
	if len(refs) != 0 {
		t.Errorf("ReadAll() returned %v, want empty", refs)
	}
}

func TestReadAll_SkipsBlankLinesAndUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.jsonl")
	content := `{"id":"Smith2026","doi":"10.1234/test","title":"Test Paper","authors":[{"first":"John","last":"Smith"}],"published":{"year":2026},"source":{"type":"manual","id":""}}

{"id":"Jones2025","title":"Other","authors":[],"published":{"year":2025,"month":3}}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	refs, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("ReadAll() returned %d refs, want 2", len(refs))
	}
	if refs[0].ID != "Smith2026" || refs[0].Authors[0].Last != "Smith" {
		t.Errorf("first ref = %+v", refs[0])
	}
	if refs[1].Published.Month != 3 {
		t.Errorf("second ref month = %d, want 3", refs[1].Published.Month)
	}
}

func TestReadAll_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed", "{\"id\":\"a\"}\n{not json\n", "line 2"},
		{"missing id", "{\"title\":\"x\"}\n", "no id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "refs.jsonl")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := ReadAll(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadAll() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteAll_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.jsonl")
	want := sampleRefs()

	if err := WriteAll(path, want); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
