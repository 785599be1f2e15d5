package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "doi: 10.1177/0278364915576234 Abstract", "10.1177/0278364915576234"},
		{"trailing punctuation", "(see 10.1109/ICRA.2013.6630714).", "10.1109/ICRA.2013.6630714"},
		{"first of several", "10.1000/abc and 10.2000/def", "10.1000/abc"},
		{"none", "no identifier here", ""},
		{"too short prefix", "10.12/x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestInspect_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(path, []byte("<html>not a pdf</html>"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Inspect(path); err == nil {
		t.Error("Inspect() should fail on a non-PDF file")
	}
}

func TestInspect_Missing(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Inspect() should fail on a missing file")
	}
}
