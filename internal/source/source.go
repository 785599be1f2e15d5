// Package source loads publication records from a library file.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/pubpage/internal/bibtex"
	"github.com/matsen/pubpage/internal/importer"
	"github.com/matsen/pubpage/internal/reference"
	"github.com/matsen/pubpage/internal/storage"
)

// ErrUnsupported is returned for files with an unknown extension.
var ErrUnsupported = errors.New("unsupported source format")

// Extensions lists the recognised source file extensions.
var Extensions = []string{".bib", ".jsonl", ".db", ".json"}

// Load reads records from path, choosing a reader by extension. Records
// keep the order they have in the file.
func Load(path string) ([]reference.Record, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bib":
		return bibtex.ParseFile(path)
	case ".jsonl":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("opening source: %w", err)
		}
		refs, err := storage.ReadAll(path)
		if err != nil {
			return nil, err
		}
		return fromReferences(refs), nil
	case ".db":
		// OpenDB creates missing files; a missing source is an error here.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("opening source: %w", err)
		}
		db, err := storage.OpenDB(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		refs, err := db.ListAll(0)
		if err != nil {
			return nil, err
		}
		return fromReferences(refs), nil
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening source: %w", err)
		}
		refs, errs := importer.ParsePaperpile(data)
		if len(errs) > 0 {
			return nil, fmt.Errorf("%s: %w", path, errors.Join(errs...))
		}
		return fromReferences(refs), nil
	default:
		return nil, fmt.Errorf("%w: %q (use %s)", ErrUnsupported, ext, strings.Join(Extensions, ", "))
	}
}

func fromReferences(refs []reference.Reference) []reference.Record {
	recs := make([]reference.Record, len(refs))
	for i, ref := range refs {
		recs[i] = bibtex.FromReference(ref)
	}
	return recs
}
