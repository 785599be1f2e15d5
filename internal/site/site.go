// Package site renders a complete publications page from a library file.
package site

import (
	"fmt"
	"io"
	"path/filepath"
	"text/template"

	"go.uber.org/zap"

	"github.com/matsen/pubpage/internal/backend"
	"github.com/matsen/pubpage/internal/config"
	"github.com/matsen/pubpage/internal/publist"
	"github.com/matsen/pubpage/internal/source"
	"github.com/matsen/pubpage/internal/style"
)

// Options configures a render.
type Options struct {
	Source string         // path to the .bib, .jsonl, or .db library
	Config *config.Config // nil means config.Default()

	// Style and Backend override the configured names when set.
	Style   string
	Backend string
	// Output, when set, is used instead of looking up Backend.
	Output backend.Backend

	// Bare omits the prologue and epilogue.
	Bare bool

	Logger *zap.Logger
}

// PageData is passed to the prologue and epilogue templates.
type PageData struct {
	Title  string
	Author string
	Source string // base name of the library file
}

// Summary reports what a render produced.
type Summary struct {
	Records int
	Entries int
	Blocks  int
}

// Build loads the library and groups it into display blocks.
func Build(opts Options) ([]publist.Block, Summary, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	styleName := cfg.Style
	if opts.Style != "" {
		styleName = opts.Style
	}
	st, err := style.Find(styleName)
	if err != nil {
		return nil, Summary{}, err
	}

	recs, err := source.Load(opts.Source)
	if err != nil {
		return nil, Summary{}, err
	}
	logger.Debug("loaded library", zap.String("source", opts.Source), zap.Int("records", len(recs)))

	engine := publist.NewEngine(publist.Options{
		Categories: cfg.Categories,
		Rules:      cfg.PublistRules(),
		LinkField:  cfg.LinkField,
		Logger:     logger,
	})

	// Records no rule matches are never formatted; Group drops them with a
	// warning.
	selected, index := engine.Select(recs)
	citations, err := st.FormatEntries(selected)
	if err != nil {
		return nil, Summary{}, err
	}

	entries := make([]publist.Entry, len(recs))
	for i, rec := range recs {
		entries[i] = publist.Entry{Record: rec}
	}
	for j, i := range index {
		entries[i].Citation = citations[j]
	}

	blocks, err := engine.Group(entries)
	if err != nil {
		return nil, Summary{}, err
	}

	sum := Summary{Records: len(recs), Blocks: len(blocks)}
	for _, b := range blocks {
		sum.Entries += len(b.Entries)
	}
	return blocks, sum, nil
}

// Render writes the page for opts to w: prologue, grouped citations, and
// epilogue. Output depends only on the inputs, so re-runs are identical.
func Render(w io.Writer, opts Options) (Summary, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	be := opts.Output
	if be == nil {
		name := cfg.Backend
		if opts.Backend != "" {
			name = opts.Backend
		}
		var err error
		if be, err = backend.Find(name); err != nil {
			return Summary{}, err
		}
	}

	blocks, sum, err := Build(opts)
	if err != nil {
		return Summary{}, err
	}

	data := PageData{Title: cfg.Title, Author: cfg.Author, Source: filepath.Base(opts.Source)}
	if !opts.Bare {
		if err := execute(w, "prologue", cfg.Prologue, data); err != nil {
			return Summary{}, err
		}
	}
	if err := backend.WriteToStream(w, be, blocks); err != nil {
		return Summary{}, err
	}
	if !opts.Bare {
		if err := execute(w, "epilogue", cfg.Epilogue, data); err != nil {
			return Summary{}, err
		}
	}
	return sum, nil
}

func execute(w io.Writer, name, text string, data PageData) error {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
