// Package publist groups formatted citations into ordered display
// categories for a publications page.
//
// Every stage returns new values; input entries are never modified.
package publist

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/matsen/pubpage/internal/reference"
	"github.com/matsen/pubpage/internal/richtext"
)

// Entry pairs a record with its formatted citation.
type Entry struct {
	Record   reference.Record
	Citation richtext.Text
}

// Block is one category heading with its ordered entries.
type Block struct {
	Category string
	Entries  []Entry
}

// Options configures an Engine.
type Options struct {
	Categories []string // display order
	Rules      []Rule   // classifier rules, evaluated in order
	LinkField  string   // field holding the supplementary link
	Logger     *zap.Logger
}

// Engine classifies, enriches, and orders entries.
type Engine struct {
	categories []string
	classifier *Classifier
	linkField  string
	logger     *zap.Logger
}

// NewEngine creates an engine. Zero-valued options fall back to the
// built-in taxonomy and the howpublished link field.
func NewEngine(opts Options) *Engine {
	if len(opts.Categories) == 0 {
		opts.Categories = DefaultCategories()
	}
	if len(opts.Rules) == 0 {
		opts.Rules = DefaultRules()
	}
	if opts.LinkField == "" {
		opts.LinkField = reference.FieldHowPublished
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		categories: opts.Categories,
		classifier: NewClassifier(opts.Rules),
		linkField:  opts.LinkField,
		logger:     opts.Logger,
	}
}

// Select returns the records that match a rule, carrying their residual
// notes, along with each one's position in recs. Callers format only the
// selected records; Group still reports the rest.
func (e *Engine) Select(recs []reference.Record) ([]reference.Record, []int) {
	var selected []reference.Record
	var index []int
	for i, rec := range recs {
		class, ok := e.classifier.Classify(rec)
		if !ok {
			continue
		}
		selected = append(selected, withNote(rec, class))
		index = append(index, i)
	}
	return selected, index
}

func withNote(rec reference.Record, class Classification) reference.Record {
	if class.Note == rec.Field(reference.FieldNote, "") {
		return rec
	}
	return rec.With(reference.FieldNote, class.Note)
}

type keyedEntry struct {
	entry Entry
	key   SortKey
}

// Group turns entries into blocks in display order. Entries whose type
// matches no rule are dropped with a warning. Within a block entries are
// sorted newest first; entries with equal dates keep their input order.
func (e *Engine) Group(entries []Entry) ([]Block, error) {
	buckets := make(map[string][]keyedEntry)

	for _, in := range entries {
		enriched := Enrich(in, e.linkField)

		class, ok := e.classifier.Classify(enriched.Record)
		if !ok {
			e.logger.Warn("skipping entry with unknown type",
				zap.String("key", in.Record.Key),
				zap.String("type", in.Record.Type))
			continue
		}

		enriched.Record = withNote(enriched.Record, class)
		key, err := ResolveSortKey(enriched.Record)
		if err != nil {
			return nil, err
		}
		buckets[class.Category] = append(buckets[class.Category], keyedEntry{entry: enriched, key: key})
	}

	blocks := make([]Block, 0, len(buckets))
	for _, name := range e.categories {
		bucket := buckets[name]
		if len(bucket) == 0 {
			continue
		}
		slices.SortStableFunc(bucket, func(a, b keyedEntry) int {
			return b.key.Compare(a.key)
		})

		out := make([]Entry, len(bucket))
		for i, ke := range bucket {
			out[i] = ke.entry
		}
		blocks = append(blocks, Block{Category: name, Entries: out})
	}

	for _, name := range slices.Sorted(maps.Keys(buckets)) {
		if !slices.Contains(e.categories, name) {
			e.logger.Warn("category not in display order; entries omitted",
				zap.String("category", name),
				zap.Int("entries", len(buckets[name])))
		}
	}

	return blocks, nil
}
