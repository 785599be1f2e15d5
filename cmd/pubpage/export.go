package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/pubpage/internal/bibtex"
	"github.com/matsen/pubpage/internal/reference"
	"github.com/matsen/pubpage/internal/source"
	"github.com/matsen/pubpage/internal/storage"
)

var (
	exportKeys   string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVar(&exportKeys, "keys", "", "Export only specified keys (comma-separated)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <input>",
	Short: "Export a library as BibTeX",
	Long: `Export the records of a .bib, .jsonl, or .db library as BibTeX.

Examples:
  pubpage export refs.jsonl > pubs.bib
  pubpage export refs.db --keys Koval2015,Koval2013`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	markupOnStdout = exportOutput == "" || exportOutput == "-"

	var recs []reference.Record
	var err error
	switch {
	case exportKeys != "" && strings.EqualFold(filepath.Ext(args[0]), ".db"):
		recs, err = lookupKeys(args[0], strings.Split(exportKeys, ","))
	case exportKeys != "":
		if recs, err = source.Load(args[0]); err != nil {
			return err
		}
		recs, err = filterKeys(recs, strings.Split(exportKeys, ","))
	default:
		recs, err = source.Load(args[0])
	}
	if err != nil {
		return err
	}

	return writeTo(cmd.OutOrStdout(), exportOutput, []byte(bibtex.FormatList(recs)))
}

// filterKeys keeps the records named by keys, in the order of keys.
func filterKeys(recs []reference.Record, keys []string) ([]reference.Record, error) {
	byKey := make(map[string]reference.Record, len(recs))
	for _, rec := range recs {
		byKey[rec.Key] = rec
	}

	var out []reference.Record
	var missing []string
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		rec, ok := byKey[k]
		if !ok {
			missing = append(missing, k)
			continue
		}
		out = append(out, rec)
	}
	if len(missing) > 0 {
		return nil, missingKeys(missing)
	}
	return out, nil
}

// lookupKeys reads the named records straight from a SQLite library.
func lookupKeys(path string, keys []string) ([]reference.Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}
	db, err := storage.OpenDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var out []reference.Record
	var missing []string
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		ref, err := db.GetByID(k)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", k, err)
		}
		if ref == nil {
			missing = append(missing, k)
			continue
		}
		out = append(out, bibtex.FromReference(*ref))
	}
	if len(missing) > 0 {
		return nil, missingKeys(missing)
	}
	return out, nil
}

func missingKeys(keys []string) error {
	return withCode(ExitDataError, fmt.Errorf("keys not found: %s", strings.Join(keys, ", ")))
}
