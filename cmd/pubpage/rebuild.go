package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/pubpage/internal/storage"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <refs.jsonl> <refs.db>",
	Short: "Rebuild a SQLite library from JSONL",
	Long: `Rebuild the SQLite library from a JSONL library, keeping the file's
order. The database can then be used as render input.`,
	Args: cobra.ExactArgs(2),
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status     string `json:"status"`
	Path       string `json:"path"`
	References int    `json:"references"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	jsonlPath, dbPath := args[0], args[1]

	db, err := storage.OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		return withCode(ExitDataError, fmt.Errorf("rebuilding %s: %w", dbPath, err))
	}
	n, err := db.Count()
	if err != nil {
		return fmt.Errorf("counting references: %w", err)
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), RebuildResult{Status: "rebuilt", Path: dbPath, References: n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %s with %d references\n", dbPath, n)
	return nil
}
