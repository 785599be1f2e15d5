package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/pubpage/internal/site"
)

var (
	renderOutput  string
	renderStyle   string
	renderBackend string
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write the page to this file instead of stdout")
	renderCmd.Flags().StringVar(&renderStyle, "style", "", "Citation style (overrides config)")
	renderCmd.Flags().StringVar(&renderBackend, "backend", "", "Output backend: html, markdown, or text (overrides config)")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Render a publications page",
	Long: `Render a publications page from a .bib, .jsonl, or .db library.

Examples:
  pubpage render pubs.bib > publications.html
  pubpage render pubs.bib --backend markdown -o publications.md
  pubpage render refs.jsonl --style compact`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

// RenderResult is the --json summary of a render to a file.
type RenderResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Records int    `json:"records"`
	Entries int    `json:"entries"`
	Blocks  int    `json:"blocks"`
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := site.Options{
		Source:  args[0],
		Config:  cfg,
		Style:   renderStyle,
		Backend: renderBackend,
		Logger:  logger,
	}

	if renderOutput == "" || renderOutput == "-" {
		markupOnStdout = true
		_, err := site.Render(cmd.OutOrStdout(), opts)
		return err
	}

	sum, err := renderToFile(renderOutput, opts)
	if err != nil {
		return err
	}
	logger.Info("wrote page",
		zap.String("path", renderOutput),
		zap.Int("entries", sum.Entries),
		zap.Int("blocks", sum.Blocks))

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), RenderResult{
			Status:  "rendered",
			Path:    renderOutput,
			Records: sum.Records,
			Entries: sum.Entries,
			Blocks:  sum.Blocks,
		})
	}
	return nil
}

// renderToFile renders into memory first so a failed render leaves any
// existing page untouched.
func renderToFile(path string, opts site.Options) (site.Summary, error) {
	var buf bytes.Buffer
	sum, err := site.Render(&buf, opts)
	if err != nil {
		return site.Summary{}, err
	}
	if err := writeFileIfChanged(path, buf.Bytes()); err != nil {
		return site.Summary{}, err
	}
	return sum, nil
}

// writeFileIfChanged skips the write when the file already holds data,
// so static-site watchers are not woken by identical output.
func writeFileIfChanged(path string, data []byte) error {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeTo sends data to path, or to w when path is empty or "-".
func writeTo(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	return writeFileIfChanged(path, data)
}
