package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matsen/pubpage/internal/backend"
	"github.com/matsen/pubpage/internal/site"
)

var (
	previewStyle string
	previewWidth int
)

func init() {
	previewCmd.Flags().StringVar(&previewStyle, "style", "", "Citation style (overrides config)")
	previewCmd.Flags().IntVar(&previewWidth, "width", 80, "Wrap width")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <input>",
	Short: "Show the page in the terminal",
	Long: `Render the page as Markdown, without prologue or epilogue, and display
it in the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	markupOnStdout = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var md bytes.Buffer
	_, err = site.Render(&md, site.Options{
		Source: args[0],
		Config: cfg,
		Style:  previewStyle,
		Output: backend.Markdown{},
		Bare:   true,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rendered, err := renderMarkdown(md.String(), previewWidth, isTerminal(out))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// renderMarkdown formats markdown for the terminal. Without a terminal the
// plain notty style is used so the output carries no escape codes.
func renderMarkdown(md string, width int, tty bool) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	return r.Render(md)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
