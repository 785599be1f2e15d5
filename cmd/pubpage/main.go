// Package main provides the pubpage CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/pubpage/internal/config"
	"github.com/matsen/pubpage/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// jsonOutput switches summaries and errors to JSON
	jsonOutput bool
	logLevel   string
	configPath string

	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		code := exitCodeFor(err)
		writeError(os.Stderr, os.Stdout, err)
		os.Exit(code)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubpage",
	Short: "Generate a publications page from a bibliography",
	Long: `pubpage turns a BibTeX file (or a refs.jsonl / refs.db library) into a
publications page: entries are grouped into categories, ordered newest
first within each category, and rendered as HTML, Markdown, or text.

Configuration is read from --config, $PUBPAGE_CONFIG, or
~/.config/pubpage/config.yml, in that order.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Use JSON output for summaries, errors, and logs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Page configuration file (.yml, .yaml, or .toml)")
	rootCmd.Version = Version
}

// setup loads .env and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	l, err := logging.New(cmd.ErrOrStderr(), logLevel, jsonOutput)
	if err != nil {
		return usageError(err)
	}
	logger = l
	return nil
}

// loadConfig resolves the page configuration for this run.
func loadConfig() (*config.Config, error) {
	cfg, _, err := resolveConfig()
	return cfg, err
}

// resolveConfig also returns the file the config came from, or "" for
// the built-in defaults.
func resolveConfig() (*config.Config, string, error) {
	cfg, path, err := config.Resolve(configPath)
	if err != nil {
		return nil, "", withCode(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}
	if path != "" {
		logger.Debug("loaded config", zap.String("path", path))
	}
	return cfg, path, nil
}
