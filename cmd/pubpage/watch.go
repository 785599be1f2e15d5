package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/pubpage/internal/site"
	"github.com/matsen/pubpage/internal/watch"
)

var (
	watchOutput  string
	watchStyle   string
	watchBackend string
)

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "File to write the page to (required)")
	watchCmd.Flags().StringVar(&watchStyle, "style", "", "Citation style (overrides config)")
	watchCmd.Flags().StringVar(&watchBackend, "backend", "", "Output backend (overrides config)")
	watchCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <input> -o <page>",
	Short: "Re-render the page whenever the library changes",
	Long: `Render the page once, then re-render whenever the library or the config
file changes. Render errors are logged and watching continues. Stop with
Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, cfgFile, err := resolveConfig()
	if err != nil {
		return err
	}

	opts := site.Options{
		Source:  args[0],
		Config:  cfg,
		Style:   watchStyle,
		Backend: watchBackend,
		Logger:  logger,
	}
	render := func() error {
		sum, err := renderToFile(watchOutput, opts)
		if err != nil {
			return err
		}
		logger.Info("wrote page", zap.String("path", watchOutput), zap.Int("entries", sum.Entries))
		return nil
	}

	// The first render must succeed; later failures only get logged.
	if err := render(); err != nil {
		return err
	}

	w, err := watch.New([]string{args[0], cfgFile}, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", zap.String("input", args[0]), zap.String("config", cfgFile))
	return w.Run(ctx, func() error {
		// Pick up config edits too.
		if fresh, err := loadConfig(); err == nil {
			opts.Config = fresh
		} else {
			logger.Error("reloading config", zap.Error(err))
		}
		return render()
	})
}
