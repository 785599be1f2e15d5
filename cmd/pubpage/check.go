package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matsen/pubpage/internal/linkcheck"
	"github.com/matsen/pubpage/internal/source"
)

var (
	checkSiteRoot string
	checkRate     float64
)

func init() {
	checkCmd.Flags().StringVar(&checkSiteRoot, "site-root", ".", "Directory local links are resolved against")
	checkCmd.Flags().Float64Var(&checkRate, "rate", linkcheck.RateLimit, "Remote requests per second")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Verify supplementary links",
	Long: `Verify the supplementary link of every record that has one.

Remote http(s) links are probed with HEAD (GET when HEAD is rejected).
Local links are resolved against --site-root and, for PDFs, opened to
confirm they are readable. Exits with status 3 if any link fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status  string             `json:"status"`
	Checked int                `json:"checked"`
	Failed  int                `json:"failed"`
	Links   []linkcheck.Result `json:"links"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkRate <= 0 {
		return usageError(fmt.Errorf("--rate must be positive, got %v", checkRate))
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	recs, err := source.Load(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker := linkcheck.New(
		linkcheck.WithSiteRoot(checkSiteRoot),
		linkcheck.WithRate(checkRate),
		linkcheck.WithLinkField(cfg.LinkField),
		linkcheck.WithLogger(logger),
	)
	results, err := checker.Check(ctx, recs)
	if err != nil {
		return err
	}
	failed := linkcheck.Failed(results)

	out := cmd.OutOrStdout()
	if jsonOutput {
		status := "ok"
		if len(failed) > 0 {
			status = "failed"
		}
		if err := outputJSON(out, CheckResult{
			Status:  status,
			Checked: len(results),
			Failed:  len(failed),
			Links:   results,
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, linkTable(results))
		fmt.Fprintf(out, "%d links checked, %d failed\n", len(results), len(failed))
	}

	if len(failed) > 0 {
		return withCode(ExitDataError, fmt.Errorf("%d of %d links failed", len(failed), len(results)))
	}
	return nil
}

func linkTable(results []linkcheck.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Key", "Status", "Target", "Detail"})
	for _, r := range results {
		tw.AppendRow(table.Row{r.Key, string(r.Status), r.Target, r.Detail})
	}
	return tw.Render()
}
