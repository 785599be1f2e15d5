package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/pubpage/internal/backend"
	"github.com/matsen/pubpage/internal/style"
)

func init() {
	rootCmd.AddCommand(stylesCmd, backendsCmd)
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List citation styles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printNames(cmd, style.Names())
	},
}

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List output backends",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printNames(cmd, backend.Names())
	},
}

func printNames(cmd *cobra.Command, names []string) error {
	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), names)
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
