// Package main provides the entry point for the gstats CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miermontoto/gStats/cmd/gstats/commands"
	"github.com/miermontoto/gStats/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gstats",
		Short: "gStats - git repository statistics dashboard",
		Long: `gStats analyzes a git repository's commit history and renders an
interactive statistics dashboard, resolving author identities so one
person committing under several names is counted once.

Commands:
  report    Generate a standalone HTML report
  serve     Run the dashboard HTTP server
  authors   Inspect author identity resolution`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./gstats.yaml)")

	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewAuthorsCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
