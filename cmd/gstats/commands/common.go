// Package commands implements the gstats CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/miermontoto/gStats/internal/collect"
	"github.com/miermontoto/gStats/pkg/config"
	"github.com/miermontoto/gStats/pkg/gitlib"
)

// loadConfig reads the configuration honoring the root --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	return config.Load(path)
}

// applyRepoArg overrides the configured repository path with the
// positional argument, when given.
func applyRepoArg(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Repository.Path = args[0]
	}
}

// collectSnapshot opens the repository, walks its history and returns
// the snapshot. The repository handle is freed before returning.
func collectSnapshot(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*collect.Snapshot, error) {
	repo, err := gitlib.Open(cfg.Repository.Path)
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", cfg.Repository.Path, err)
	}
	defer repo.Free()

	snap, err := collect.New(repo, logger).Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting history: %w", err)
	}

	return snap, nil
}
