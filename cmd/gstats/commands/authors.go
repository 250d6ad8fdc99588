package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/miermontoto/gStats/internal/mappings"
	"github.com/miermontoto/gStats/internal/observability"
	"github.com/miermontoto/gStats/internal/stats"
	"github.com/miermontoto/gStats/pkg/identity"
)

// AuthorsCommand holds the configuration for the authors command.
type AuthorsCommand struct {
	threshold float64
	showAll   bool
}

// NewAuthorsCommand creates and configures the authors command.
func NewAuthorsCommand() *cobra.Command {
	ac := &AuthorsCommand{}

	cobraCmd := &cobra.Command{
		Use:   "authors [repository]",
		Short: "Inspect author identity resolution",
		Long: `Show the repository's authors after identity resolution.

Each row is one resolved identity with its commit totals; names merged
into it by similarity grouping or manual mappings are listed alongside.
Use this to check the threshold before generating a report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: ac.run,
	}

	cobraCmd.Flags().Float64VarP(&ac.threshold, "threshold", "t", -1, "Similarity threshold 0..1 (default from config)")
	cobraCmd.Flags().BoolVarP(&ac.showAll, "all", "a", false, "Also list authors with no merged names")

	return cobraCmd
}

func (ac *AuthorsCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	applyRepoArg(cfg, args)

	if ac.threshold >= 0 {
		cfg.Identity.SimilarityThreshold = ac.threshold
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.LogLevel = observability.ParseLogLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("observability init: %w", err)
	}

	defer func() {
		_ = providers.Shutdown(context.Background())
	}()

	snap, err := collectSnapshot(cmd.Context(), cfg, providers.Logger)
	if err != nil {
		return err
	}

	manual, err := mappings.NewStore(cfg.Identity.MappingsFile).Load()
	if err != nil {
		return err
	}

	mapping := identity.Resolve(snap.Authors, cfg.Identity.SimilarityThreshold, manual)
	records := stats.ApplyMapping(snap.Records, mapping)

	aliases := make(map[string][]string)

	for _, g := range identity.CombinedGroups(mapping) {
		for _, m := range g.Members {
			if m != g.Canonical {
				aliases[g.Canonical] = append(aliases[g.Canonical], m)
			}
		}
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Author", "Commits", "Added", "Removed", "Merged Names"})

	shown := 0

	for _, a := range stats.ByAuthor(records) {
		merged := aliases[a.Name]
		if len(merged) == 0 && !ac.showAll {
			continue
		}

		name := a.Name
		if len(merged) > 0 {
			name = color.GreenString(a.Name)
		}

		tbl.AppendRow(table.Row{
			name,
			humanize.Comma(int64(a.Commits)),
			humanize.Comma(int64(a.Insertions)),
			humanize.Comma(int64(a.Deletions)),
			strings.Join(merged, ", "),
		})

		shown++
	}

	if shown == 0 {
		fmt.Fprintf(os.Stdout, "no names merged at threshold %.2f (use --all to list every author)\n",
			cfg.Identity.SimilarityThreshold)

		return nil
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%d identities, %d raw names", shown, len(snap.Authors))})
	fmt.Fprintln(os.Stdout, tbl.Render())

	return nil
}
