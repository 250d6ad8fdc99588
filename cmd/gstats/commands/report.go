package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/miermontoto/gStats/internal/dashboard"
	"github.com/miermontoto/gStats/internal/mappings"
	"github.com/miermontoto/gStats/internal/observability"
	"github.com/miermontoto/gStats/internal/plotpage"
	"github.com/miermontoto/gStats/internal/stats"
	"github.com/miermontoto/gStats/pkg/config"
	"github.com/miermontoto/gStats/pkg/identity"
	"github.com/miermontoto/gStats/pkg/version"
)

// ReportCommand holds the configuration for the report command.
type ReportCommand struct {
	output    string
	theme     string
	threshold float64
	maxLines  int
}

// NewReportCommand creates and configures the report command.
func NewReportCommand() *cobra.Command {
	rc := &ReportCommand{}

	cobraCmd := &cobra.Command{
		Use:   "report [repository]",
		Short: "Generate a standalone HTML statistics report",
		Long: `Generate a standalone HTML report for a git repository.

The report contains commit timelines, author and branch breakdowns,
code churn, a weekday/hour activity heat map, and the resolved author
identity groups. Similar author names are merged automatically; manual
overrides come from the mappings file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: rc.run,
	}

	cobraCmd.Flags().StringVarP(&rc.output, "output", "o", "", "Output HTML file (default from config)")
	cobraCmd.Flags().StringVar(&rc.theme, "theme", "", "Report theme: light or dark (default from config)")
	cobraCmd.Flags().Float64VarP(&rc.threshold, "threshold", "t", -1, "Similarity threshold 0..1 (default from config)")
	cobraCmd.Flags().IntVar(&rc.maxLines, "max-lines", -1, "Skip commits changing more lines than this, 0 = no limit")

	return cobraCmd
}

func (rc *ReportCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	applyRepoArg(cfg, args)
	rc.applyFlags(cfg)

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeReport
	obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	obsCfg.LogLevel = observability.ParseLogLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("observability init: %w", err)
	}

	defer func() {
		_ = providers.Shutdown(context.Background())
	}()

	logger := providers.Logger
	ctx := cmd.Context()

	start := time.Now()

	snap, err := collectSnapshot(ctx, cfg, logger)
	if err != nil {
		return err
	}

	manual, err := mappings.NewStore(cfg.Identity.MappingsFile).Load()
	if err != nil {
		return err
	}

	mapping := identity.Resolve(snap.Authors, cfg.Identity.SimilarityThreshold, manual)
	records := stats.ApplyMapping(snap.Records, mapping)
	records = stats.FilterMaxLines(records, cfg.Repository.MaxLinesPerCommit)

	page := dashboard.Build(dashboard.Input{
		Info:      snap.Info,
		Records:   records,
		Mapping:   mapping,
		Threshold: cfg.Identity.SimilarityThreshold,
		Theme:     plotpage.Theme(cfg.Report.Theme),
	})

	out, err := os.Create(cfg.Report.Output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cfg.Report.Output, err)
	}
	defer out.Close()

	renderErr := page.Render(out)
	if renderErr != nil {
		return fmt.Errorf("rendering report: %w", renderErr)
	}

	totals := stats.Overview(records)

	fmt.Fprintf(os.Stdout, "%s %s\n",
		color.GreenString("report written:"), cfg.Report.Output)
	fmt.Fprintf(os.Stdout, "  %s commits from %s authors in %s\n",
		humanize.Comma(int64(totals.Commits)),
		humanize.Comma(int64(totals.Authors)),
		time.Since(start).Round(time.Millisecond))

	return nil
}

// applyFlags overrides config values with explicitly set flags.
func (rc *ReportCommand) applyFlags(cfg *config.Config) {
	if rc.output != "" {
		cfg.Report.Output = rc.output
	}

	if rc.theme != "" {
		cfg.Report.Theme = rc.theme
	}

	if rc.threshold >= 0 {
		cfg.Identity.SimilarityThreshold = rc.threshold
	}

	if rc.maxLines >= 0 {
		cfg.Repository.MaxLinesPerCommit = rc.maxLines
	}
}
