package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/miermontoto/gStats/internal/collect"
	"github.com/miermontoto/gStats/internal/mappings"
	"github.com/miermontoto/gStats/internal/observability"
	"github.com/miermontoto/gStats/internal/server"
	"github.com/miermontoto/gStats/pkg/version"
)

// ServeCommand holds the configuration for the serve command.
type ServeCommand struct {
	host string
	port int
}

// NewServeCommand creates and configures the serve command.
func NewServeCommand() *cobra.Command {
	sc := &ServeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "serve [repository]",
		Short: "Run the dashboard HTTP server",
		Long: `Run the gStats dashboard server.

The server renders the statistics dashboard at / and exposes a JSON API
for tuning identity resolution at runtime: adjusting the similarity
threshold, adding or removing manual author mappings, and refreshing
the repository snapshot. Prometheus metrics are served at /metrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sc.run,
	}

	cobraCmd.Flags().StringVar(&sc.host, "host", "", "Listen host (default from config)")
	cobraCmd.Flags().IntVarP(&sc.port, "port", "p", 0, "Listen port (default from config)")

	return cobraCmd
}

func (sc *ServeCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	applyRepoArg(cfg, args)

	if sc.host != "" {
		cfg.Server.Host = sc.host
	}

	if sc.port > 0 {
		cfg.Server.Port = sc.port
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeServe
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

	// Instruments are registered on the Prometheus meter so they show up
	// on /metrics even without an OTLP collector.
	meterProvider, metricsHandler, err := observability.NewPrometheus()
	if err != nil {
		return err
	}

	meter := meterProvider.Meter("gstats")

	red, err := observability.NewREDMetrics(meter)
	if err != nil {
		return err
	}

	analysis, err := observability.NewAnalysisMetrics(meter)
	if err != nil {
		return err
	}

	store := mappings.NewStore(cfg.Identity.MappingsFile)

	loadSnap := func(ctx context.Context) (*collect.Snapshot, error) {
		return collectSnapshot(ctx, cfg, logger)
	}

	srv := server.New(cfg, logger, providers.Tracer, red, analysis, metricsHandler, store, loadSnap)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
