// Package server provides the gStats dashboard HTTP server: the rendered
// report page, a JSON API for tuning identity resolution, and Prometheus
// metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/miermontoto/gStats/internal/collect"
	"github.com/miermontoto/gStats/internal/mappings"
	"github.com/miermontoto/gStats/internal/observability"
	"github.com/miermontoto/gStats/internal/stats"
	"github.com/miermontoto/gStats/pkg/config"
	"github.com/miermontoto/gStats/pkg/identity"
)

// Settings holds the per-session tunables the API can change without a
// restart.
type Settings struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	MaxLinesPerCommit   int     `json:"max_lines_per_commit"`
	Theme               string  `json:"theme"`
}

// SnapshotFunc loads a fresh repository snapshot. Injected so tests can
// run without a real git repository.
type SnapshotFunc func(ctx context.Context) (*collect.Snapshot, error)

// Server is the dashboard HTTP server.
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	tracer   trace.Tracer
	red      *observability.REDMetrics
	analysis *observability.AnalysisMetrics
	metrics  http.Handler
	store    *mappings.Store
	loadSnap SnapshotFunc

	mu       sync.RWMutex
	settings Settings
	snapshot *collect.Snapshot
}

// New creates a dashboard server. The initial snapshot is loaded lazily
// on the first request that needs one.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	red *observability.REDMetrics,
	analysis *observability.AnalysisMetrics,
	metricsHandler http.Handler,
	store *mappings.Store,
	loadSnap SnapshotFunc,
) *Server {
	return &Server{
		cfg:      cfg,
		log:      logger,
		tracer:   tracer,
		red:      red,
		analysis: analysis,
		metrics:  metricsHandler,
		store:    store,
		loadSnap: loadSnap,
		settings: Settings{
			SimilarityThreshold: cfg.Identity.SimilarityThreshold,
			MaxLinesPerCommit:   cfg.Repository.MaxLinesPerCommit,
			Theme:               cfg.Report.Theme,
		},
	}
}

// Handler returns the HTTP mux with all routes wrapped in tracing middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/authors", s.handleAuthors)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/mappings", s.handleMappings)
	mux.HandleFunc("/api/mappings/", s.handleMappingDelete)
	mux.HandleFunc("/api/refresh", s.handleRefresh)

	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	return observability.HTTPMiddleware(s.tracer, mux)
}

// ListenAndServe runs the server until ctx is canceled, then shuts it
// down gracefully within the configured write timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.log.Info("dashboard server listening", "addr", "http://"+addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.WriteTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

// currentSnapshot returns the cached snapshot, loading it on first use.
func (s *Server) currentSnapshot(ctx context.Context) (*collect.Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap != nil {
		return snap, nil
	}

	return s.refreshSnapshot(ctx)
}

// refreshSnapshot loads a fresh snapshot and swaps it in.
func (s *Server) refreshSnapshot(ctx context.Context) (*collect.Snapshot, error) {
	start := time.Now()

	snap, err := s.loadSnap(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting snapshot: %w", err)
	}

	if s.analysis != nil {
		s.analysis.RecordCollection(ctx, len(snap.Records), len(snap.Authors))
		s.analysis.RecordStage(ctx, "collect", time.Since(start))
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.log.InfoContext(ctx, "snapshot refreshed",
		"commits", len(snap.Records),
		"authors", len(snap.Authors),
		"took", time.Since(start))

	return snap, nil
}

// resolution is the identity-resolved view of a snapshot under the
// current settings.
type resolution struct {
	settings Settings
	snapshot *collect.Snapshot
	mapping  map[string]string
	records  []collect.Record
}

// resolve applies manual mappings and similarity grouping to the
// snapshot's authors, then rewrites and filters the records.
func (s *Server) resolve(ctx context.Context) (resolution, error) {
	snap, err := s.currentSnapshot(ctx)
	if err != nil {
		return resolution{}, err
	}

	manual, err := s.store.Load()
	if err != nil {
		return resolution{}, err
	}

	s.mu.RLock()
	settings := s.settings
	s.mu.RUnlock()

	mapping := identity.Resolve(snap.Authors, settings.SimilarityThreshold, manual)

	merged := 0

	for name, canonical := range mapping {
		if name != canonical {
			merged++
		}
	}

	if s.analysis != nil {
		s.analysis.RecordResolution(ctx, merged)
	}

	records := stats.ApplyMapping(snap.Records, mapping)
	records = stats.FilterMaxLines(records, settings.MaxLinesPerCommit)

	return resolution{
		settings: settings,
		snapshot: snap,
		mapping:  mapping,
		records:  records,
	}, nil
}
