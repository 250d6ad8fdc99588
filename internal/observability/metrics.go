package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "gstats.requests.total"
	metricRequestDuration  = "gstats.request.duration.seconds"
	metricErrorsTotal      = "gstats.errors.total"
	metricInflightRequests = "gstats.inflight.requests"

	metricCommitsScanned = "gstats.commits.scanned"
	metricAuthorsSeen    = "gstats.authors.seen"
	metricNamesMerged    = "gstats.identity.names.merged"
	metricStageDuration  = "gstats.stage.duration.seconds"

	attrOp     = "op"
	attrStatus = "status"
	attrStage  = "stage"

	statusError = "error"

	// StatusOK marks a successful request.
	StatusOK = "ok"
	// StatusError marks a failed request.
	StatusError = statusError
)

// durationBucketBoundaries covers 10ms to 600s: small repositories scan
// in well under a second, monorepo history walks take minutes.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		errorsTotal:      errTotal,
		inflightRequests: inflight,
	}, nil
}

// RecordRequest records a completed request with its operation, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == statusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// AnalysisMetrics holds instruments for the collect/resolve/render pipeline.
type AnalysisMetrics struct {
	commitsScanned metric.Int64Counter
	authorsSeen    metric.Int64Counter
	namesMerged    metric.Int64Counter
	stageDuration  metric.Float64Histogram
}

// NewAnalysisMetrics creates analysis metric instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	commits, err := mt.Int64Counter(metricCommitsScanned,
		metric.WithDescription("Commits scanned during collection"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommitsScanned, err)
	}

	authors, err := mt.Int64Counter(metricAuthorsSeen,
		metric.WithDescription("Distinct author names seen before resolution"),
		metric.WithUnit("{author}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricAuthorsSeen, err)
	}

	merged, err := mt.Int64Counter(metricNamesMerged,
		metric.WithDescription("Author names merged into another identity"),
		metric.WithUnit("{name}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricNamesMerged, err)
	}

	stage, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	return &AnalysisMetrics{
		commitsScanned: commits,
		authorsSeen:    authors,
		namesMerged:    merged,
		stageDuration:  stage,
	}, nil
}

// RecordCollection records the outcome of a repository scan.
func (am *AnalysisMetrics) RecordCollection(ctx context.Context, commits, authors int) {
	am.commitsScanned.Add(ctx, int64(commits))
	am.authorsSeen.Add(ctx, int64(authors))
}

// RecordResolution records how many names the identity resolver merged away.
func (am *AnalysisMetrics) RecordResolution(ctx context.Context, merged int) {
	am.namesMerged.Add(ctx, int64(merged))
}

// RecordStage records the duration of a named pipeline stage.
func (am *AnalysisMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration) {
	am.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrStage, stage),
	))
}
