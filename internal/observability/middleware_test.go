package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func testTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return recorder, tp
}

func TestHTTPMiddlewareCreatesSpan(t *testing.T) {
	t.Parallel()

	recorder, tp := testTracer(t)

	handler := HTTPMiddleware(tp.Tracer("test"), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/authors", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "GET /api/authors", spans[0].Name())

	var gotStatus int64

	for _, attr := range spans[0].Attributes() {
		if attr.Key == semconv.HTTPResponseStatusCodeKey {
			gotStatus = attr.Value.AsInt64()
		}
	}

	require.Equal(t, int64(http.StatusNoContent), gotStatus)
}

func TestHTTPMiddlewareMarksServerErrors(t *testing.T) {
	t.Parallel()

	recorder, tp := testTracer(t)

	handler := HTTPMiddleware(tp.Tracer("test"), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "Internal Server Error", spans[0].Status().Description)
}

func TestHTTPMiddlewareImplicitOK(t *testing.T) {
	t.Parallel()

	recorder, tp := testTracer(t)

	handler := HTTPMiddleware(tp.Tracer("test"), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("body"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	var gotStatus int64

	for _, attr := range spans[0].Attributes() {
		if attr.Key == semconv.HTTPResponseStatusCodeKey {
			gotStatus = attr.Value.AsInt64()
		}
	}

	require.Equal(t, int64(http.StatusOK), gotStatus)
}
