package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/miermontoto/gStats/internal/collect"
	"github.com/miermontoto/gStats/internal/mappings"
	"github.com/miermontoto/gStats/pkg/config"
)

var errNoRepo = errors.New("repository unavailable")

func testSnapshot() *collect.Snapshot {
	when := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)

	return &collect.Snapshot{
		Records: []collect.Record{
			{Author: "John Doe", Branch: "main", When: when, Insertions: 3, Deletions: 1, FilesChanged: 1},
			{Author: "Jon Doe", Branch: "main", When: when.AddDate(0, 0, 1), Insertions: 8, Deletions: 2, FilesChanged: 2},
			{Author: "Alice", Branch: "dev", When: when.AddDate(0, 0, 2), Insertions: 1, Deletions: 1, FilesChanged: 1},
		},
		Authors: []string{"John Doe", "Jon Doe", "Alice"},
		Info: collect.RepoInfo{
			Path:         "/tmp/demo",
			ActiveBranch: "main",
			BranchCount:  2,
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Repository: config.RepositoryConfig{Path: "/tmp/demo"},
		Identity: config.IdentityConfig{
			SimilarityThreshold: 0.7,
		},
		Report: config.ReportConfig{Theme: "dark"},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080},
	}
}

func newTestServer(t *testing.T, loadSnap SnapshotFunc) *Server {
	t.Helper()

	if loadSnap == nil {
		loadSnap = func(_ context.Context) (*collect.Snapshot, error) {
			return testSnapshot(), nil
		}
	}

	store := mappings.NewStore(filepath.Join(t.TempDir(), "mappings.yaml"))
	logger := slog.New(slog.DiscardHandler)
	tracer := nooptrace.NewTracerProvider().Tracer("test")

	return New(testConfig(), logger, tracer, nil, nil, nil, store, loadSnap)
}

func TestIndexRendersDashboard(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	require.Contains(t, body, "Repository Report")
	// "Jon Doe" resolves into "John Doe" at 0.7, so it shows as a merged name.
	require.Contains(t, body, "Jon Doe")
}

func TestIndexUnknownPath(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndexSnapshotFailure(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(_ context.Context) (*collect.Snapshot, error) {
		return nil, errNoRepo
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
}

func TestAuthorsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/authors", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Equal(t, []string{"John Doe", "Jon Doe", "Alice"}, resp.Authors)
	require.Equal(t, "John Doe", resp.Mapping["Jon Doe"], "similar names merge")
	require.Equal(t, "Alice", resp.Mapping["Alice"])
	require.Len(t, resp.Groups, 1)
	require.NotContains(t, resp.Mergeable, "Jon Doe", "already merged names are not offered")
}

func TestSettingsUpdateChangesResolution(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	handler := srv.Handler()

	body := `{"similarity_threshold": 1.0, "max_lines_per_commit": 0, "theme": "light"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	// At threshold 1.0 nothing merges.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/authors", nil))

	var resp AuthorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Jon Doe", resp.Mapping["Jon Doe"])
	require.Empty(t, resp.Groups)
}

func TestSettingsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "bad json", body: "{"},
		{name: "threshold out of range", body: `{"similarity_threshold": 2, "theme": "dark"}`},
		{name: "negative max lines", body: `{"similarity_threshold": 0.5, "max_lines_per_commit": -2, "theme": "dark"}`},
		{name: "bad theme", body: `{"similarity_threshold": 0.5, "theme": "sepia"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, nil)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(tt.body)))

			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMappingLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	handler := srv.Handler()

	// Create.
	body := `{"source": "Alice", "target": "John Doe"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/mappings", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	// The manual mapping overrides similarity resolution.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/authors", nil))

	var resp AuthorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "John Doe", resp.Mapping["Alice"])

	// List.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/mappings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Equal(t, map[string]string{"Alice": "John Doe"}, listed)

	// Delete.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/mappings/Alice", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// Deleting again is a 404.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/mappings/Alice", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMappingCreateValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/mappings", strings.NewReader(`{"source": ""}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := newTestServer(t, func(_ context.Context) (*collect.Snapshot, error) {
		calls++

		return testSnapshot(), nil
	})
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, calls)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.InDelta(t, 3, resp["commits"], 0)

	// Subsequent reads reuse the cached snapshot.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/authors", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, calls)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	handler := srv.Handler()

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodPost, path: "/healthz"},
		{method: http.MethodPut, path: "/api/authors"},
		{method: http.MethodGet, path: "/api/refresh"},
		{method: http.MethodDelete, path: "/api/settings"},
		{method: http.MethodGet, path: "/api/mappings/Alice"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tt.method, tt.path)
	}
}
