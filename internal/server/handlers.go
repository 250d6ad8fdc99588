package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/miermontoto/gStats/internal/dashboard"
	"github.com/miermontoto/gStats/internal/observability"
	"github.com/miermontoto/gStats/internal/plotpage"
	"github.com/miermontoto/gStats/pkg/identity"
	"github.com/miermontoto/gStats/pkg/version"
)

// minDeleteURLParts is the minimum URL path parts for a mapping delete.
const minDeleteURLParts = 4

// AuthorsResponse holds the response body for the authors API endpoint.
type AuthorsResponse struct {
	Authors   []string          `json:"authors"`
	Mapping   map[string]string `json:"mapping"`
	Groups    []identity.Group  `json:"groups"`
	Mergeable []string          `json:"mergeable"`
	Targets   []string          `json:"targets"`
}

// MappingRequest holds the request body for creating a manual mapping.
type MappingRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// StatusResponse is the generic status reply.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// writeJSON encodes the given value as JSON and writes it to the response writer.
func (s *Server) writeJSON(ctx context.Context, responseWriter http.ResponseWriter, value any) {
	responseWriter.Header().Set("Content-Type", "application/json")

	encodeErr := json.NewEncoder(responseWriter).Encode(value)
	if encodeErr != nil {
		s.log.ErrorContext(ctx, "failed to encode JSON response", "error", encodeErr)
	}
}

func (s *Server) handleIndex(responseWriter http.ResponseWriter, request *http.Request) {
	if request.URL.Path != "/" {
		http.NotFound(responseWriter, request)

		return
	}

	if request.Method != http.MethodGet {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	start := time.Now()
	ctx := request.Context()

	res, err := s.resolve(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "dashboard render failed", "error", err)
		http.Error(responseWriter, "Failed to build dashboard", http.StatusInternalServerError)
		s.recordRequest(ctx, "index", false, start)

		return
	}

	page := dashboard.Build(dashboard.Input{
		Info:      res.snapshot.Info,
		Records:   res.records,
		Mapping:   res.mapping,
		Threshold: res.settings.SimilarityThreshold,
		Theme:     plotpage.Theme(res.settings.Theme),
	})

	responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")

	renderErr := page.Render(responseWriter)
	if renderErr != nil {
		s.log.ErrorContext(ctx, "page render failed", "error", renderErr)
	}

	s.recordRequest(ctx, "index", renderErr == nil, start)
}

func (s *Server) handleHealthz(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	s.writeJSON(request.Context(), responseWriter, StatusResponse{
		Status:  "ok",
		Version: version.Version,
	})
}

func (s *Server) handleAuthors(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	ctx := request.Context()

	res, err := s.resolve(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "author resolution failed", "error", err)
		http.Error(responseWriter, "Failed to resolve authors", http.StatusInternalServerError)

		return
	}

	manual, err := s.store.Load()
	if err != nil {
		http.Error(responseWriter, "Failed to read mappings", http.StatusInternalServerError)

		return
	}

	mergeable, targets := identity.MergeOptions(res.snapshot.Authors, res.settings.SimilarityThreshold, manual)

	s.writeJSON(ctx, responseWriter, AuthorsResponse{
		Authors:   res.snapshot.Authors,
		Mapping:   res.mapping,
		Groups:    identity.CombinedGroups(res.mapping),
		Mergeable: mergeable,
		Targets:   targets,
	})
}

func (s *Server) handleSettings(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPut {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	var req Settings

	decodeErr := json.NewDecoder(request.Body).Decode(&req)
	if decodeErr != nil {
		http.Error(responseWriter, "Invalid request body", http.StatusBadRequest)

		return
	}

	if req.SimilarityThreshold < 0 || req.SimilarityThreshold > 1 {
		http.Error(responseWriter, "similarity_threshold must be between 0 and 1", http.StatusBadRequest)

		return
	}

	if req.MaxLinesPerCommit < 0 {
		http.Error(responseWriter, "max_lines_per_commit must not be negative", http.StatusBadRequest)

		return
	}

	if req.Theme != "light" && req.Theme != "dark" {
		http.Error(responseWriter, "theme must be light or dark", http.StatusBadRequest)

		return
	}

	s.mu.Lock()
	s.settings = req
	s.mu.Unlock()

	s.log.InfoContext(request.Context(), "settings updated",
		"threshold", req.SimilarityThreshold,
		"max_lines", req.MaxLinesPerCommit,
		"theme", req.Theme)

	s.writeJSON(request.Context(), responseWriter, req)
}

func (s *Server) handleMappings(responseWriter http.ResponseWriter, request *http.Request) {
	switch request.Method {
	case http.MethodGet:
		s.handleMappingsList(responseWriter, request)
	case http.MethodPost:
		s.handleMappingCreate(responseWriter, request)
	default:
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMappingsList(responseWriter http.ResponseWriter, request *http.Request) {
	manual, err := s.store.Load()
	if err != nil {
		http.Error(responseWriter, "Failed to read mappings", http.StatusInternalServerError)

		return
	}

	s.writeJSON(request.Context(), responseWriter, manual)
}

func (s *Server) handleMappingCreate(responseWriter http.ResponseWriter, request *http.Request) {
	var req MappingRequest

	decodeErr := json.NewDecoder(request.Body).Decode(&req)
	if decodeErr != nil {
		http.Error(responseWriter, "Invalid request body", http.StatusBadRequest)

		return
	}

	if req.Source == "" || req.Target == "" {
		http.Error(responseWriter, "source and target are required", http.StatusBadRequest)

		return
	}

	saveErr := s.store.Set(req.Source, req.Target)
	if saveErr != nil {
		s.log.ErrorContext(request.Context(), "mapping save failed", "error", saveErr)
		http.Error(responseWriter, "Failed to save mapping", http.StatusInternalServerError)

		return
	}

	s.log.InfoContext(request.Context(), "mapping added", "source", req.Source, "target", req.Target)

	responseWriter.WriteHeader(http.StatusCreated)
	s.writeJSON(request.Context(), responseWriter, StatusResponse{Status: "created"})
}

func (s *Server) handleMappingDelete(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodDelete {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	// Path is /api/mappings/{source}; the source may contain spaces.
	parts := strings.SplitN(request.URL.Path, "/", minDeleteURLParts)

	if len(parts) < minDeleteURLParts || parts[minDeleteURLParts-1] == "" {
		http.Error(responseWriter, "Invalid mapping path", http.StatusBadRequest)

		return
	}

	source := parts[minDeleteURLParts-1]

	existed, err := s.store.Delete(source)
	if err != nil {
		http.Error(responseWriter, "Failed to delete mapping", http.StatusInternalServerError)

		return
	}

	if !existed {
		http.Error(responseWriter, "Mapping not found", http.StatusNotFound)

		return
	}

	s.log.InfoContext(request.Context(), "mapping removed", "source", source)

	s.writeJSON(request.Context(), responseWriter, StatusResponse{Status: "deleted"})
}

func (s *Server) handleRefresh(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	start := time.Now()
	ctx := request.Context()

	snap, err := s.refreshSnapshot(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "snapshot refresh failed", "error", err)
		http.Error(responseWriter, "Failed to refresh snapshot", http.StatusInternalServerError)
		s.recordRequest(ctx, "refresh", false, start)

		return
	}

	s.recordRequest(ctx, "refresh", true, start)

	s.writeJSON(ctx, responseWriter, map[string]any{
		"status":  "ok",
		"commits": len(snap.Records),
		"authors": len(snap.Authors),
	})
}

func (s *Server) recordRequest(ctx context.Context, op string, ok bool, start time.Time) {
	if s.red == nil {
		return
	}

	status := observability.StatusOK
	if !ok {
		status = observability.StatusError
	}

	s.red.RecordRequest(ctx, op, status, time.Since(start))
}
