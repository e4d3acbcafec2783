package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	errx "github.com/GeoFlow-core-poc-v1/server/internal/core/error"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
)

const maxQueryLen = 10000

type queryRequest struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"`
}

type executeRequest struct {
	QueryID string `json:"query_id"`
}

type executeResponse struct {
	ExecutionID string `json:"execution_id"`
	Status      string `json:"status"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleQuery translates a natural language query into a parsed query and a
// workflow. Translation itself is total; only transport and persistence can
// fail here.
func (s *Service) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if len(query) > maxQueryLen {
		writeError(w, http.StatusBadRequest, "query too long")
		return
	}
	// optional location context from the dashboard is appended so the
	// location recognizers can pick it up
	if loc := strings.TrimSpace(req.Location); loc != "" {
		query = query + " in " + loc
	}

	queryID := uuid.NewString()

	result, err := s.runner.Invoke(r.Context(), model.QueryInput{
		QueryID: queryID,
		Query:   query,
	})
	if err != nil {
		logx.Error().Err(err).Str("query_id", queryID).Msg("pipeline invocation failed")
		writeError(w, http.StatusInternalServerError, errx.SystemErrorMessage)
		return
	}

	rec := &model.QueryRecord{
		QueryID:     queryID,
		Query:       req.Query,
		ParsedQuery: result.ParsedQuery,
		Workflow:    result.Workflow,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.SaveQuery(r.Context(), rec); err != nil {
		// history is best-effort; the translation result is still returned
		logx.Warn().Err(err).Str("query_id", queryID).Msg("failed to persist query record")
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExecute records acceptance of a generated workflow. Invoking the
// named GIS tools is outside this service; the execution record reflects plan
// acceptance only.
func (s *Service) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QueryID == "" {
		writeError(w, http.StatusBadRequest, "query_id is required")
		return
	}

	rec, err := s.repo.GetQuery(r.Context(), req.QueryID)
	if err != nil {
		writeError(w, errx.StatusOf(err, http.StatusBadGateway), "query not found")
		return
	}

	now := time.Now().UTC()
	exec := &model.ExecutionRecord{
		ExecutionID: uuid.NewString(),
		QueryID:     rec.QueryID,
		Status:      model.ExecutionCompleted,
		Progress:    100,
		Summary:     summarize(rec.Workflow),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SaveExecution(r.Context(), exec); err != nil {
		logx.Error().Err(err).Str("execution_id", exec.ExecutionID).Msg("failed to persist execution record")
		writeError(w, errx.StatusOf(err, http.StatusBadGateway), errx.RedisErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{
		ExecutionID: exec.ExecutionID,
		Status:      exec.Status,
	})
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	executionID := chi.URLParam(r, "execution_id")
	if executionID == "" {
		writeError(w, http.StatusBadRequest, "execution_id is required")
		return
	}

	rec, err := s.repo.GetExecution(r.Context(), executionID)
	if err != nil {
		writeError(w, errx.StatusOf(err, http.StatusBadGateway), "execution not found")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := s.repo.RecentQueries(r.Context(), limit)
	if err != nil {
		writeError(w, errx.StatusOf(err, http.StatusBadGateway), errx.RedisErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"queries": records})
}

// summarize derives the dashboard summary from the accepted plan.
func summarize(wf *model.Workflow) model.ExecutionSummary {
	summary := model.ExecutionSummary{
		DataSourcesUsed:     []string{},
		OperationsPerformed: []string{},
	}
	if wf == nil {
		return summary
	}
	summary.TotalSteps = len(wf.Steps)
	summary.DataSourcesUsed = append(summary.DataSourcesUsed, wf.DataSources...)
	for _, step := range wf.Steps {
		summary.OperationsPerformed = append(summary.OperationsPerformed, step.Action)
	}
	return summary
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
