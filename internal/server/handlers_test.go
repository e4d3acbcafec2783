package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/graph"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/repo"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	runner, err := graph.BuildPipelineGraph(context.Background(), graph.Config{})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := NewService(runner, repo.NewRedisQueryRepository(rdb, time.Hour, 10))
	ts := httptest.NewServer(svc.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// ==========================
// Handler Tests
// ==========================

func TestHandleQuery_CanonicalQuery(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/query", map[string]string{
		"query": "Find all schools within 1km of hospitals in Mumbai",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[model.QueryResult](t, resp)
	assert.NotEmpty(t, result.QueryID)
	assert.Equal(t, []string{"school", "hospital"}, result.ParsedQuery.TargetObjects)
	assert.Equal(t, "Mumbai", result.ParsedQuery.Location)
	assert.Equal(t, map[string]string{"distance": "1", "unit": "km"}, result.ParsedQuery.Parameters)

	require.NotNil(t, result.Workflow)
	assert.Len(t, result.Workflow.Steps, 5)
	assert.Equal(t, model.CanonicalTools(), result.Workflow.Tools)
}

func TestHandleQuery_LocationContextAppended(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/query", map[string]string{
		"query":    "Find all parks",
		"location": "Delhi",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[model.QueryResult](t, resp)
	assert.Equal(t, "Delhi", result.ParsedQuery.Location)
}

func TestHandleQuery_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing query", `{}`},
		{"blank query", `{"query": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/query", "application/json", bytes.NewReader([]byte(tt.body)))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleExecute_FullFlow(t *testing.T) {
	ts := newTestServer(t)

	queryResp := postJSON(t, ts.URL+"/api/query", map[string]string{
		"query": "Find all schools within 1km of hospitals in Mumbai",
	})
	require.Equal(t, http.StatusOK, queryResp.StatusCode)
	result := decode[model.QueryResult](t, queryResp)

	execResp := postJSON(t, ts.URL+"/api/execute", map[string]string{
		"query_id": result.QueryID,
	})
	require.Equal(t, http.StatusOK, execResp.StatusCode)
	exec := decode[executeResponse](t, execResp)
	assert.NotEmpty(t, exec.ExecutionID)
	assert.Equal(t, model.ExecutionCompleted, exec.Status)

	statusResp, err := http.Get(fmt.Sprintf("%s/api/status/%s", ts.URL, exec.ExecutionID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, statusResp.StatusCode)
	rec := decode[model.ExecutionRecord](t, statusResp)

	assert.Equal(t, result.QueryID, rec.QueryID)
	assert.Equal(t, 100, rec.Progress)
	assert.Equal(t, 5, rec.Summary.TotalSteps)
	assert.Equal(t, []string{model.DataSourceOSM}, rec.Summary.DataSourcesUsed)
	assert.Len(t, rec.Summary.OperationsPerformed, 5)
}

func TestHandleExecute_UnknownQuery(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/execute", map[string]string{"query_id": "missing"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleStatus_UnknownExecution(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/status/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleHistory(t *testing.T) {
	ts := newTestServer(t)

	for _, q := range []string{"Show forests in Kerala", "Show hospitals in Delhi"} {
		resp := postJSON(t, ts.URL+"/api/query", map[string]string{"query": q})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/history?limit=1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Queries []*model.QueryRecord `json:"queries"`
	}](t, resp)
	require.Len(t, body.Queries, 1)
	assert.Equal(t, "Show hospitals in Delhi", body.Queries[0].Query)
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
