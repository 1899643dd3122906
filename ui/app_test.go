package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsvc "teasim/app"
	"teasim/domain/core"
	"teasim/domain/montecarlo"
	"teasim/internal/errors"
	"teasim/internal/simulation"
	"teasim/internal/testkit"
)

// memoryRepo is a map-backed ResultRepository for handler tests.
type memoryRepo struct {
	mu   sync.Mutex
	runs map[core.RunID]*montecarlo.RunRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{runs: make(map[core.RunID]*montecarlo.RunRecord)}
}

func (m *memoryRepo) Save(_ context.Context, rec *montecarlo.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[rec.ID] = rec
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id core.RunID) (*montecarlo.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.runs[id]
	if !ok {
		return nil, errors.NotFound("run " + id.String())
	}
	return rec, nil
}

func (m *memoryRepo) List(_ context.Context, limit, offset int) ([]*montecarlo.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := make([]*montecarlo.RunRecord, 0, len(m.runs))
	for _, rec := range m.runs {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	if offset >= len(recs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(recs) {
		end = len(recs)
	}
	return recs[offset:end], nil
}

func (m *memoryRepo) Delete(_ context.Context, id core.RunID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return errors.NotFound("run " + id.String())
	}
	delete(m.runs, id)
	return nil
}

func newTestApp() (*App, *memoryRepo) {
	repo := newMemoryRepo()
	svc := appsvc.NewSimulationService(simulation.NewEngine(),
		testkit.LinearEvaluator{Field: "capex_per_kw", Intercept: 1000, Slope: -5}, repo)
	return NewApp(svc), repo
}

func postRun(t *testing.T, a *App, body appsvc.RunRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/simulations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func validRequest() appsvc.RunRequest {
	return appsvc.RunRequest{
		Label: "api test",
		Config: montecarlo.SimulationConfig{
			Iterations: 300,
			Seed:       42,
		},
		Parameters: testkit.SolarParameters(),
		BaseInputs: testkit.SolarBaseInputs(),
	}
}

func TestHealthz(t *testing.T) {
	a, _ := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunSimulationEndToEnd(t *testing.T) {
	a, repo := newTestApp()

	w := postRun(t, a, validRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec montecarlo.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "api test", rec.Label)
	assert.Equal(t, 300, rec.Result.Metadata.CompletedIterations)
	assert.True(t, rec.Result.Metadata.ConvergenceAchieved)

	// The run round-trips through the repository.
	req := httptest.NewRequest(http.MethodGet, "/api/simulations/"+rec.ID.String(), nil)
	w2 := httptest.NewRecorder()
	a.Router().ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var fetched montecarlo.RunRecord
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &fetched))
	assert.Equal(t, rec.ID, fetched.ID)
	assert.Len(t, repo.runs, 1)
}

func TestRunSimulationRejectsBadConfig(t *testing.T) {
	a, _ := newTestApp()

	req := validRequest()
	req.Parameters = nil
	w := postRun(t, a, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeConfigInvalid, body["code"])
}

func TestRunSimulationRejectsMalformedJSON(t *testing.T) {
	a, _ := newTestApp()
	req := httptest.NewRequest(http.MethodPost, "/api/simulations", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRunNotFound(t *testing.T) {
	a, _ := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/api/simulations/nope", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRunRejectsBlankID(t *testing.T) {
	a, _ := newTestApp()
	// A whitespace-only id segment is the caller's mistake, not a missing run.
	req := httptest.NewRequest(http.MethodGet, "/api/simulations/%20", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeInvalidInput, body["code"])

	req = httptest.NewRequest(http.MethodDelete, "/api/simulations/%20", nil)
	w = httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRunsEmpty(t *testing.T) {
	a, _ := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/api/simulations", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestRunReportAndExport(t *testing.T) {
	a, _ := newTestApp()
	w := postRun(t, a, validRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	var rec montecarlo.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))

	req := httptest.NewRequest(http.MethodGet, "/api/simulations/"+rec.ID.String()+"/report.md", nil)
	w2 := httptest.NewRecorder()
	a.Router().ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "## Risk")

	req = httptest.NewRequest(http.MethodGet, "/api/simulations/"+rec.ID.String()+"/export.xlsx", nil)
	w3 := httptest.NewRecorder()
	a.Router().ServeHTTP(w3, req)
	require.Equal(t, http.StatusOK, w3.Code)
	assert.NotZero(t, w3.Body.Len())
}

func TestDeleteRun(t *testing.T) {
	a, repo := newTestApp()
	w := postRun(t, a, validRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	var rec montecarlo.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))

	req := httptest.NewRequest(http.MethodDelete, "/api/simulations/"+rec.ID.String(), nil)
	w2 := httptest.NewRecorder()
	a.Router().ServeHTTP(w2, req)
	assert.Equal(t, http.StatusNoContent, w2.Code)
	assert.Empty(t, repo.runs)
}
