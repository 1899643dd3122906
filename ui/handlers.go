package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"teasim/adapters/excel"
	"teasim/app"
	"teasim/domain/core"
	"teasim/domain/montecarlo"
	"teasim/internal/errors"
	"teasim/internal/report"
)

// handleRunSimulation executes a simulation synchronously and returns the
// stored record. Runs of the default 10,000 iterations finish well inside a
// request timeout; callers wanting asynchrony can poll the list endpoint.
func (a *App) handleRunSimulation(w http.ResponseWriter, r *http.Request) {
	var req app.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.InvalidInput("malformed run request: "+err.Error()))
		return
	}

	rec, err := a.simulations.Run(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	recs, err := a.simulations.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	if recs == nil {
		// marshal as [] rather than null
		recs = []*montecarlo.RunRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := runIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rec, err := a.simulations.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (a *App) handleRunReport(w http.ResponseWriter, r *http.Request) {
	id, err := runIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rec, err := a.simulations.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(report.Markdown(rec)))
}

func (a *App) handleRunExport(w http.ResponseWriter, r *http.Request) {
	id, err := runIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rec, err := a.simulations.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="run-`+rec.ID.String()+`.xlsx"`)
	if err := excel.Write(rec, w); err != nil {
		// Headers are gone; all we can do is log via the middleware recoverer path.
		http.Error(w, "export failed", http.StatusInternalServerError)
	}
}

func (a *App) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, err := runIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := a.simulations.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// runIDParam parses the {id} route segment; a blank segment is the
// caller's mistake, not a missing run.
func runIDParam(r *http.Request) (core.RunID, error) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		return "", errors.InvalidInput(err.Error())
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			return v
		}
	}
	return fallback
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps the error taxonomy onto HTTP statuses: invalid
// configuration and malformed input are the caller's fault, missing runs
// are 404, everything else is a 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeConfigInvalid, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeStatisticsEmpty:
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
