// Package http provides pipeline run stats endpoints
package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"reviewflow/internal/modkit/httpkit"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/services/api/runstats/repo"
)

// Deps are the handler dependencies
type Deps struct {
	Repo repo.Repo
}

type handlers struct {
	deps Deps
}

// Register mounts the run stats routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/runs", h.recent)
	httpkit.Get(r, "/runs/{id}", h.breakdown)
}

// RunResponse summarizes one pipeline run
type RunResponse struct {
	RunID      string `json:"run_id"      example:"0d4c1e2a-77aa-4a55-9e8e-2f1f6f3f9c1b"`
	Events     int64  `json:"events"      example:"12"`
	Errors     int64  `json:"errors"      example:"0"`
	StartedAt  string `json:"started_at"  example:"2026-08-30 10:15:02"`
	FinishedAt string `json:"finished_at" example:"2026-08-30 10:15:03"`
}

// StageResponse summarizes one stage within a run
type StageResponse struct {
	Stage     string  `json:"stage"     example:"moderate"`
	Handled   int64   `json:"handled"   example:"3"`
	Failed    int64   `json:"failed"    example:"0"`
	AvgMillis float64 `json:"avg_ms"    example:"1.7"`
}

// @Summary Recent pipeline runs
// @Tags Runs
// @Produce json
// @Param limit query int false "max runs, default 50"
// @Success 200 {array} RunResponse
// @Router /runs [get]
func (h *handlers) recent(req *http.Request) (any, error) {
	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.InvalidArgf("limit must be an integer")
		}
		limit = n
	}

	rows, err := h.deps.Repo.RecentRuns(req.Context(), limit)
	if err != nil {
		return nil, err
	}
	out := make([]RunResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, RunResponse{
			RunID:      r.RunID,
			Events:     r.Events,
			Errors:     r.Errors,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
		})
	}
	return out, nil
}

// @Summary Per-stage breakdown for one run
// @Tags Runs
// @Produce json
// @Param id path string true "run id"
// @Success 200 {array} StageResponse
// @Router /runs/{id} [get]
func (h *handlers) breakdown(req *http.Request) (any, error) {
	id := chi.URLParam(req, "id")
	if id == "" {
		return nil, perr.InvalidArgf("run id is required")
	}

	rows, err := h.deps.Repo.StageBreakdown(req.Context(), id)
	if err != nil {
		return nil, err
	}
	out := make([]StageResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, StageResponse{
			Stage:     s.Stage,
			Handled:   s.Handled,
			Failed:    s.Failed,
			AvgMillis: s.AvgMillis,
		})
	}
	return out, nil
}
