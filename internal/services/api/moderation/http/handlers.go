// Package http provides moderation state endpoints
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"reviewflow/internal/modkit/httpkit"
	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/services/moderate/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Query domain.QueryPort
}

type handlers struct {
	deps Deps
}

// Register mounts the moderation routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/reviewers/{id}", h.reviewer)
}

// ReviewerResponse is the per-reviewer moderation state payload
type ReviewerResponse struct {
	ReviewerID     string `json:"reviewer_id"     example:"U2"`
	ViolationCount int64  `json:"violation_count" example:"4"`
	Banned         bool   `json:"banned"          example:"true"`
}

// @Summary Moderation state for one reviewer
// @Tags Moderation
// @Produce json
// @Param id path string true "reviewer id"
// @Success 200 {object} ReviewerResponse
// @Router /moderation/reviewers/{id} [get]
func (h *handlers) reviewer(req *http.Request) (any, error) {
	id := chi.URLParam(req, "id")
	if id == "" {
		return nil, perr.InvalidArgf("reviewer id is required")
	}

	counts, err := h.deps.Query.Get(req.Context(), id)
	if err != nil {
		return nil, err
	}
	return ReviewerResponse{
		ReviewerID:     id,
		ViolationCount: counts.Violations,
		Banned:         counts.Banned,
	}, nil
}
