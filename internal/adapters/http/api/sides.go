// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/types"
)

// SidesDependencies defines the interface for side report operations.
type SidesDependencies interface {
	SideReports(ctx context.Context, key model.GroupKey) ([]types.SideReport, error)
}

// SidesHandler handles side report requests.
type SidesHandler struct {
	deps SidesDependencies
}

// NewSidesHandler creates a new sides handler.
func NewSidesHandler(deps SidesDependencies) *SidesHandler {
	return &SidesHandler{deps: deps}
}

// HandleGetSides handles GET /sides?date=YYYY-MM-DD&board=N&section=A requests.
func (h *SidesHandler) HandleGetSides(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	key, err := groupKeyFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	reports, err := h.deps.SideReports(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}
