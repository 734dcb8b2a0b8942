// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/types"
)

// BoardsDependencies defines the interface for board report operations.
type BoardsDependencies interface {
	BoardReports(ctx context.Context, limit int) ([]types.BoardReport, error)
	BoardReport(ctx context.Context, key model.GroupKey) (types.BoardReport, error)
}

// BoardsHandler handles board report requests.
type BoardsHandler struct {
	deps     BoardsDependencies
	maxLimit int
}

// NewBoardsHandler creates a new boards handler.
func NewBoardsHandler(deps BoardsDependencies, maxLimit int) *BoardsHandler {
	return &BoardsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleListBoards handles GET /boards?limit=N requests.
func (h *BoardsHandler) HandleListBoards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if parsed > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
			return
		}
		n = parsed
	}

	reports, err := h.deps.BoardReports(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// HandleGetBoard handles GET /boards/{date}/{board}/{section} requests.
func (h *BoardsHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	key, err := groupKeyFromPath(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	report, err := h.deps.BoardReport(r.Context(), key)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// groupKeyFromPath parses /boards/{date}/{board}/{section}.
func groupKeyFromPath(path string) (model.GroupKey, error) {
	rest := strings.TrimPrefix(path, "/boards/")
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return model.GroupKey{}, errors.New("path must be /boards/{date}/{board}/{section}")
	}
	board, err := parseBoardNo(parts[1])
	if err != nil {
		return model.GroupKey{}, err
	}
	return model.GroupKey{TournamentDate: parts[0], BoardNo: board, Section: parts[2]}, nil
}

// parseBoardNo parses a positive board number.
func parseBoardNo(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("board %q is not a positive number", s)
	}
	return n, nil
}
