// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// BoardReports lists board reports up to a limit.
	BoardReports(ctx context.Context, limit int) ([]types.BoardReport, error)

	// BoardReport returns one group's report.
	BoardReport(ctx context.Context, key model.GroupKey) (types.BoardReport, error)

	// SideReports returns one group's side reports.
	SideReports(ctx context.Context, key model.GroupKey) ([]types.SideReport, error)

	// Diagnostics returns the last run's per-record failures.
	Diagnostics(ctx context.Context) ([]types.Diagnostic, error)
}

// Server wires HTTP routes for the analysis API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	boardsHandler      *BoardsHandler
	sidesHandler       *SidesHandler
	diagnosticsHandler *DiagnosticsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBoardsLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		boardsHandler:      NewBoardsHandler(deps, maxBoardsLimit),
		sidesHandler:       NewSidesHandler(deps),
		diagnosticsHandler: NewDiagnosticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/boards", MetricsMiddleware(s.boardsHandler.HandleListBoards, "boards"))
	mux.HandleFunc("/boards/", MetricsMiddleware(s.boardsHandler.HandleGetBoard, "board"))
	mux.HandleFunc("/sides", MetricsMiddleware(s.sidesHandler.HandleGetSides, "sides"))
	mux.HandleFunc("/diagnostics", MetricsMiddleware(s.diagnosticsHandler.HandleGetDiagnostics, "diagnostics"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// groupKeyFromQuery reads date, board and section query parameters.
func groupKeyFromQuery(r *http.Request) (model.GroupKey, error) {
	q := r.URL.Query()
	date := strings.TrimSpace(q.Get("date"))
	section := strings.TrimSpace(q.Get("section"))
	boardStr := strings.TrimSpace(q.Get("board"))

	if date == "" || section == "" || boardStr == "" {
		return model.GroupKey{}, errors.New("date, board and section are required")
	}
	board, err := parseBoardNo(boardStr)
	if err != nil {
		return model.GroupKey{}, err
	}
	return model.GroupKey{TournamentDate: date, BoardNo: board, Section: section}, nil
}
