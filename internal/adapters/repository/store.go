// Package repository defines the report store interface and errors.
package repository

import (
	"context"

	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/types"
)

// Store provides read/write access to analysis output for one run.
type Store interface {
	// PutBoardReport stores the board-layer report for a group, replacing
	// any earlier report for the same key.
	PutBoardReport(ctx context.Context, report types.BoardReport) error

	// BoardReport returns the report for one group.
	// Returns ErrNotFound if the group is unknown.
	BoardReport(ctx context.Context, key model.GroupKey) (types.BoardReport, error)

	// BoardReports returns up to limit reports ordered by key (date, board,
	// section). A limit of 0 or less is rejected with ErrInvalidLimit.
	BoardReports(ctx context.Context, limit int) ([]types.BoardReport, error)

	// PutSideReport stores one side-layer report.
	PutSideReport(ctx context.Context, report types.SideReport) error

	// SideReports returns the side reports for a group ordered by NS pair.
	SideReports(ctx context.Context, key model.GroupKey) ([]types.SideReport, error)

	// PutDiagnostic stores one per-record failure.
	PutDiagnostic(ctx context.Context, diag types.Diagnostic) error

	// Diagnostics returns all recorded failures ordered by ID.
	Diagnostics(ctx context.Context) ([]types.Diagnostic, error)

	// Counts returns the number of board reports, side reports and
	// diagnostics currently stored.
	Counts(ctx context.Context) (boards, sides, diags int)

	// Reset clears all stored reports ahead of a new run.
	Reset(ctx context.Context)
}
