package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/types"
	"github.com/madsvk/boardfield/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Reports are keyed by group; shards split the key space so concurrent
// workers writing different groups rarely contend on the same lock.

const defaultShardCount = 8

// shard holds one slice of the key space under its own lock.
type shard struct {
	mu     sync.RWMutex
	boards map[model.GroupKey]types.BoardReport
	sides  map[model.GroupKey][]types.SideReport
}

// MemStore implements Store with sharded maps.
type MemStore struct {
	shardCount int
	shards     []*shard

	diagMu sync.Mutex
	diags  []types.Diagnostic
}

// NewMemStore creates a store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{
			boards: make(map[model.GroupKey]types.BoardReport),
			sides:  make(map[model.GroupKey][]types.SideReport),
		}
	}
	metrics.UpdateRepositoryShardCount(s.shardCount)
	return s
}

// shardFor maps a group key onto a shard.
func (s *MemStore) shardFor(key model.GroupKey) *shard {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s|%d|%s", key.TournamentDate, key.BoardNo, key.Section)
	return s.shards[int(h.Sum32())%s.shardCount]
}

// PutBoardReport stores the board-layer report for a group.
func (s *MemStore) PutBoardReport(_ context.Context, report types.BoardReport) error {
	sh := s.shardFor(report.Key)
	sh.mu.Lock()
	sh.boards[report.Key] = report
	sh.mu.Unlock()
	s.publishTotals()
	return nil
}

// BoardReport returns the report for one group.
func (s *MemStore) BoardReport(_ context.Context, key model.GroupKey) (types.BoardReport, error) {
	start := time.Now()
	sh := s.shardFor(key)
	sh.mu.RLock()
	report, ok := sh.boards[key]
	sh.mu.RUnlock()
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	if !ok {
		return types.BoardReport{}, ErrNotFound
	}
	return report, nil
}

// BoardReports returns up to limit reports ordered by key.
func (s *MemStore) BoardReports(_ context.Context, limit int) ([]types.BoardReport, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()
	var reports []types.BoardReport
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, r := range sh.boards {
			reports = append(reports, r)
		}
		sh.mu.RUnlock()
	}
	sort.Slice(reports, func(i, j int) bool {
		a, b := reports[i].Key, reports[j].Key
		if a.TournamentDate != b.TournamentDate {
			return a.TournamentDate < b.TournamentDate
		}
		if a.BoardNo != b.BoardNo {
			return a.BoardNo < b.BoardNo
		}
		return a.Section < b.Section
	})
	if len(reports) > limit {
		reports = reports[:limit]
	}
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	return reports, nil
}

// PutSideReport stores one side-layer report.
func (s *MemStore) PutSideReport(_ context.Context, report types.SideReport) error {
	sh := s.shardFor(report.Key)
	sh.mu.Lock()
	sh.sides[report.Key] = append(sh.sides[report.Key], report)
	sh.mu.Unlock()
	return nil
}

// SideReports returns the side reports for a group ordered by NS pair.
func (s *MemStore) SideReports(_ context.Context, key model.GroupKey) ([]types.SideReport, error) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	stored := sh.sides[key]
	reports := make([]types.SideReport, len(stored))
	copy(reports, stored)
	sh.mu.RUnlock()

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].PairNS < reports[j].PairNS
	})
	return reports, nil
}

// PutDiagnostic stores one per-record failure.
func (s *MemStore) PutDiagnostic(_ context.Context, diag types.Diagnostic) error {
	s.diagMu.Lock()
	s.diags = append(s.diags, diag)
	s.diagMu.Unlock()
	return nil
}

// Diagnostics returns all recorded failures ordered by ID.
func (s *MemStore) Diagnostics(_ context.Context) ([]types.Diagnostic, error) {
	s.diagMu.Lock()
	diags := make([]types.Diagnostic, len(s.diags))
	copy(diags, s.diags)
	s.diagMu.Unlock()

	sort.Slice(diags, func(i, j int) bool { return diags[i].ID < diags[j].ID })
	return diags, nil
}

// Counts returns the number of stored board reports, side reports and diagnostics.
func (s *MemStore) Counts(_ context.Context) (boards, sides, diags int) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		boards += len(sh.boards)
		for _, reports := range sh.sides {
			sides += len(reports)
		}
		sh.mu.RUnlock()
	}
	s.diagMu.Lock()
	diags = len(s.diags)
	s.diagMu.Unlock()
	return boards, sides, diags
}

// Reset clears all stored reports ahead of a new run.
func (s *MemStore) Reset(_ context.Context) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.boards = make(map[model.GroupKey]types.BoardReport)
		sh.sides = make(map[model.GroupKey][]types.SideReport)
		sh.mu.Unlock()
	}
	s.diagMu.Lock()
	s.diags = nil
	s.diagMu.Unlock()
	s.publishTotals()
}

// publishTotals pushes the board report count gauge.
func (s *MemStore) publishTotals() {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.boards)
		sh.mu.RUnlock()
	}
	metrics.UpdateRepositoryReportsTotal(total)
}
