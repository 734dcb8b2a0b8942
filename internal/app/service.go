// Package service provides the core analysis service that implements the
// dependencies required by the HTTP API: batch orchestration over the board
// and side pipelines plus read access to the resulting reports.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	groupqueue "github.com/madsvk/boardfield/internal/adapters/mq/queue"
	workerpool "github.com/madsvk/boardfield/internal/adapters/mq/worker"
	"github.com/madsvk/boardfield/internal/adapters/repository"
	"github.com/madsvk/boardfield/internal/domain/dedupe"
	"github.com/madsvk/boardfield/internal/domain/deal"
	"github.com/madsvk/boardfield/internal/domain/field"
	"github.com/madsvk/boardfield/internal/domain/hand"
	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/side"
	"github.com/madsvk/boardfield/internal/domain/types"
	"github.com/madsvk/boardfield/pkg/logger"
	"github.com/madsvk/boardfield/pkg/metrics"
)

// Diagnostic stage names for the side pipeline.
const (
	stageHandParse     = "hand_parse"
	stageDealIntegrity = "deal_integrity"
	stageSideMetrics   = "side_metrics"
)

// Report summarizes one analysis run.
type Report struct {
	RunID       string        `json:"run_id"`
	Boards      int           `json:"boards"`
	Sides       int           `json:"sides"`
	Diagnostics int           `json:"diagnostics"`
	Duration    time.Duration `json:"duration"`
}

// Service implements the API dependencies for the board analysis system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	refLayer   *field.Layer
	classifier *field.Classifier
	sideCalc   *side.Calculator
	rules      workerpool.Rules

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	shardCount     int
	maxBoardsLimit int
	minSample      int
	suitIndexBase  float64
	classifierOpts []field.ClassifierOption

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of classification workers per batch.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the group job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the ingest deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of report store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMaxBoardsLimit caps the board report listing.
func WithMaxBoardsLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxBoardsLimit = limit
		}
	}
}

// WithMinSample sets the reference cascade minimum sample.
func WithMinSample(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minSample = n
		}
	}
}

// WithSuitIndexBase sets the suit-index calibration base.
func WithSuitIndexBase(base float64) Option {
	return func(s *Service) {
		if base > 0 {
			s.suitIndexBase = base
		}
	}
}

// WithClassifierOptions forwards calibration options to the board classifier.
func WithClassifierOptions(opts ...field.ClassifierOption) Option {
	return func(s *Service) {
		s.classifierOpts = append(s.classifierOpts, opts...)
	}
}

// WithRules overrides the per-record assessment rules.
func WithRules(rules workerpool.Rules) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      10_000,
		dedupeSize:     500_000,
		shardCount:     8,
		maxBoardsLimit: 100,
		minSample:      field.DefaultMinSample,
		suitIndexBase:  side.DefaultSuitIndexBase,
		rules:          workerpool.DefaultRules(),
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting board analysis service...")

	s.store = repository.NewMemStore(
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.refLayer = field.NewLayer(
		field.WithMinSample(s.minSample),
	)
	s.classifier = field.NewClassifier(s.classifierOpts...)
	s.sideCalc = side.NewCalculator(
		side.WithSuitIndexBase(s.suitIndexBase),
	)

	s.started = true
	s.logger.Info(ctx, "board analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("minSample", s.minSample),
	)

	return nil
}

// Stop shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping board analysis service...")
	s.started = false
	s.logger.Info(context.Background(), "board analysis service stopped")
}

// Deduper exposes the ingest dedupe guard so snapshot readers share it.
func (s *Service) Deduper() dedupe.Deduper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deduper
}

// Analyze runs both pipelines over one snapshot and returns the run summary.
// Earlier reports are discarded; an analysis run is a pure function of its
// snapshot plus calibration.
func (s *Service) Analyze(ctx context.Context, records []model.BoardResult) (*Report, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, fmt.Errorf("service not started")
	}

	runID := uuid.NewString()
	start := time.Now()
	s.logger.Info(ctx, "analysis run starting",
		logger.String("runID", runID),
		logger.Int("records", len(records)),
	)

	s.store.Reset(ctx)

	s.runSidePipeline(ctx, records)
	if err := s.runBoardPipeline(ctx, runID, records); err != nil {
		return nil, err
	}

	boards, sides, diags := s.store.Counts(ctx)
	metrics.UpdateTotalBoards(boards)
	elapsed := time.Since(start)
	metrics.RecordBatchDuration(float64(elapsed.Milliseconds()))

	s.logger.Info(ctx, "analysis run finished",
		logger.String("runID", runID),
		logger.Int("boards", boards),
		logger.Int("sides", sides),
		logger.Int("diagnostics", diags),
		logger.Duration("elapsed", elapsed),
	)

	return &Report{
		RunID:       runID,
		Boards:      boards,
		Sides:       sides,
		Diagnostics: diags,
		Duration:    elapsed,
	}, nil
}

// runSidePipeline derives per-record side reports for every record that
// publishes all four hands. Failures become diagnostics.
func (s *Service) runSidePipeline(ctx context.Context, records []model.BoardResult) {
	for i := range records {
		r := &records[i]
		if !r.HasDeal() {
			continue
		}

		report, stage, err := s.sideReport(r)
		if err != nil {
			s.diagnose(ctx, r, stage, err)
			continue
		}
		if err := s.store.PutSideReport(ctx, report); err != nil {
			s.logger.Error(ctx, "side report write failed", logger.Error(err))
			continue
		}
		metrics.RecordSideReport()
	}
}

// sideReport runs the hand pipeline for one record: parse the deal, validate
// its integrity, evaluate each hand and combine partnerships.
func (s *Service) sideReport(r *model.BoardResult) (types.SideReport, string, error) {
	d, err := deal.Parse(r)
	if err != nil {
		metrics.RecordHandParseError()
		return types.SideReport{}, stageHandParse, err
	}
	if err := d.Validate(); err != nil {
		metrics.RecordDealIntegrityFailure()
		return types.SideReport{}, stageDealIntegrity, err
	}

	seats := make([]types.SeatMetrics, 0, 4)
	byDir := make(map[model.Direction]hand.Metrics, 4)
	for _, dir := range []model.Direction{model.North, model.East, model.South, model.West} {
		m := hand.Evaluate(d.Hand(dir))
		byDir[dir] = m
		seats = append(seats, types.SeatMetrics{Direction: dir, Metrics: m})
	}

	ns := side.Combine(byDir[model.North], byDir[model.South])
	ew := side.Combine(byDir[model.East], byDir[model.West])

	report := types.SideReport{
		Key:    r.Group(),
		PairNS: r.PairNS,
		PairEW: r.PairEW,
		Seats:  seats,
		NS:     ns,
		EW:     ew,
	}

	if r.Declarer != "" {
		if !r.Declarer.Valid() {
			metrics.RecordMissingDataError()
			return types.SideReport{}, stageSideMetrics, &side.MissingDataError{Field: "declarer"}
		}
		declSide := model.SideOf(r.Declarer)
		report.DeclarerSide = declSide
		if declSide == model.SideNS {
			report.Differential = s.sideCalc.Differential(ns, ew)
		} else {
			report.Differential = s.sideCalc.Differential(ew, ns)
		}
	}

	return report, "", nil
}

// runBoardPipeline fans board groups out over an ephemeral queue and worker
// pool, then waits for the whole batch to drain.
func (s *Service) runBoardPipeline(ctx context.Context, runID string, records []model.BoardResult) error {
	played := field.Played(records)
	ix := field.NewIndex(played)

	// Group every record, played or not; a group with no usable results
	// still classifies (as LOW_SAMPLE) so its records get assessed.
	groups := make(map[model.GroupKey][]model.BoardResult)
	for _, r := range records {
		groups[r.Group()] = append(groups[r.Group()], r)
	}

	q := groupqueue.NewInMemoryQueue(
		groupqueue.WithCapacity(s.queueSize),
		groupqueue.WithBufferSize(s.queueSize),
	)
	pool := workerpool.NewPool(s.workerCount, q, s.classifier, s.store, workerpool.WithRules(s.rules))
	pool.Start(ctx)

	for key, groupRecords := range groups {
		job := groupqueue.Job{
			RunID:        runID,
			Key:          key,
			Stats:        s.refLayer.Resolve(ix, key),
			GroupRecords: groupRecords,
		}
		if !q.Enqueue(ctx, job) {
			_ = q.Close()
			_ = pool.Shutdown(ctx)
			return fmt.Errorf("enqueue board group %s/%d/%s failed", key.TournamentDate, key.BoardNo, key.Section)
		}
	}

	// Closing the queue lets workers drain the backlog and exit; Shutdown
	// waits for them, so every report is written before Analyze returns.
	return pool.Shutdown(ctx)
}

// diagnose files one per-record failure.
func (s *Service) diagnose(ctx context.Context, r *model.BoardResult, stage string, err error) {
	metrics.RecordSidePipelineError()
	diag := types.Diagnostic{
		ID:      fmt.Sprintf("%s|%d|%s|%s", r.TournamentDate, r.BoardNo, r.Section, r.PairNS),
		Key:     r.Group(),
		Stage:   stage,
		Message: err.Error(),
	}
	if err := s.store.PutDiagnostic(ctx, diag); err != nil {
		s.logger.Error(ctx, "diagnostic write failed", logger.Error(err))
	}
	s.logger.Warn(ctx, "record skipped",
		logger.String("stage", stage),
		logger.Int("board", r.BoardNo),
		logger.String("section", r.Section),
		logger.Error(err),
	)
}

// BoardReports returns up to limit board reports; limit is clamped to the
// configured maximum.
func (s *Service) BoardReports(ctx context.Context, limit int) ([]types.BoardReport, error) {
	if limit <= 0 || limit > s.maxBoardsLimit {
		limit = s.maxBoardsLimit
	}
	return s.store.BoardReports(ctx, limit)
}

// BoardReport returns the report for one group.
func (s *Service) BoardReport(ctx context.Context, key model.GroupKey) (types.BoardReport, error) {
	return s.store.BoardReport(ctx, key)
}

// SideReports returns the side reports for one group.
func (s *Service) SideReports(ctx context.Context, key model.GroupKey) ([]types.SideReport, error) {
	return s.store.SideReports(ctx, key)
}

// Diagnostics returns all per-record failures of the last run.
func (s *Service) Diagnostics(ctx context.Context) ([]types.Diagnostic, error) {
	return s.store.Diagnostics(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"minSample":   s.minSample,
	}

	if s.started {
		boards, sides, diags := s.store.Counts(ctx)
		stats["boards"] = boards
		stats["sides"] = sides
		stats["diagnostics"] = diags

		metrics.UpdateTotalBoards(boards)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
