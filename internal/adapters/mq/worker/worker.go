// Package worker defines worker contracts for asynchronous board
// classification and report writes.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/madsvk/boardfield/internal/adapters/mq/queue"
	"github.com/madsvk/boardfield/internal/domain/field"
	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/types"
	"github.com/madsvk/boardfield/pkg/logger"
	"github.com/madsvk/boardfield/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Classifier turns resolved reference stats into a board classification.
type Classifier interface {
	Classify(st field.Stats) field.Classification
}

// ReportWriter persists finished board reports.
type ReportWriter interface {
	PutBoardReport(ctx context.Context, report types.BoardReport) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes board-group jobs and writes reports using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining jobs before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for classifying board groups.
type InMemoryWorker struct {
	queue      Queue
	classifier Classifier
	writer     ReportWriter
	rules      Rules
	name       string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// Rules bundles the per-record assessment rules applied after
// classification.
type Rules struct {
	Contract field.ContractClassRule
	Defense  field.DefenseRule
}

// DefaultRules returns the default rule calibration.
func DefaultRules() Rules {
	return Rules{
		Contract: field.ContractClassRule{StandardMinShare: field.DefaultStandardMinShare},
		Defense: field.DefenseRule{
			OverMargin:  field.DefaultDefenseOverMargin,
			UnderMargin: field.DefaultDefenseUnderMargin,
		},
	}
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, classifier Classifier, writer ReportWriter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		classifier: classifier,
		writer:     writer,
		rules:      DefaultRules(),
		name:       "worker", // default name
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Process the job
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob classifies one board group and writes its report.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	classifyStart := time.Now()
	cls := w.classifier.Classify(job.Stats)
	metrics.RecordClassifyLatency(float64(time.Since(classifyStart).Microseconds()) / 1000.0)

	metrics.RecordBoardClassified(string(cls.BoardType))
	metrics.RecordReferenceScope(string(cls.Scope))

	report := types.BoardReport{
		Key:            job.Key,
		Classification: cls,
		Records:        w.assessRecords(job, cls),
	}

	if err := w.writer.PutBoardReport(ctx, report); err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "report write failed",
			logger.String("date", job.Key.TournamentDate),
			logger.Int("board", job.Key.BoardNo),
			logger.Error(err),
		)
		return fmt.Errorf("write report for board %d: %w", job.Key.BoardNo, err)
	}

	return nil
}

// assessRecords labels each of the group's own records against the
// classification.
func (w *InMemoryWorker) assessRecords(job Job, cls field.Classification) []types.RecordAssessment {
	assessments := make([]types.RecordAssessment, 0, len(job.GroupRecords))
	for _, r := range job.GroupRecords {
		norm, double := model.NormalizeContract(r.Contract)
		class, aggr := w.rules.Contract.Classify(r.Contract, cls)

		a := types.RecordAssessment{
			PairNS:        r.PairNS,
			PairEW:        r.PairEW,
			Contract:      r.Contract,
			ContractNorm:  norm,
			DoubleState:   double,
			Pct:           r.Pct,
			ContractClass: class,
			Aggression:    aggr,
		}

		if verdict, ok := w.rules.Defense.Assess(r.Pct, cls.ExpectedPct); ok {
			a.DefensePerformance = verdict
			delta := *r.Pct - *cls.ExpectedPct
			a.PctVsExpected = &delta
		}

		assessments = append(assessments, a)
	}
	return assessments
}

// Pool manages multiple workers.
type Pool struct {
	workers    []*InMemoryWorker
	queue      Queue
	classifier Classifier
	writer     ReportWriter

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, classifier Classifier, writer ReportWriter, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:    make([]*InMemoryWorker, workerCount),
		queue:      queue,
		classifier: classifier,
		writer:     writer,
		shutdown:   make(chan struct{}),
		logger:     logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		named := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(queue, classifier, writer, named...)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	// Signal shutdown to all workers
	close(p.shutdown)

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Signal shutdown to all workers
	close(p.shutdown)

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
