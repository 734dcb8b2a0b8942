package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/madsvk/boardfield/internal/adapters/http/api"
	"github.com/madsvk/boardfield/internal/adapters/ingest"
	workerpool "github.com/madsvk/boardfield/internal/adapters/mq/worker"
	service "github.com/madsvk/boardfield/internal/app"
	"github.com/madsvk/boardfield/internal/config"
	"github.com/madsvk/boardfield/internal/domain/field"
	"github.com/madsvk/boardfield/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the custom registry carries
	// only analysis metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.New(
		service.WithLogger(loggerInstance),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithShardCount(cfg.ShardCount),
		service.WithMaxBoardsLimit(cfg.MaxBoardsLimit),
		service.WithMinSample(cfg.MinSample),
		service.WithSuitIndexBase(cfg.SuitIndexBase),
		service.WithClassifierOptions(
			field.WithDominantShare(cfg.DominantShare),
			field.WithSplitShares(cfg.SplitCombinedShare, cfg.SplitSecondShare),
			field.WithModeMinCount(cfg.ModeMinCount),
		),
		service.WithRules(workerpool.Rules{
			Contract: field.ContractClassRule{StandardMinShare: cfg.StandardMinShare},
			Defense:  field.DefenseRule{OverMargin: cfg.DefenseOverMargin, UnderMargin: cfg.DefenseUnderMargin},
		}),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Analyze the configured snapshot before serving queries.
	if cfg.DatasetPath != "" {
		if err := analyzeDataset(ctx, svc, cfg); err != nil {
			loggerInstance.Error(ctx, "startup dataset analysis failed", logger.String("path", cfg.DatasetPath), logger.Error(err))
			return
		}
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxBoardsLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// analyzeDataset ingests the configured snapshot and runs one analysis batch.
func analyzeDataset(ctx context.Context, svc *service.Service, cfg *config.Config) error {
	loggerInstance := logger.Get()

	f, err := os.Open(cfg.DatasetPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader ingest.Reader
	switch cfg.DatasetFormat {
	case "jsonl":
		reader = ingest.NewJSONLReader(f, ingest.WithDeduper(svc.Deduper()))
	default:
		reader = ingest.NewCSVReader(f, ingest.WithDeduper(svc.Deduper()))
	}

	records, diags, err := reader.Read(ctx)
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		loggerInstance.Warn(ctx, "snapshot rows rejected during ingest", logger.Int("rejected", len(diags)))
	}

	report, err := svc.Analyze(ctx, records)
	if err != nil {
		return err
	}
	loggerInstance.Info(ctx, "snapshot analyzed",
		logger.String("run_id", report.RunID),
		logger.Int("records", len(records)),
		logger.Int("boards", report.Boards),
		logger.Int("sides", report.Sides),
		logger.Int("diagnostics", report.Diagnostics),
		logger.Duration("duration", report.Duration),
	)
	return nil
}
