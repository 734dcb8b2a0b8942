// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the result snapshot to analyze on startup.
	// Empty means no startup ingest; data arrives via later batches.
	DatasetPath string `koanf:"dataset_path"`

	// DatasetFormat selects the snapshot reader: csv or jsonl.
	DatasetFormat string `koanf:"dataset_format"`

	// QueueSize bounds the in-memory board group job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of classification workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the ingest deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the report store.
	ShardCount int `koanf:"shard_count"`

	// MaxBoardsLimit caps GET /boards?limit.
	MaxBoardsLimit int `koanf:"max_boards_limit"`

	// MinSample is the minimum played count for a reference set to be
	// considered statistically usable.
	MinSample int `koanf:"min_sample"`

	// SuitIndexBase is the constant the declarer losing trick count is
	// subtracted from when computing the suit index.
	SuitIndexBase float64 `koanf:"suit_index_base"`

	// DominantShare is the top contract share at or above which a board
	// is Dominant.
	DominantShare float64 `koanf:"dominant_share"`

	// SplitCombinedShare and SplitSecondShare gate the Split board type:
	// top-two combined share and second contract share respectively.
	SplitCombinedShare float64 `koanf:"split_combined_share"`
	SplitSecondShare   float64 `koanf:"split_second_share"`

	// ModeMinCount is the minimum mode contract count for the expected
	// percentage to be taken from mode records rather than the whole
	// reference set.
	ModeMinCount int `koanf:"mode_min_count"`

	// StandardMinShare is the minimum field share for a contract to be
	// called Standard.
	StandardMinShare float64 `koanf:"standard_min_share"`

	// DefenseOverMargin and DefenseUnderMargin are the percentage point
	// margins around the expected score for defense assessment.
	DefenseOverMargin  float64 `koanf:"defense_over_margin"`
	DefenseUnderMargin float64 `koanf:"defense_under_margin"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		DatasetPath:        "",
		DatasetFormat:      "csv",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		DedupeSize:         500_000,
		ShardCount:         8,
		MaxBoardsLimit:     100,
		MinSample:          12,
		SuitIndexBase:      24.0,
		DominantShare:      0.70,
		SplitCombinedShare: 0.80,
		SplitSecondShare:   0.25,
		ModeMinCount:       3,
		StandardMinShare:   0.20,
		DefenseOverMargin:  5.0,
		DefenseUnderMargin: 5.0,
	}
	return c
}
