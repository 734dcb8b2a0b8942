// Package worker defines worker contracts for asynchronous board
// classification and report writes.
package worker

import (
	"github.com/madsvk/boardfield/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithRules overrides the per-record assessment rules.
func WithRules(rules Rules) Option {
	return func(w *InMemoryWorker) {
		w.rules = rules
	}
}
