// Package dedupe guards ingest against duplicate result rows. Scrapes of
// overlapping tournament pages hand the same row to the reader more than
// once; the guard keeps the first occurrence.
package dedupe

import (
	"context"
	"sync"
)

// Default size bound for the seen set.
const defaultMaxSize = 500_000

// Deduper records seen record keys so each row is ingested at most once.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records it
	// if not. Returns true when key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Size returns the number of recorded keys.
	Size() int
}

// inMemoryDeduper implements Deduper with a bounded map. A batch snapshot is
// finite, so bounded insertion order eviction is enough; once the cap is hit
// further keys pass through unrecorded rather than evicting earlier ones.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	maxSize int
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

// SeenAndRecord atomically checks and records one key.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		return false
	}
	d.seen[key] = struct{}{}
	return false
}

// Size returns the number of recorded keys.
func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
