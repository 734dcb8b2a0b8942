package ingest

import "github.com/madsvk/boardfield/internal/domain/dedupe"

// Option applies a configuration option to a snapshot reader.
type Option interface {
	applyCSV(*CSVReader)
	applyJSONL(*JSONLReader)
}

type deduperOption struct {
	deduper dedupe.Deduper
}

func (o deduperOption) applyCSV(r *CSVReader)     { r.deduper = o.deduper }
func (o deduperOption) applyJSONL(r *JSONLReader) { r.deduper = o.deduper }

// WithDeduper guards the reader against duplicate rows. Without it every row
// passes through.
func WithDeduper(d dedupe.Deduper) Option {
	return deduperOption{deduper: d}
}
