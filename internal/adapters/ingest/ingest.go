// Package ingest reads scraped result snapshots into board records. Rows
// arrive as CSV or JSON-lines exports; a malformed row becomes a diagnostic,
// never an aborted batch.
package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/madsvk/boardfield/internal/domain/dedupe"
	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/types"
	"github.com/madsvk/boardfield/pkg/metrics"
)

// Stage names attached to ingest diagnostics.
const (
	stageIngest = "ingest"
)

// Reader materializes one snapshot of board records.
type Reader interface {
	// Read consumes the whole source. Row-level failures are returned as
	// diagnostics alongside the good records; the error is reserved for
	// source-level failures (unreadable stream, bad header).
	Read(ctx context.Context) ([]model.BoardResult, []types.Diagnostic, error)
}

// recordKey builds the dedupe identity of one row. Two rows describing the
// same pairing on the same board are the same result.
func recordKey(r *model.BoardResult) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s", r.TournamentDate, r.BoardNo, r.Section, r.PairNS, r.PairEW)
}

// intake funnels validated rows through the dedupe guard and shared
// bookkeeping for both readers.
type intake struct {
	deduper dedupe.Deduper

	records []model.BoardResult
	diags   []types.Diagnostic
}

func newIntake(deduper dedupe.Deduper) *intake {
	return &intake{deduper: deduper}
}

// accept validates one materialized row and files it.
func (in *intake) accept(ctx context.Context, row int, r model.BoardResult) {
	if err := validate(&r); err != nil {
		in.reject(row, r.Group(), err.Error())
		return
	}
	if in.deduper != nil && in.deduper.SeenAndRecord(ctx, recordKey(&r)) {
		metrics.RecordDuplicate()
		return
	}
	metrics.RecordIngested()
	in.records = append(in.records, r)
}

func (in *intake) reject(row int, key model.GroupKey, msg string) {
	metrics.RecordRejected()
	in.diags = append(in.diags, types.Diagnostic{
		ID:      fmt.Sprintf("row-%d", row),
		Key:     key,
		Stage:   stageIngest,
		Message: msg,
	})
}

// validate checks the fields every downstream stage relies on.
func validate(r *model.BoardResult) error {
	switch {
	case r.TournamentDate == "":
		return fmt.Errorf("missing tournament_date")
	case r.BoardNo <= 0:
		return fmt.Errorf("board_no %d out of range", r.BoardNo)
	case r.Section == "":
		return fmt.Errorf("missing section")
	case !r.Status.Valid():
		return fmt.Errorf("unknown result_status_code %q", string(r.Status))
	case r.Declarer != "" && !r.Declarer.Valid():
		return fmt.Errorf("unknown declarer %q", string(r.Declarer))
	}
	return nil
}

// CSVReader reads a header-mapped CSV export.
type CSVReader struct {
	src     io.Reader
	deduper dedupe.Deduper
}

// NewCSVReader creates a CSV snapshot reader.
func NewCSVReader(src io.Reader, opts ...Option) *CSVReader {
	r := &CSVReader{src: src}
	for _, opt := range opts {
		opt.applyCSV(r)
	}
	return r
}

// Read consumes the CSV stream. The first row must be a header naming at
// least the identity columns; unknown columns are ignored.
func (r *CSVReader) Read(ctx context.Context) ([]model.BoardResult, []types.Diagnostic, error) {
	cr := csv.NewReader(r.src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"tournament_date", "board_no", "section"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("csv header missing column %q", required)
		}
	}

	in := newIntake(r.deduper)
	for row := 1; ; row++ {
		fields, rerr := cr.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			in.reject(row, model.GroupKey{}, rerr.Error())
			continue
		}

		rec, perr := rowToRecord(cols, fields)
		if perr != nil {
			in.reject(row, rec.Group(), perr.Error())
			continue
		}
		in.accept(ctx, row, rec)
	}
	return in.records, in.diags, nil
}

// cell returns a named column's value, or "" when the column is absent or
// the row is short.
func cell(cols map[string]int, fields []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// rowToRecord maps one CSV row onto a board record. The returned record is
// partially filled even on error so the diagnostic can carry its key.
func rowToRecord(cols map[string]int, fields []string) (model.BoardResult, error) {
	rec := model.BoardResult{
		TournamentDate: cell(cols, fields, "tournament_date"),
		Section:        cell(cols, fields, "section"),
		ClubID:         cell(cols, fields, "club_id"),
		PairNS:         cell(cols, fields, "pair_ns"),
		PairEW:         cell(cols, fields, "pair_ew"),
		Contract:       cell(cols, fields, "contract"),
		Declarer:       model.Direction(cell(cols, fields, "declarer")),
		Status:         model.ResultStatus(cell(cols, fields, "result_status_code")),
		HandN:          cell(cols, fields, "hand_n"),
		HandE:          cell(cols, fields, "hand_e"),
		HandS:          cell(cols, fields, "hand_s"),
		HandW:          cell(cols, fields, "hand_w"),
	}

	if raw := cell(cols, fields, "board_no"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return rec, fmt.Errorf("board_no %q is not a number", raw)
		}
		rec.BoardNo = n
	}

	if raw := cell(cols, fields, "pct"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, fmt.Errorf("pct %q is not a number", raw)
		}
		rec.Pct = &p
	}

	return rec, nil
}

// JSONLReader reads a JSON-lines export, one board record per line.
type JSONLReader struct {
	src     io.Reader
	deduper dedupe.Deduper
}

// NewJSONLReader creates a JSON-lines snapshot reader.
func NewJSONLReader(src io.Reader, opts ...Option) *JSONLReader {
	r := &JSONLReader{src: src}
	for _, opt := range opts {
		opt.applyJSONL(r)
	}
	return r
}

// Read consumes the JSON-lines stream.
func (r *JSONLReader) Read(ctx context.Context) ([]model.BoardResult, []types.Diagnostic, error) {
	in := newIntake(r.deduper)

	dec := json.NewDecoder(r.src)
	for row := 1; ; row++ {
		var rec model.BoardResult
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			// A broken document poisons the rest of the stream.
			in.reject(row, model.GroupKey{}, err.Error())
			return in.records, in.diags, nil
		}
		in.accept(ctx, row, rec)
	}
	return in.records, in.diags, nil
}
