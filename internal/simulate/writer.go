package simulate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/madsvk/boardfield/internal/domain/model"
)

// csvHeader matches the columns the CSV ingest reader maps by name.
var csvHeader = []string{
	"tournament_date", "board_no", "section", "club_id",
	"pair_ns", "pair_ew", "contract", "declarer", "result_status_code", "pct",
	"hand_n", "hand_e", "hand_s", "hand_w",
}

// WriteCSV renders records as a header-mapped CSV snapshot.
func WriteCSV(w io.Writer, records []model.BoardResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range records {
		r := &records[i]
		pct := ""
		if r.Pct != nil {
			pct = strconv.FormatFloat(*r.Pct, 'f', 2, 64)
		}
		row := []string{
			r.TournamentDate, strconv.Itoa(r.BoardNo), r.Section, r.ClubID,
			r.PairNS, r.PairEW, r.Contract, string(r.Declarer), string(r.Status), pct,
			r.HandN, r.HandE, r.HandS, r.HandW,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSONL renders records as a JSON-lines snapshot, one record per line.
func WriteJSONL(w io.Writer, records []model.BoardResult) error {
	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("write jsonl row %d: %w", i+1, err)
		}
	}
	return nil
}
