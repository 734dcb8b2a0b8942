// Package field implements the field-reference and board-classification
// engine: the PLAYED status filter, the SECTION -> CLUB -> LOW_SAMPLE
// reference cascade, and the board-type classifier with its parameterized
// contract-class and defense rules.
package field

import "github.com/madsvk/boardfield/internal/domain/model"

// Played returns the records eligible for field aggregates: result status
// PLAYED with a numeric pct present. SITOUT and NOT_PLAYED_AVERAGE records
// stay in the dataset but never contribute to counts, sums or averages.
// Exclusion here is a defined outcome, not an error.
func Played(records []model.BoardResult) []model.BoardResult {
	out := make([]model.BoardResult, 0, len(records))
	for _, r := range records {
		if r.Status == model.StatusPlayed && r.Pct != nil {
			out = append(out, r)
		}
	}
	return out
}
