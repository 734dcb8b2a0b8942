// Package deal validates a complete four-hand deal before side metrics are
// derived from it. Failures are scoped to the single deal and surface as
// diagnostics; one corrupt deal never blocks the rest of a batch.
package deal

import (
	"fmt"

	"github.com/madsvk/boardfield/internal/domain/hand"
	"github.com/madsvk/boardfield/internal/domain/model"
)

// DeckHCP is the total high-card point count of a full deck.
const DeckHCP = 40

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// IntegrityError reports a deal-level inconsistency: a rank appearing twice
// across the four hands, or the deal's HCP not summing to 40.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "deal integrity: " + e.Reason
}

// Deal holds the four parsed hands of one board.
type Deal struct {
	hands map[model.Direction]hand.Hand
}

// seatOrder is the fixed iteration order for deterministic diagnostics.
var seatOrder = [4]model.Direction{model.North, model.East, model.South, model.West}

// Parse builds a Deal from the four dot-format hand strings on a record.
// The record must carry all four hands.
func Parse(r *model.BoardResult) (Deal, error) {
	hands := make(map[model.Direction]hand.Hand, 4)
	for _, dir := range seatOrder {
		dot := r.Hand(dir)
		h, err := hand.Parse(dot)
		if err != nil {
			return Deal{}, fmt.Errorf("seat %s: %w", dir, err)
		}
		hands[dir] = h
	}
	return Deal{hands: hands}, nil
}

// Hand returns the parsed hand for a seat.
func (d Deal) Hand(dir model.Direction) hand.Hand {
	return d.hands[dir]
}

// Validate checks the two deal invariants: 52 distinct cards across the four
// hands, and total HCP equal to 40. A full distinct deck implies 40 HCP, but
// both checks run so diagnostics name the actual violation.
func (d Deal) Validate() error {
	seen := make(map[string]model.Direction, DeckSize)
	totalHCP := 0

	for _, dir := range seatOrder {
		h := d.hands[dir]
		m := hand.Evaluate(h)
		totalHCP += m.HCP
		for s := hand.Spades; s <= hand.Clubs; s++ {
			ranks := h.Suit(s)
			for i := 0; i < len(ranks); i++ {
				card := s.String() + string(ranks[i])
				if prev, dup := seen[card]; dup {
					return &IntegrityError{Reason: fmt.Sprintf("card %s held by both %s and %s", card, prev, dir)}
				}
				seen[card] = dir
			}
		}
	}

	if len(seen) != DeckSize {
		return &IntegrityError{Reason: fmt.Sprintf("deal holds %d distinct cards, want %d", len(seen), DeckSize)}
	}
	if totalHCP != DeckHCP {
		return &IntegrityError{Reason: fmt.Sprintf("deal HCP sums to %d, want %d", totalHCP, DeckHCP)}
	}
	return nil
}
