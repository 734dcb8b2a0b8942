// Package hand parses dot-format bridge hands and derives the deterministic
// strength metrics used by the side and differential layers.
//
// The storage format is "S.H.D.C", each segment a concatenation of rank
// characters (A,K,Q,J,T,9..2), empty segment for a void:
//
//	"AKT7.QJ3.984.AK2"
//	"T9875.983.Q.AQ74"
package hand

import (
	"fmt"
	"strings"
)

// Suit indexes a hand's suit in fixed S,H,D,C order.
type Suit int

// Suits in storage order.
const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// NumSuits is the number of suits in a hand.
const NumSuits = 4

// HandSize is the number of cards a complete hand holds.
const HandSize = 13

var suitNames = [NumSuits]string{"S", "H", "D", "C"}

// String returns the one-letter suit name.
func (s Suit) String() string {
	if s < Spades || s > Clubs {
		return "?"
	}
	return suitNames[s]
}

// validRanks is the closed rank alphabet of the normalized storage format.
const validRanks = "AKQJT98765432"

// ParseError describes a malformed dot-format hand string. Parse failures are
// scoped to the single record carrying the hand; they never abort a batch.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse hand %q: %s", e.Input, e.Reason)
}

// Hand is a parsed, immutable hand: four ordered rank sequences.
type Hand struct {
	suits [NumSuits]string
}

// Parse parses a dot-format hand string. It fails when the segment count is
// not 4, an invalid rank character appears, or the total card count is not 13.
func Parse(dot string) (Hand, error) {
	trimmed := strings.TrimSpace(dot)
	parts := strings.Split(trimmed, ".")
	if len(parts) != NumSuits {
		return Hand{}, &ParseError{Input: dot, Reason: fmt.Sprintf("expected 4 suit segments, got %d", len(parts))}
	}

	var h Hand
	total := 0
	for i, p := range parts {
		for _, r := range p {
			if !strings.ContainsRune(validRanks, r) {
				return Hand{}, &ParseError{Input: dot, Reason: fmt.Sprintf("invalid rank character %q in %s", r, Suit(i))}
			}
		}
		h.suits[i] = p
		total += len(p)
	}
	if total != HandSize {
		return Hand{}, &ParseError{Input: dot, Reason: fmt.Sprintf("expected 13 cards, got %d", total)}
	}
	return h, nil
}

// Suit returns the rank sequence held in s.
func (h Hand) Suit(s Suit) string {
	return h.suits[s]
}

// Length returns the number of cards held in s.
func (h Hand) Length(s Suit) int {
	return len(h.suits[s])
}

// Lengths returns the suit lengths in fixed S,H,D,C order.
func (h Hand) Lengths() [NumSuits]int {
	var l [NumSuits]int
	for i := range h.suits {
		l[i] = len(h.suits[i])
	}
	return l
}

// Dot renders the hand back in storage format.
func (h Hand) Dot() string {
	return strings.Join(h.suits[:], ".")
}
