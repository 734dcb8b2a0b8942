package hand

import "strings"

// Adjusted losing-trick count, per suit:
//
//	base = min(3, length)
//	A present: -1
//	K present: -1 if length >= 2, -0.5 if singleton
//	Q present: -1 if length >= 3, -0.5 if doubleton, 0 otherwise
//	clamp to [0, 3]
//
// Half-losers (singleton K, Qx) make the result fractional. The hand total
// therefore lives in [0, 12] in steps of 0.5.

const maxSuitLosers = 3.0

// SuitLTC returns the clamped adjusted loser count for one suit holding.
func SuitLTC(ranks string) float64 {
	length := len(ranks)
	if length == 0 {
		return 0
	}

	losers := maxSuitLosers
	if length < int(maxSuitLosers) {
		losers = float64(length)
	}

	if strings.ContainsRune(ranks, 'A') {
		losers--
	}
	if strings.ContainsRune(ranks, 'K') {
		if length >= 2 {
			losers--
		} else {
			losers -= 0.5
		}
	}
	if strings.ContainsRune(ranks, 'Q') {
		switch {
		case length >= 3:
			losers--
		case length == 2:
			losers -= 0.5
		}
	}

	if losers < 0 {
		return 0
	}
	if losers > maxSuitLosers {
		return maxSuitLosers
	}
	return losers
}

// LTCAdjusted sums the clamped per-suit losers over the whole hand.
func LTCAdjusted(h Hand) float64 {
	total := 0.0
	for s := Spades; s <= Clubs; s++ {
		total += SuitLTC(h.Suit(s))
	}
	return total
}
