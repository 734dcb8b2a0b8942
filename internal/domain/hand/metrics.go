package hand

import (
	"fmt"
	"sort"
	"strings"
)

// hcpValues maps honor ranks to Milton Work point counts.
var hcpValues = map[byte]int{'A': 4, 'K': 3, 'Q': 2, 'J': 1}

// Distribution point values for short suits (suit-contract context only).
const (
	voidPoints      = 3
	singletonPoints = 2
	doubletonPoints = 1
)

// Metrics holds every per-hand derived value. All fields are pure functions
// of the parsed hand.
type Metrics struct {
	HCP         int             `json:"hcp"`
	ShapeSHDC   [NumSuits]int   `json:"shape_shdc"`
	ShapeSorted [NumSuits]int   `json:"shape_sorted"`
	Balanced    bool            `json:"balanced"`
	DistPoints  int             `json:"dist_points"`
	Controls    int             `json:"controls"`
	Aces        int             `json:"aces"`
	Kings       int             `json:"kings"`
	LTCAdj      float64         `json:"ltc_adj"`
}

// Evaluate derives the full metric set for a parsed hand.
func Evaluate(h Hand) Metrics {
	m := Metrics{
		ShapeSHDC: h.Lengths(),
		LTCAdj:    LTCAdjusted(h),
	}

	for s := Spades; s <= Clubs; s++ {
		ranks := h.Suit(s)
		for i := 0; i < len(ranks); i++ {
			m.HCP += hcpValues[ranks[i]]
		}
		// Controls count A and K at most once per suit; the storage format
		// holds one card per rank per suit.
		if strings.ContainsRune(ranks, 'A') {
			m.Aces++
			m.Controls += 2
		}
		if strings.ContainsRune(ranks, 'K') {
			m.Kings++
			m.Controls++
		}
		switch len(ranks) {
		case 0:
			m.DistPoints += voidPoints
		case 1:
			m.DistPoints += singletonPoints
		case 2:
			m.DistPoints += doubletonPoints
		}
	}

	m.ShapeSorted = m.ShapeSHDC
	sort.Sort(sort.Reverse(sort.IntSlice(m.ShapeSorted[:])))
	m.Balanced = isBalanced(m.ShapeSorted)

	return m
}

// isBalanced treats 4-3-3-3, 4-4-3-2 and 5-3-3-2 as balanced.
func isBalanced(sorted [NumSuits]int) bool {
	switch sorted {
	case [NumSuits]int{4, 3, 3, 3}, [NumSuits]int{4, 4, 3, 2}, [NumSuits]int{5, 3, 3, 2}:
		return true
	}
	return false
}

// ShapeString renders a shape as "5-4-3-1".
func ShapeString(shape [NumSuits]int) string {
	parts := make([]string, NumSuits)
	for i, l := range shape {
		parts[i] = fmt.Sprintf("%d", l)
	}
	return strings.Join(parts, "-")
}
