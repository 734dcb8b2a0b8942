// Package side combines two partner hands into partnership metrics and
// derives the declarer-vs-defense contract differentials.
package side

import (
	"github.com/madsvk/boardfield/internal/domain/hand"
)

// Metrics holds the combined values of a partnership. Every field is a pure
// function of the two partner hands.
type Metrics struct {
	HCP           int                `json:"hcp"`
	LTCAdj        float64            `json:"ltc_adj"`
	Controls      int                `json:"controls"`
	Aces          int                `json:"aces"`
	Kings         int                `json:"kings"`
	CombinedShape [hand.NumSuits]int `json:"combined_shape"` // elementwise SHDC sum, entries in [0,26]
}

// Combine aggregates two partner hand metric sets.
func Combine(a, b hand.Metrics) Metrics {
	m := Metrics{
		HCP:      a.HCP + b.HCP,
		LTCAdj:   a.LTCAdj + b.LTCAdj,
		Controls: a.Controls + b.Controls,
		Aces:     a.Aces + b.Aces,
		Kings:    a.Kings + b.Kings,
	}
	for i := range m.CombinedShape {
		m.CombinedShape[i] = a.ShapeSHDC[i] + b.ShapeSHDC[i]
	}
	return m
}
