package side

import (
	"errors"
	"fmt"
)

// DefaultSuitIndexBase is the calibration base for Suit_Index. The value 24
// has no stated derivation in the source material; it is kept as a named,
// overridable constant rather than buried in the arithmetic.
const DefaultSuitIndexBase = 24.0

// ErrMissingData marks a metric request that needs a field absent from the
// record (e.g. a differential without both sides' hands).
var ErrMissingData = errors.New("missing data")

// MissingDataError wraps ErrMissingData with the field that was absent.
type MissingDataError struct {
	Field string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing data: %s", e.Field)
}

func (e *MissingDataError) Unwrap() error {
	return ErrMissingData
}

// Differential holds the declarer-vs-defense comparison for one record.
//
// LTC_diff subtracts in the opposite order from HCP_diff because a lower
// loser count is the stronger holding; both diffs are positive when they
// favor the declaring side. NT_Index v1 is declarer HCP only, a documented
// placeholder pending shape/stopper refinement.
type Differential struct {
	DeclarerHCP int     `json:"declarer_hcp"`
	DefenseHCP  int     `json:"defense_hcp"`
	HCPDiff     int     `json:"hcp_diff"`
	DeclarerLTC float64 `json:"declarer_ltc"`
	DefenseLTC  float64 `json:"defense_ltc"`
	LTCDiff     float64 `json:"ltc_diff"`
	SuitIndex   float64 `json:"suit_index"`
	NTIndex     float64 `json:"nt_index"`
}

// Calculator derives contract differentials. The suit-index base is
// configurable without touching the formulas.
type Calculator struct {
	suitIndexBase float64
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithSuitIndexBase overrides the Suit_Index calibration base.
func WithSuitIndexBase(base float64) Option {
	return func(c *Calculator) {
		if base > 0 {
			c.suitIndexBase = base
		}
	}
}

// NewCalculator creates a Calculator with the default calibration.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{suitIndexBase: DefaultSuitIndexBase}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Differential compares the declaring side against the defense.
func (c *Calculator) Differential(declarer, defense Metrics) Differential {
	return Differential{
		DeclarerHCP: declarer.HCP,
		DefenseHCP:  defense.HCP,
		HCPDiff:     declarer.HCP - defense.HCP,
		DeclarerLTC: declarer.LTCAdj,
		DefenseLTC:  defense.LTCAdj,
		LTCDiff:     defense.LTCAdj - declarer.LTCAdj,
		SuitIndex:   c.suitIndexBase - declarer.LTCAdj,
		NTIndex:     float64(declarer.HCP),
	}
}
