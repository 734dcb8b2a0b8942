package field

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/madsvk/boardfield/internal/domain/model"
)

// BoardType classifies a board's contract distribution.
type BoardType string

// Board types. LowSample overrides the frequency rules whenever the
// reference scope itself is LOW_SAMPLE.
const (
	BoardDominant  BoardType = "Dominant"
	BoardSplit     BoardType = "Split"
	BoardWild      BoardType = "Wild"
	BoardLowSample BoardType = "LOW_SAMPLE"
)

// Default classifier calibration. Shares are fractions of the reference
// sample size.
const (
	DefaultDominantShare      = 0.70
	DefaultSplitCombinedShare = 0.80
	DefaultSplitSecondShare   = 0.25
	DefaultModeMinCount       = 3
)

// Classification is the per-group output of the board classifier. It carries
// the reference audit trail alongside the derived labels; nothing in it is
// stored between runs.
type Classification struct {
	Key            model.GroupKey `json:"key"`
	Scope          Scope          `json:"reference_scope"`
	NSectionPlayed int            `json:"n_section_played"`
	NClubPlayed    int            `json:"n_club_played"`
	NPlayed        int            `json:"reference_n_played"`

	BoardType       BoardType `json:"board_type"`
	CompetitiveFlag bool      `json:"competitive_flag"`
	ExpectedPct     *float64  `json:"expected_pct,omitempty"`

	FieldModeContract string  `json:"field_mode_contract,omitempty"`
	FieldModeCount    int     `json:"field_mode_count"`
	FieldModeFreq     float64 `json:"field_mode_freq"`
	SecondContract    string  `json:"second_contract,omitempty"`
	SecondCount       int     `json:"second_count"`
	P1                float64 `json:"p1"`
	P2                float64 `json:"p2"`

	// ContractCounts maps contract_norm to its frequency in the reference
	// set; the contract-class rule reads shares from it.
	ContractCounts map[string]int `json:"-"`
}

// Classifier turns reference stats into a board classification. All
// thresholds are configurable; the evaluation order is not.
type Classifier struct {
	dominantShare      float64
	splitCombinedShare float64
	splitSecondShare   float64
	modeMinCount       int
}

// ClassifierOption applies a configuration option to the Classifier.
type ClassifierOption func(*Classifier)

// WithDominantShare overrides the Dominant p1 threshold.
func WithDominantShare(share float64) ClassifierOption {
	return func(c *Classifier) {
		if share > 0 {
			c.dominantShare = share
		}
	}
}

// WithSplitShares overrides the Split thresholds for p1+p2 and p2.
func WithSplitShares(combined, second float64) ClassifierOption {
	return func(c *Classifier) {
		if combined > 0 {
			c.splitCombinedShare = combined
		}
		if second > 0 {
			c.splitSecondShare = second
		}
	}
}

// WithModeMinCount overrides the minimum mode-contract occurrences required
// before expected_pct trusts the mode instead of the whole reference set.
func WithModeMinCount(n int) ClassifierOption {
	return func(c *Classifier) {
		if n > 0 {
			c.modeMinCount = n
		}
	}
}

// NewClassifier creates a classifier with the default calibration.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		dominantShare:      DefaultDominantShare,
		splitCombinedShare: DefaultSplitCombinedShare,
		splitSecondShare:   DefaultSplitSecondShare,
		modeMinCount:       DefaultModeMinCount,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// contractShare pairs a normalized contract with its reference-set count.
type contractShare struct {
	contract string
	count    int
}

// Classify derives the board type, mode-contract audit fields and
// expected_pct for one reference result. It is a pure function of its input:
// identical stats yield identical classifications.
func (c *Classifier) Classify(st Stats) Classification {
	cls := Classification{
		Key:            st.Key,
		Scope:          st.Scope,
		NSectionPlayed: st.NSectionPlayed,
		NClubPlayed:    st.NClubPlayed,
		NPlayed:        st.NPlayed,
		BoardType:      BoardLowSample,
	}

	counts := make(map[string]int, len(st.Records))
	for _, r := range st.Records {
		norm, _ := model.NormalizeContract(r.Contract)
		counts[norm]++
	}
	cls.ContractCounts = counts

	if len(counts) == 0 {
		// Empty reference set: nothing to rank, expected_pct stays absent.
		return cls
	}

	ranked := make([]contractShare, 0, len(counts))
	for contract, n := range counts {
		ranked = append(ranked, contractShare{contract: contract, count: n})
	}
	// Count descending, contract ascending on ties, so repeated runs rank
	// identically.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].contract < ranked[j].contract
	})

	cls.FieldModeContract = ranked[0].contract
	cls.FieldModeCount = ranked[0].count
	if st.NPlayed > 0 {
		cls.P1 = float64(ranked[0].count) / float64(st.NPlayed)
	}
	cls.FieldModeFreq = cls.P1
	if len(ranked) > 1 {
		cls.SecondContract = ranked[1].contract
		cls.SecondCount = ranked[1].count
		if st.NPlayed > 0 {
			cls.P2 = float64(ranked[1].count) / float64(st.NPlayed)
		}
	}

	cls.BoardType = c.boardType(st.Scope, cls.P1, cls.P2)
	cls.CompetitiveFlag = cls.BoardType == BoardSplit
	cls.ExpectedPct = c.expectedPct(st.Records, cls.FieldModeContract, cls.FieldModeCount)

	return cls
}

// boardType evaluates the classification rules in fixed priority order;
// the first match wins.
func (c *Classifier) boardType(scope Scope, p1, p2 float64) BoardType {
	switch {
	case scope == ScopeLowSample:
		// Overrides the frequency rules even under a dominant distribution.
		return BoardLowSample
	case p1 >= c.dominantShare:
		return BoardDominant
	case p1+p2 >= c.splitCombinedShare && p2 >= c.splitSecondShare:
		return BoardSplit
	default:
		return BoardWild
	}
}

// expectedPct averages pct over the mode-contract records when the mode
// occurs often enough, falling back to the whole reference set otherwise.
func (c *Classifier) expectedPct(records []model.BoardResult, modeContract string, modeCount int) *float64 {
	var pcts []float64
	if modeCount >= c.modeMinCount {
		for _, r := range records {
			norm, _ := model.NormalizeContract(r.Contract)
			if norm == modeContract && r.Pct != nil {
				pcts = append(pcts, *r.Pct)
			}
		}
	} else {
		for _, r := range records {
			if r.Pct != nil {
				pcts = append(pcts, *r.Pct)
			}
		}
	}
	if len(pcts) == 0 {
		return nil
	}
	mean, err := stats.Mean(stats.Float64Data(pcts))
	if err != nil {
		return nil
	}
	return &mean
}
