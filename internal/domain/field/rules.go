package field

import "github.com/madsvk/boardfield/internal/domain/model"

// ContractClass labels a record's contract relative to the field.
type ContractClass string

// Contract classes.
const (
	ContractStandard    ContractClass = "Standard"
	ContractAlternative ContractClass = "Alternative"
)

// Aggression is derived from the contract level relative to the field mode.
type Aggression string

// Aggression labels.
const (
	AggressionAggressive Aggression = "Aggressive"
	AggressionPassive    Aggression = "Passive"
	AggressionNeutral    Aggression = "Neutral"
)

// DefensePerformance labels a record's pct against the board's expected_pct.
type DefensePerformance string

// Defense performance labels.
const (
	DefenseOverperform  DefensePerformance = "Overperform"
	DefenseStandard     DefensePerformance = "Standard"
	DefenseUnderperform DefensePerformance = "Underperform"
)

// Default rule calibration. The source material references these labels
// without quantifying them, so the numbers below are provisional settings,
// surfaced through config rather than guessed inline.
const (
	DefaultStandardMinShare   = 0.20
	DefaultDefenseOverMargin  = 5.0
	DefaultDefenseUnderMargin = 5.0
)

// ContractClassRule decides Standard vs Alternative from contract_norm
// frequency, and the Aggressive/Passive derivation from bid levels.
type ContractClassRule struct {
	// StandardMinShare is the minimum reference-set share at which a
	// non-mode contract still counts as Standard.
	StandardMinShare float64
}

// Classify labels one record's contract against the board classification.
func (r ContractClassRule) Classify(contract string, cls Classification) (ContractClass, Aggression) {
	norm, _ := model.NormalizeContract(contract)

	class := ContractAlternative
	if norm == cls.FieldModeContract {
		class = ContractStandard
	} else if cls.NPlayed > 0 {
		share := float64(cls.ContractCounts[norm]) / float64(cls.NPlayed)
		if share >= r.StandardMinShare {
			class = ContractStandard
		}
	}

	aggr := AggressionNeutral
	level := model.ContractLevel(norm)
	modeLevel := model.ContractLevel(cls.FieldModeContract)
	switch {
	case level == 0 || modeLevel == 0:
		// Unreadable level on either side; no aggression verdict.
	case level > modeLevel:
		aggr = AggressionAggressive
	case level < modeLevel:
		aggr = AggressionPassive
	}

	return class, aggr
}

// DefenseRule grades pct against expected_pct with symmetric-by-default
// margins in percentage points.
type DefenseRule struct {
	OverMargin  float64
	UnderMargin float64
}

// Assess labels one record. The second return is false when pct or
// expected_pct is absent and no verdict is defined.
func (r DefenseRule) Assess(pct *float64, expectedPct *float64) (DefensePerformance, bool) {
	if pct == nil || expectedPct == nil {
		return "", false
	}
	delta := *pct - *expectedPct
	switch {
	case delta >= r.OverMargin:
		return DefenseOverperform, true
	case delta <= -r.UnderMargin:
		return DefenseUnderperform, true
	default:
		return DefenseStandard, true
	}
}
