// Package types contains the report shapes shared between the analysis
// service, the repository and the HTTP API.
package types

import (
	"github.com/madsvk/boardfield/internal/domain/field"
	"github.com/madsvk/boardfield/internal/domain/hand"
	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/side"
)

// RecordAssessment labels one played record against its board's field.
type RecordAssessment struct {
	PairNS             string                   `json:"pair_ns"`
	PairEW             string                   `json:"pair_ew"`
	Contract           string                   `json:"contract"`
	ContractNorm       string                   `json:"contract_norm"`
	DoubleState        model.DoubleState        `json:"double_state"`
	Pct                *float64                 `json:"pct,omitempty"`
	ContractClass      field.ContractClass      `json:"contract_class"`
	Aggression         field.Aggression         `json:"aggression"`
	DefensePerformance field.DefensePerformance `json:"defense_performance,omitempty"`
	PctVsExpected      *float64                 `json:"pct_vs_expected,omitempty"`
}

// BoardReport is the per-group output of the board-layer pipeline: the
// reference audit trail, the classification, and per-record assessments.
type BoardReport struct {
	Key            model.GroupKey       `json:"key"`
	Classification field.Classification `json:"classification"`
	Records        []RecordAssessment   `json:"records"`
}

// SeatMetrics pairs a seat with its hand metrics.
type SeatMetrics struct {
	Direction model.Direction `json:"direction"`
	Metrics   hand.Metrics    `json:"metrics"`
}

// SideReport is the per-record output of the hand-layer pipeline for records
// that publish all four hands.
type SideReport struct {
	Key          model.GroupKey    `json:"key"`
	PairNS       string            `json:"pair_ns"`
	PairEW       string            `json:"pair_ew"`
	Seats        []SeatMetrics     `json:"seats"`
	NS           side.Metrics      `json:"ns"`
	EW           side.Metrics      `json:"ew"`
	DeclarerSide model.Side        `json:"declarer_side,omitempty"`
	Differential side.Differential `json:"differential"`
}

// Diagnostic records a per-record validation failure attached to the batch
// output. One malformed record never aborts the batch.
type Diagnostic struct {
	ID      string         `json:"id"`
	Key     model.GroupKey `json:"key"`
	Stage   string         `json:"stage"`
	Message string         `json:"message"`
}
