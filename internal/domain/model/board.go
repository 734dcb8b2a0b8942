// Package model contains domain records passed between layers.
package model

import "strings"

// Direction identifies a seat at the table.
type Direction string

// Seat directions in play order.
const (
	North Direction = "N"
	East  Direction = "E"
	South Direction = "S"
	West  Direction = "W"
)

// Valid reports whether d is one of the four seats.
func (d Direction) Valid() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

// Side identifies a partnership.
type Side string

// The two partnerships.
const (
	SideNS Side = "NS"
	SideEW Side = "EW"
)

// SideOf maps a seat to its partnership.
func SideOf(d Direction) Side {
	if d == North || d == South {
		return SideNS
	}
	return SideEW
}

// Opposite returns the other partnership.
func (s Side) Opposite() Side {
	if s == SideNS {
		return SideEW
	}
	return SideNS
}

// ResultStatus is the closed set of result states a board record can carry.
type ResultStatus string

// Result status codes. Only Played records contribute to field aggregates.
const (
	StatusPlayed           ResultStatus = "PLAYED"
	StatusSitout           ResultStatus = "SITOUT"
	StatusNotPlayedAverage ResultStatus = "NOT_PLAYED_AVERAGE"
)

// Valid reports whether s is a known status code.
func (s ResultStatus) Valid() bool {
	switch s {
	case StatusPlayed, StatusSitout, StatusNotPlayedAverage:
		return true
	}
	return false
}

// DoubleState is the doubling marker stripped off a contract string.
type DoubleState string

// Doubling states.
const (
	Undoubled DoubleState = ""
	Doubled   DoubleState = "X"
	Redoubled DoubleState = "XX"
)

// BoardResult is one scraped tournament result row. Records are immutable
// once materialized; every derived value is recomputed per analysis run.
type BoardResult struct {
	TournamentDate string       `json:"tournament_date"`
	BoardNo        int          `json:"board_no"`
	Section        string       `json:"section"`
	ClubID         string       `json:"club_id"`
	PairNS         string       `json:"pair_ns"`
	PairEW         string       `json:"pair_ew"`
	Contract       string       `json:"contract"`
	Declarer       Direction    `json:"declarer"`
	Status         ResultStatus `json:"result_status_code"`
	Pct            *float64     `json:"pct,omitempty"`

	// Optional dot-format hand strings per seat ("S.H.D.C"); empty when the
	// source did not publish the deal.
	HandN string `json:"hand_n,omitempty"`
	HandE string `json:"hand_e,omitempty"`
	HandS string `json:"hand_s,omitempty"`
	HandW string `json:"hand_w,omitempty"`
}

// Hand returns the dot-format hand string for a seat.
func (r *BoardResult) Hand(d Direction) string {
	switch d {
	case North:
		return r.HandN
	case East:
		return r.HandE
	case South:
		return r.HandS
	case West:
		return r.HandW
	}
	return ""
}

// HasDeal reports whether all four hand strings are present.
func (r *BoardResult) HasDeal() bool {
	return r.HandN != "" && r.HandE != "" && r.HandS != "" && r.HandW != ""
}

// GroupKey identifies the records of one board within one section on one date.
type GroupKey struct {
	TournamentDate string `json:"tournament_date"`
	BoardNo        int    `json:"board_no"`
	Section        string `json:"section"`
}

// BoardKey identifies a board club-wide, across sections.
type BoardKey struct {
	TournamentDate string `json:"tournament_date"`
	BoardNo        int    `json:"board_no"`
}

// Group returns the record's group key.
func (r *BoardResult) Group() GroupKey {
	return GroupKey{TournamentDate: r.TournamentDate, BoardNo: r.BoardNo, Section: r.Section}
}

// Board returns the record's club-wide board key.
func (r *BoardResult) Board() BoardKey {
	return BoardKey{TournamentDate: r.TournamentDate, BoardNo: r.BoardNo}
}

// NormalizeContract strips a trailing doubling marker off a contract string.
// "4HX" -> ("4H", Doubled); "3NTXX" -> ("3NT", Redoubled). The double state
// never influences board classification; it is reported separately.
func NormalizeContract(contract string) (string, DoubleState) {
	c := strings.TrimSpace(contract)
	switch {
	case strings.HasSuffix(c, "XX"):
		return c[:len(c)-2], Redoubled
	case strings.HasSuffix(c, "X"):
		return c[:len(c)-1], Doubled
	}
	return c, Undoubled
}

// ContractLevel extracts the bid level (1-7) from a normalized contract
// string, or 0 when no level can be read (passed-out or malformed contracts).
func ContractLevel(contractNorm string) int {
	c := strings.TrimSpace(contractNorm)
	if c == "" {
		return 0
	}
	if c[0] >= '1' && c[0] <= '7' {
		return int(c[0] - '0')
	}
	return 0
}
