package field

import (
	"sort"

	"github.com/madsvk/boardfield/internal/domain/model"
)

// Scope is the reference tier chosen for a board's field comparison.
type Scope string

// Reference scopes, in cascade priority order.
const (
	ScopeSection   Scope = "SECTION"
	ScopeClub      Scope = "CLUB"
	ScopeLowSample Scope = "LOW_SAMPLE"
)

// DefaultMinSample is the minimum PLAYED sample required to trust a
// SECTION or CLUB reference tier.
const DefaultMinSample = 12

// Index pre-groups a filtered snapshot by section group and by club-wide
// board key. Built once per batch; read-only afterwards, so workers can
// share it without locking.
type Index struct {
	section map[model.GroupKey][]model.BoardResult
	club    map[model.BoardKey][]model.BoardResult
}

// NewIndex groups the PLAYED records of one snapshot.
func NewIndex(played []model.BoardResult) *Index {
	ix := &Index{
		section: make(map[model.GroupKey][]model.BoardResult),
		club:    make(map[model.BoardKey][]model.BoardResult),
	}
	for _, r := range played {
		g := r.Group()
		b := r.Board()
		ix.section[g] = append(ix.section[g], r)
		ix.club[b] = append(ix.club[b], r)
	}
	return ix
}

// SectionRecords returns the filtered records of one section group.
func (ix *Index) SectionRecords(k model.GroupKey) []model.BoardResult {
	return ix.section[k]
}

// ClubRecords returns the filtered records of a board across all sections.
func (ix *Index) ClubRecords(k model.BoardKey) []model.BoardResult {
	return ix.club[k]
}

// Groups returns every section group key in deterministic order.
func (ix *Index) Groups() []model.GroupKey {
	keys := make([]model.GroupKey, 0, len(ix.section))
	for k := range ix.section {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.TournamentDate != b.TournamentDate {
			return a.TournamentDate < b.TournamentDate
		}
		if a.BoardNo != b.BoardNo {
			return a.BoardNo < b.BoardNo
		}
		return a.Section < b.Section
	})
	return keys
}

// Stats is the discriminated result of the reference cascade: the chosen
// scope together with the sample counts that led to it, for auditability.
type Stats struct {
	Key            model.GroupKey      `json:"key"`
	Scope          Scope               `json:"reference_scope"`
	NSectionPlayed int                 `json:"n_section_played"`
	NClubPlayed    int                 `json:"n_club_played"`
	NPlayed        int                 `json:"reference_n_played"`
	Records        []model.BoardResult `json:"-"`
}

// Layer resolves the reference scope for board groups. The cascade order is
// fixed (SECTION, then CLUB, then LOW_SAMPLE); only the minimum sample size
// is configurable.
type Layer struct {
	minSample int
}

// LayerOption applies a configuration option to the Layer.
type LayerOption func(*Layer)

// WithMinSample overrides the minimum PLAYED sample per tier.
func WithMinSample(n int) LayerOption {
	return func(l *Layer) {
		if n > 0 {
			l.minSample = n
		}
	}
}

// NewLayer creates a reference layer with the default minimum sample.
func NewLayer(opts ...LayerOption) *Layer {
	l := &Layer{minSample: DefaultMinSample}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve evaluates the cascade for one board group:
//
//  1. the section's PLAYED count reaches the minimum -> SECTION, backed by
//     the section's records;
//  2. else the club-wide count reaches the minimum -> CLUB, backed by the
//     club-wide records;
//  3. else LOW_SAMPLE, backed by whatever club-wide records exist. The
//     low-sample reference set is informational only and never satisfies a
//     minimum-sample requirement.
func (l *Layer) Resolve(ix *Index, key model.GroupKey) Stats {
	sectionRecs := ix.SectionRecords(key)
	clubRecs := ix.ClubRecords(model.BoardKey{TournamentDate: key.TournamentDate, BoardNo: key.BoardNo})

	st := Stats{
		Key:            key,
		NSectionPlayed: len(sectionRecs),
		NClubPlayed:    len(clubRecs),
	}

	switch {
	case st.NSectionPlayed >= l.minSample:
		st.Scope = ScopeSection
		st.NPlayed = st.NSectionPlayed
		st.Records = sectionRecs
	case st.NClubPlayed >= l.minSample:
		st.Scope = ScopeClub
		st.NPlayed = st.NClubPlayed
		st.Records = clubRecs
	default:
		st.Scope = ScopeLowSample
		st.NPlayed = st.NClubPlayed
		st.Records = clubRecs
	}
	return st
}
