// Package simulate generates plausible tournament result snapshots for load
// testing and local development. Generated snapshots round-trip through the
// ingest readers and exercise every downstream pipeline stage.
package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/madsvk/boardfield/internal/domain/model"
)

// Default snapshot dimensions.
const (
	defaultBoards           = 24
	defaultTablesPerSection = 12
	defaultDealShare        = 0.8
)

// Probabilities shaping the generated field.
const (
	dominantGroupShare = 0.55 // groups where one contract dominates
	splitGroupShare    = 0.30 // groups split between two contracts
	sitoutShare        = 0.04
	notPlayedShare     = 0.02
	doubledShare       = 0.05
	offModeDeclarer    = 0.15 // mode-contract tables with a declarer off the usual side
)

// Pct distribution parameters. Matchpoint percentages cluster around 50.
const (
	pctMean   = 50.0
	pctStddev = 13.0
)

// Config holds snapshot generation parameters.
type Config struct {
	TournamentDate   string   // session date, YYYY-MM-DD
	Sections         []string // section letters
	Boards           int      // boards per section
	TablesPerSection int      // result rows per board group
	DealShare        float64  // fraction of boards carrying a published deal
	Seed             int64    // rng seed; 0 seeds from the clock
}

// Generator produces result snapshots from one seeded source.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a snapshot generator. Zero-value config fields fall back to
// defaults sized like a typical club session.
func New(cfg Config) *Generator {
	if cfg.TournamentDate == "" {
		cfg.TournamentDate = time.Now().UTC().Format("2006-01-02")
	}
	if len(cfg.Sections) == 0 {
		cfg.Sections = []string{"A", "B"}
	}
	if cfg.Boards <= 0 {
		cfg.Boards = defaultBoards
	}
	if cfg.TablesPerSection <= 0 {
		cfg.TablesPerSection = defaultTablesPerSection
	}
	if cfg.DealShare <= 0 {
		cfg.DealShare = defaultDealShare
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Snapshot generates one full session of board records. The same board number
// shares one deal across sections; field shape varies per board group.
func (g *Generator) Snapshot() []model.BoardResult {
	records := make([]model.BoardResult, 0, len(g.cfg.Sections)*g.cfg.Boards*g.cfg.TablesPerSection)

	for board := 1; board <= g.cfg.Boards; board++ {
		var deal dealStrings
		hasDeal := g.rng.Float64() < g.cfg.DealShare
		if hasDeal {
			deal = g.deal()
		}

		for _, section := range g.cfg.Sections {
			records = append(records, g.group(board, section, hasDeal, deal)...)
		}
	}
	return records
}

// group generates the result rows of one board within one section.
func (g *Generator) group(board int, section string, hasDeal bool, deal dealStrings) []model.BoardResult {
	shape := g.fieldShape()
	mode := g.contract()
	alt := g.contract()
	for alt == mode {
		alt = g.contract()
	}
	modeDeclarer := g.declarer()

	rows := make([]model.BoardResult, 0, g.cfg.TablesPerSection)
	for table := 1; table <= g.cfg.TablesPerSection; table++ {
		rec := model.BoardResult{
			TournamentDate: g.cfg.TournamentDate,
			BoardNo:        board,
			Section:        section,
			ClubID:         "1001",
			PairNS:         fmt.Sprintf("%s%d", section, table),
			PairEW:         fmt.Sprintf("%s%d", section, table+g.cfg.TablesPerSection),
			Status:         model.StatusPlayed,
		}

		switch {
		case g.rng.Float64() < sitoutShare:
			rec.Status = model.StatusSitout
		case g.rng.Float64() < notPlayedShare:
			rec.Status = model.StatusNotPlayedAverage
			pct := pctMean
			rec.Pct = &pct
		default:
			rec.Contract, rec.Declarer = g.tableContract(shape, mode, alt, modeDeclarer)
			pct := g.pct()
			rec.Pct = &pct
		}

		if hasDeal {
			rec.HandN, rec.HandE, rec.HandS, rec.HandW = deal.n, deal.e, deal.s, deal.w
		}
		rows = append(rows, rec)
	}
	return rows
}

// fieldShape picks how contested the group's auction landscape is.
func (g *Generator) fieldShape() int {
	r := g.rng.Float64()
	switch {
	case r < dominantGroupShare:
		return shapeDominant
	case r < dominantGroupShare+splitGroupShare:
		return shapeSplit
	}
	return shapeWild
}

const (
	shapeDominant = iota
	shapeSplit
	shapeWild
)

// tableContract picks one table's contract and declarer given the group shape.
func (g *Generator) tableContract(shape int, mode, alt string, modeDeclarer model.Direction) (string, model.Direction) {
	var contract string
	var declarer model.Direction

	switch shape {
	case shapeDominant:
		if g.rng.Float64() < 0.85 {
			contract, declarer = mode, modeDeclarer
		} else {
			contract, declarer = alt, g.declarer()
		}
	case shapeSplit:
		if g.rng.Float64() < 0.5 {
			contract, declarer = mode, modeDeclarer
		} else {
			contract, declarer = alt, g.declarer()
		}
	default:
		contract, declarer = g.contract(), g.declarer()
	}

	if contract == mode && g.rng.Float64() < offModeDeclarer {
		declarer = g.declarer()
	}
	if g.rng.Float64() < doubledShare {
		contract += "X"
	}
	return contract, declarer
}

var strains = []string{"C", "D", "H", "S", "NT"}

// contract generates a plausible contract string, weighted toward part scores
// and games.
func (g *Generator) contract() string {
	level := 1 + g.rng.Intn(5)
	if level == 1 && g.rng.Float64() < 0.6 {
		level = 2 + g.rng.Intn(3)
	}
	return fmt.Sprintf("%d%s", level, strains[g.rng.Intn(len(strains))])
}

func (g *Generator) declarer() model.Direction {
	switch g.rng.Intn(4) {
	case 0:
		return model.North
	case 1:
		return model.East
	case 2:
		return model.South
	}
	return model.West
}

// pct draws a matchpoint percentage clustered around the mean, clamped to
// [0, 100] and rounded to two decimals.
func (g *Generator) pct() float64 {
	p := pctMean + g.rng.NormFloat64()*pctStddev
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return float64(int(p*100)) / 100
}
