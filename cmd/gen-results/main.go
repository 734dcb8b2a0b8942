package main

import (
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/simulate"
)

// Default snapshot dimensions.
const (
	defaultSections = "A,B"
	defaultBoards   = 24
	defaultTables   = 12
	defaultDeals    = 0.8
)

func main() {
	var (
		date     = flag.String("date", time.Now().UTC().Format("2006-01-02"), "Tournament date (YYYY-MM-DD)")
		sections = flag.String("sections", defaultSections, "Comma-separated section letters")
		boards   = flag.Int("boards", defaultBoards, "Boards per section")
		tables   = flag.Int("tables", defaultTables, "Result rows per board group")
		deals    = flag.Float64("deals", defaultDeals, "Fraction of boards carrying a published deal")
		seed     = flag.Int64("seed", 0, "RNG seed (0 seeds from the clock)")
		format   = flag.String("format", "csv", "Output format: csv or jsonl")
		output   = flag.String("output", "", "Output file (default: stdout)")
	)
	flag.Parse()

	gen := simulate.New(simulate.Config{
		TournamentDate:   *date,
		Sections:         splitSections(*sections),
		Boards:           *boards,
		TablesPerSection: *tables,
		DealShare:        *deals,
		Seed:             *seed,
	})
	records := gen.Snapshot()

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			os.Stderr.WriteString("failed to create output file: " + err.Error() + "\n")
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := write(w, *format, records); err != nil {
		os.Stderr.WriteString("failed to write snapshot: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func write(w io.Writer, format string, records []model.BoardResult) error {
	if format == "jsonl" {
		return simulate.WriteJSONL(w, records)
	}
	return simulate.WriteCSV(w, records)
}

func splitSections(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
