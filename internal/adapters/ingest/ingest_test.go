package ingest_test

import (
	"context"
	"strings"
	"testing"

	"github.com/madsvk/boardfield/internal/adapters/ingest"
	"github.com/madsvk/boardfield/internal/domain/dedupe"
	"github.com/madsvk/boardfield/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const csvHeader = "tournament_date,board_no,section,club_id,pair_ns,pair_ew,contract,declarer,result_status_code,pct,hand_n,hand_e,hand_s,hand_w\n"

func TestCSVReader(t *testing.T) {
	Convey("Given a CSV snapshot", t, func() {
		ctx := context.Background()

		Convey("When reading well-formed rows", func() {
			src := csvHeader +
				"2026-02-14,1,A,club-1,12,34,4H,N,PLAYED,55.5,,,,\n" +
				"2026-02-14,1,A,club-1,56,78,3NT,S,PLAYED,44.5,,,,\n" +
				"2026-02-14,2,A,club-1,12,34,,,SITOUT,,,,,\n"

			records, diags, err := ingest.NewCSVReader(strings.NewReader(src)).Read(ctx)

			Convey("Then all rows should materialize", func() {
				So(err, ShouldBeNil)
				So(len(diags), ShouldEqual, 0)
				So(len(records), ShouldEqual, 3)

				So(records[0].TournamentDate, ShouldEqual, "2026-02-14")
				So(records[0].BoardNo, ShouldEqual, 1)
				So(records[0].Section, ShouldEqual, "A")
				So(records[0].Contract, ShouldEqual, "4H")
				So(records[0].Declarer, ShouldEqual, model.North)
				So(records[0].Status, ShouldEqual, model.StatusPlayed)
				So(records[0].Pct, ShouldNotBeNil)
				So(*records[0].Pct, ShouldEqual, 55.5)

				So(records[2].Status, ShouldEqual, model.StatusSitout)
				So(records[2].Pct, ShouldBeNil)
			})
		})

		Convey("When a row carries hand strings", func() {
			src := csvHeader +
				"2026-02-14,1,A,club-1,12,34,4H,N,PLAYED,55.5," +
				"AKQJ.AKQ.AKQ.AKQ,T987.JT9.JT9.JT9,6543.876.876.876,2.5432.5432.5432\n"

			records, diags, err := ingest.NewCSVReader(strings.NewReader(src)).Read(ctx)

			Convey("Then the deal should be present", func() {
				So(err, ShouldBeNil)
				So(len(diags), ShouldEqual, 0)
				So(len(records), ShouldEqual, 1)
				So(records[0].HasDeal(), ShouldBeTrue)
				So(records[0].HandW, ShouldEqual, "2.5432.5432.5432")
			})
		})

		Convey("When rows are malformed", func() {
			src := csvHeader +
				"2026-02-14,one,A,club-1,12,34,4H,N,PLAYED,55.5,,,,\n" +
				"2026-02-14,2,A,club-1,12,34,4H,N,MAYBE,55.5,,,,\n" +
				"2026-02-14,3,A,club-1,12,34,4H,N,PLAYED,high,,,,\n" +
				"2026-02-14,4,A,club-1,12,34,4H,N,PLAYED,50.0,,,,\n" +
				",5,A,club-1,12,34,4H,N,PLAYED,50.0,,,,\n"

			records, diags, err := ingest.NewCSVReader(strings.NewReader(src)).Read(ctx)

			Convey("Then bad rows become diagnostics and good rows survive", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(records[0].BoardNo, ShouldEqual, 4)
				So(len(diags), ShouldEqual, 4)
				So(diags[0].Stage, ShouldEqual, "ingest")
				So(diags[0].Message, ShouldContainSubstring, "board_no")
				So(diags[1].Message, ShouldContainSubstring, "result_status_code")
				So(diags[2].Message, ShouldContainSubstring, "pct")
				So(diags[3].Message, ShouldContainSubstring, "tournament_date")
			})
		})

		Convey("When the header is missing a required column", func() {
			src := "tournament_date,section\n2026-02-14,A\n"

			_, _, err := ingest.NewCSVReader(strings.NewReader(src)).Read(ctx)

			Convey("Then the whole read should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "board_no")
			})
		})

		Convey("When the source is empty", func() {
			_, _, err := ingest.NewCSVReader(strings.NewReader("")).Read(ctx)

			Convey("Then the missing header should fail the read", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When duplicate rows appear and a deduper guards the reader", func() {
			src := csvHeader +
				"2026-02-14,1,A,club-1,12,34,4H,N,PLAYED,55.5,,,,\n" +
				"2026-02-14,1,A,club-1,12,34,4H,N,PLAYED,55.5,,,,\n" +
				"2026-02-14,1,A,club-1,56,78,3NT,S,PLAYED,44.5,,,,\n"

			reader := ingest.NewCSVReader(strings.NewReader(src), ingest.WithDeduper(dedupe.NewInMemoryDeduper()))
			records, diags, err := reader.Read(ctx)

			Convey("Then the repeat should be dropped silently", func() {
				So(err, ShouldBeNil)
				So(len(diags), ShouldEqual, 0)
				So(len(records), ShouldEqual, 2)
			})
		})
	})
}

func TestJSONLReader(t *testing.T) {
	Convey("Given a JSON-lines snapshot", t, func() {
		ctx := context.Background()

		Convey("When reading well-formed documents", func() {
			src := `{"tournament_date":"2026-02-14","board_no":1,"section":"A","club_id":"club-1","pair_ns":"12","pair_ew":"34","contract":"4HX","declarer":"S","result_status_code":"PLAYED","pct":62.5}
{"tournament_date":"2026-02-14","board_no":2,"section":"A","club_id":"club-1","pair_ns":"12","pair_ew":"34","result_status_code":"NOT_PLAYED_AVERAGE"}
`

			records, diags, err := ingest.NewJSONLReader(strings.NewReader(src)).Read(ctx)

			Convey("Then all documents should materialize", func() {
				So(err, ShouldBeNil)
				So(len(diags), ShouldEqual, 0)
				So(len(records), ShouldEqual, 2)
				So(records[0].Contract, ShouldEqual, "4HX")
				So(records[0].Declarer, ShouldEqual, model.South)
				So(*records[0].Pct, ShouldEqual, 62.5)
				So(records[1].Status, ShouldEqual, model.StatusNotPlayedAverage)
			})
		})

		Convey("When a document fails validation", func() {
			src := `{"tournament_date":"2026-02-14","board_no":0,"section":"A","result_status_code":"PLAYED"}
{"tournament_date":"2026-02-14","board_no":2,"section":"A","result_status_code":"PLAYED"}
`

			records, diags, err := ingest.NewJSONLReader(strings.NewReader(src)).Read(ctx)

			Convey("Then it should become a diagnostic", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(len(diags), ShouldEqual, 1)
				So(diags[0].Message, ShouldContainSubstring, "board_no")
			})
		})

		Convey("When the stream breaks mid-document", func() {
			src := `{"tournament_date":"2026-02-14","board_no":1,"section":"A","result_status_code":"PLAYED"}
{"tournament_date":`

			records, diags, err := ingest.NewJSONLReader(strings.NewReader(src)).Read(ctx)

			Convey("Then earlier records survive and the break is diagnosed", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(len(diags), ShouldEqual, 1)
			})
		})
	})
}
