package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madsvk/boardfield/internal/adapters/http/api"
	"github.com/madsvk/boardfield/internal/adapters/repository"
	"github.com/madsvk/boardfield/internal/domain/field"
	"github.com/madsvk/boardfield/internal/domain/model"
	"github.com/madsvk/boardfield/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps backs the handlers with a real in-memory store.
type mockDeps struct {
	store *repository.MemStore
}

func (m *mockDeps) BoardReports(ctx context.Context, limit int) ([]types.BoardReport, error) {
	return m.store.BoardReports(ctx, limit)
}

func (m *mockDeps) BoardReport(ctx context.Context, key model.GroupKey) (types.BoardReport, error) {
	return m.store.BoardReport(ctx, key)
}

func (m *mockDeps) SideReports(ctx context.Context, key model.GroupKey) ([]types.SideReport, error) {
	return m.store.SideReports(ctx, key)
}

func (m *mockDeps) Diagnostics(ctx context.Context) ([]types.Diagnostic, error) {
	return m.store.Diagnostics(ctx)
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func groupKey(board int, section string) model.GroupKey {
	return model.GroupKey{TournamentDate: "2026-02-14", BoardNo: board, Section: section}
}

func newTestServer() (*http.ServeMux, *mockDeps) {
	deps := &mockDeps{store: repository.NewMemStore()}
	server := api.NewServer(deps, mockStats{}, 100)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux, deps
}

func seedBoard(deps *mockDeps, board int, section string) {
	_ = deps.store.PutBoardReport(context.Background(), types.BoardReport{
		Key: groupKey(board, section),
		Classification: field.Classification{
			Key:       groupKey(board, section),
			Scope:     field.ScopeSection,
			BoardType: field.BoardDominant,
		},
	})
}

func doGet(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		mux, _ := newTestServer()

		Convey("When GET /healthz", func() {
			rec := doGet(mux, "/healthz")

			Convey("Then it should report ok", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "ok")
			})
		})

		Convey("When GET /metrics", func() {
			rec := doGet(mux, "/metrics")

			Convey("Then it should expose Prometheus metrics", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "boardfield")
			})
		})
	})
}

func TestBoardsEndpoints(t *testing.T) {
	Convey("Given a server with seeded board reports", t, func() {
		mux, deps := newTestServer()
		seedBoard(deps, 1, "A")
		seedBoard(deps, 2, "A")

		Convey("When GET /boards", func() {
			rec := doGet(mux, "/boards")

			Convey("Then it should list the reports", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var reports []types.BoardReport
				So(json.Unmarshal(rec.Body.Bytes(), &reports), ShouldBeNil)
				So(len(reports), ShouldEqual, 2)
				So(reports[0].Key.BoardNo, ShouldEqual, 1)
			})
		})

		Convey("When GET /boards?limit=1", func() {
			rec := doGet(mux, "/boards?limit=1")

			var reports []types.BoardReport
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(json.Unmarshal(rec.Body.Bytes(), &reports), ShouldBeNil)
			So(len(reports), ShouldEqual, 1)
		})

		Convey("When GET /boards with a bad limit", func() {
			So(doGet(mux, "/boards?limit=zero").Code, ShouldEqual, http.StatusBadRequest)
			So(doGet(mux, "/boards?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			So(doGet(mux, "/boards?limit=100000").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When GET /boards/{date}/{board}/{section}", func() {
			rec := doGet(mux, "/boards/2026-02-14/1/A")

			Convey("Then it should return the report", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var report types.BoardReport
				So(json.Unmarshal(rec.Body.Bytes(), &report), ShouldBeNil)
				So(report.Key, ShouldResemble, groupKey(1, "A"))
				So(report.Classification.BoardType, ShouldEqual, field.BoardDominant)
			})
		})

		Convey("When GET /boards for an unknown group", func() {
			So(doGet(mux, "/boards/2026-02-14/9/A").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the board path is malformed", func() {
			So(doGet(mux, "/boards/2026-02-14/1").Code, ShouldEqual, http.StatusBadRequest)
			So(doGet(mux, "/boards/2026-02-14/first/A").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using a non-GET method", func() {
			req := httptest.NewRequest(http.MethodPost, "/boards", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSidesEndpoint(t *testing.T) {
	Convey("Given a server with seeded side reports", t, func() {
		mux, deps := newTestServer()
		_ = deps.store.PutSideReport(context.Background(), types.SideReport{
			Key:    groupKey(1, "A"),
			PairNS: "12",
			PairEW: "34",
		})

		Convey("When GET /sides with a full key", func() {
			rec := doGet(mux, "/sides?date=2026-02-14&board=1&section=A")

			Convey("Then it should return the reports", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var reports []types.SideReport
				So(json.Unmarshal(rec.Body.Bytes(), &reports), ShouldBeNil)
				So(len(reports), ShouldEqual, 1)
				So(reports[0].PairNS, ShouldEqual, "12")
			})
		})

		Convey("When GET /sides with missing parameters", func() {
			So(doGet(mux, "/sides?date=2026-02-14").Code, ShouldEqual, http.StatusBadRequest)
			So(doGet(mux, "/sides?date=2026-02-14&board=x&section=A").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestDiagnosticsEndpoint(t *testing.T) {
	Convey("Given a server with a recorded diagnostic", t, func() {
		mux, deps := newTestServer()
		_ = deps.store.PutDiagnostic(context.Background(), types.Diagnostic{
			ID:      "row-3",
			Key:     groupKey(3, "A"),
			Stage:   "ingest",
			Message: "board_no \"x\" is not a number",
		})

		Convey("When GET /diagnostics", func() {
			rec := doGet(mux, "/diagnostics")

			Convey("Then it should list the failures", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var diags []types.Diagnostic
				So(json.Unmarshal(rec.Body.Bytes(), &diags), ShouldBeNil)
				So(len(diags), ShouldEqual, 1)
				So(diags[0].Stage, ShouldEqual, "ingest")
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		mux, _ := newTestServer()

		Convey("When GET /stats", func() {
			rec := doGet(mux, "/stats")

			Convey("Then it should return provider output", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var stats map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}
