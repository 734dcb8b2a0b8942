package model_test

import (
	"testing"

	"github.com/madsvk/boardfield/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeContract(t *testing.T) {
	Convey("Given contract strings with doubling markers", t, func() {
		Convey("When the contract is undoubled", func() {
			norm, ds := model.NormalizeContract("4H")
			So(norm, ShouldEqual, "4H")
			So(ds, ShouldEqual, model.Undoubled)
		})

		Convey("When the contract is doubled", func() {
			norm, ds := model.NormalizeContract("4HX")
			So(norm, ShouldEqual, "4H")
			So(ds, ShouldEqual, model.Doubled)
		})

		Convey("When the contract is redoubled", func() {
			norm, ds := model.NormalizeContract("3NTXX")
			So(norm, ShouldEqual, "3NT")
			So(ds, ShouldEqual, model.Redoubled)
		})

		Convey("When the contract has surrounding whitespace", func() {
			norm, ds := model.NormalizeContract(" 6S ")
			So(norm, ShouldEqual, "6S")
			So(ds, ShouldEqual, model.Undoubled)
		})
	})
}

func TestContractLevel(t *testing.T) {
	Convey("Given normalized contract strings", t, func() {
		So(model.ContractLevel("1C"), ShouldEqual, 1)
		So(model.ContractLevel("3NT"), ShouldEqual, 3)
		So(model.ContractLevel("7NT"), ShouldEqual, 7)
		So(model.ContractLevel(""), ShouldEqual, 0)
		So(model.ContractLevel("PASS"), ShouldEqual, 0)
	})
}

func TestSides(t *testing.T) {
	Convey("Given the four seats", t, func() {
		Convey("Then N and S belong to NS, E and W to EW", func() {
			So(model.SideOf(model.North), ShouldEqual, model.SideNS)
			So(model.SideOf(model.South), ShouldEqual, model.SideNS)
			So(model.SideOf(model.East), ShouldEqual, model.SideEW)
			So(model.SideOf(model.West), ShouldEqual, model.SideEW)
		})

		Convey("Then Opposite flips the partnership", func() {
			So(model.SideNS.Opposite(), ShouldEqual, model.SideEW)
			So(model.SideEW.Opposite(), ShouldEqual, model.SideNS)
		})
	})
}

func TestResultStatus(t *testing.T) {
	Convey("Given status codes", t, func() {
		So(model.StatusPlayed.Valid(), ShouldBeTrue)
		So(model.StatusSitout.Valid(), ShouldBeTrue)
		So(model.StatusNotPlayedAverage.Valid(), ShouldBeTrue)
		So(model.ResultStatus("ADJUSTED").Valid(), ShouldBeFalse)
	})
}

func TestBoardResultHands(t *testing.T) {
	Convey("Given a record with all four hands", t, func() {
		r := model.BoardResult{
			HandN: "AKT7.QJ3.984.AK2",
			HandE: "Q5.T9874.AK2.QJ3",
			HandS: "J98.A52.QJT7.984",
			HandW: "6432.K6.653.T765",
		}
		So(r.HasDeal(), ShouldBeTrue)
		So(r.Hand(model.North), ShouldEqual, "AKT7.QJ3.984.AK2")
		So(r.Hand(model.West), ShouldEqual, "6432.K6.653.T765")

		Convey("When one hand is missing", func() {
			r.HandW = ""
			So(r.HasDeal(), ShouldBeFalse)
		})
	})
}
