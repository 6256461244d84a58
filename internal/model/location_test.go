package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLocationSerialize(t *testing.T) {
	Convey("Given a location with a facing direction", t, func() {
		loc := Location{Row: 23, Col: 13}
		loc.SetDirection(Left)

		Convey("Serialize then ParseLocation round-trips exactly", func() {
			raw := loc.Serialize()
			parsed := ParseLocation(raw)
			So(parsed.Row, ShouldEqual, loc.Row)
			So(parsed.Col, ShouldEqual, loc.Col)
			So(parsed.RowDir, ShouldEqual, loc.RowDir)
			So(parsed.ColDir, ShouldEqual, loc.ColDir)
			So(parsed.Direction(), ShouldEqual, Left)
		})
	})

	Convey("Given the off-board sentinel location", t, func() {
		loc := OffBoardLocation()

		Convey("It is not Valid", func() {
			So(loc.Valid(), ShouldBeFalse)
		})

		Convey("Its direction is None with no facing set", func() {
			So(loc.Direction(), ShouldEqual, None)
		})
	})
}

func TestDirectionReversed(t *testing.T) {
	Convey("Given each cardinal direction", t, func() {
		Convey("Reversed is its opposite", func() {
			So(Up.Reversed(), ShouldEqual, Down)
			So(Down.Reversed(), ShouldEqual, Up)
			So(Left.Reversed(), ShouldEqual, Right)
			So(Right.Reversed(), ShouldEqual, Left)
		})

		Convey("None reverses to itself", func() {
			So(None.Reversed(), ShouldEqual, None)
		})
	})
}
