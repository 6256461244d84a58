package maze

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWallAt(t *testing.T) {
	Convey("Given out-of-range coordinates", t, func() {
		Convey("WallAt treats them as walls", func() {
			So(WallAt(-1, 0), ShouldBeTrue)
			So(WallAt(0, -1), ShouldBeTrue)
			So(WallAt(Rows, 0), ShouldBeTrue)
			So(WallAt(0, Cols), ShouldBeTrue)
		})
	})

	Convey("Given the known corridor cell (23,13)", t, func() {
		Convey("It is Valid and not a wall", func() {
			So(WallAt(23, 13), ShouldBeFalse)
			So(Valid(23, 13), ShouldBeTrue)
		})
	})
}

func TestSuperPelletCells(t *testing.T) {
	Convey("Given the four super-pellet corners", t, func() {
		Convey("IsSuperPelletCell is true for exactly those cells", func() {
			So(IsSuperPelletCell(3, 1), ShouldBeTrue)
			So(IsSuperPelletCell(3, 26), ShouldBeTrue)
			So(IsSuperPelletCell(23, 1), ShouldBeTrue)
			So(IsSuperPelletCell(23, 26), ShouldBeTrue)
			So(IsSuperPelletCell(23, 13), ShouldBeFalse)
		})
	})
}

func TestDistMaze(t *testing.T) {
	Convey("Given the corridor graph", t, func() {
		Convey("Distance from a cell to itself is zero", func() {
			So(DistMaze(23, 13, 23, 13), ShouldEqual, 0)
		})

		Convey("Distance is symmetric", func() {
			a := DistMaze(23, 13, 11, 9)
			b := DistMaze(11, 9, 23, 13)
			So(a, ShouldEqual, b)
		})

		Convey("Off-board coordinates return the unreachable sentinel", func() {
			So(DistMaze(-1, -1, 23, 13), ShouldEqual, unreachable)
		})
	})
}
