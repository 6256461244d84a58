package planner

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pacbot/internal/model"
	"pacbot/internal/world"
)

func TestFrontierOrdering(t *testing.T) {
	Convey("Given a frontier with nodes of varying fCost", t, func() {
		f := newFrontier()
		f.push(&node{fCost: 10})
		f.push(&node{fCost: 2})
		f.push(&node{fCost: 7})

		Convey("pop returns nodes in ascending fCost order", func() {
			first := f.pop()
			second := f.pop()
			third := f.pop()
			So(first.fCost, ShouldEqual, 2)
			So(second.fCost, ShouldEqual, 7)
			So(third.fCost, ShouldEqual, 10)
			So(f.empty(), ShouldBeTrue)
		})
	})
}

func TestNodeClone(t *testing.T) {
	Convey("Given a node with actions and a visited set", t, func() {
		n := &node{
			gCost:   3,
			actions: []world.Action{{Delay: 1, Direction: model.Up}},
			visited: map[cellKey]struct{}{{1, 1}: {}},
		}

		Convey("clone produces independent slices and maps", func() {
			c := n.clone()
			c.actions[0].Direction = model.Down
			c.visited[cellKey{2, 2}] = struct{}{}

			So(n.actions[0].Direction, ShouldEqual, model.Up)
			So(len(n.visited), ShouldEqual, 1)
			So(c.gCost, ShouldEqual, n.gCost)
		})
	})
}

func TestDirectionsFor(t *testing.T) {
	Convey("Given no victim is being hunted", t, func() {
		Convey("directionsFor includes None", func() {
			dirs := directionsFor(model.NoGhost)
			So(len(dirs), ShouldEqual, 5)
		})
	})

	Convey("Given a victim is being hunted", t, func() {
		Convey("directionsFor excludes None", func() {
			dirs := directionsFor(model.Red)
			So(len(dirs), ShouldEqual, 4)
			for _, d := range dirs {
				So(d, ShouldNotEqual, model.None)
			}
		})
	})
}
