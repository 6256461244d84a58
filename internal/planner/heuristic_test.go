package planner

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pacbot/internal/maze"
	"pacbot/internal/model"
	"pacbot/internal/world"
)

func TestHeuristicTargetsVictimWhenSet(t *testing.T) {
	Convey("Given an active, non-spawning victim ghost", t, func() {
		s := world.New()
		s.PacMan = model.Location{Row: 23, Col: 13}
		s.Ghosts[model.Red].Spawning = false
		s.Ghosts[model.Red].Location = model.Location{Row: 11, Col: 13}

		Convey("heuristic measures distance to the victim, not the pellet target", func() {
			target := Cell{Row: 1, Col: 1}
			got := heuristic(s, model.Red, target)
			want := float64(maze.DistMaze(23, 13, 11, 13))
			So(got, ShouldEqual, want)
		})
	})
}

func TestHeuristicFallsBackToPelletTarget(t *testing.T) {
	Convey("Given no victim is set", t, func() {
		s := world.New()
		s.PacMan = model.Location{Row: 23, Col: 13}
		target := Cell{Row: 23, Col: 12}

		Convey("heuristic measures distance to the pellet target", func() {
			got := heuristic(s, model.NoGhost, target)
			want := float64(maze.DistMaze(23, 13, 23, 12))
			So(got, ShouldEqual, want)
		})
	})
}

func TestHeuristicInvalidTargetIsZero(t *testing.T) {
	Convey("Given no valid target and no victim", t, func() {
		s := world.New()
		s.PacMan = model.Location{Row: 23, Col: 13}

		Convey("heuristic returns zero", func() {
			got := heuristic(s, model.NoGhost, NoCell)
			So(got, ShouldEqual, 0)
		})
	})
}

func TestPenaltyIgnoresFarAndFrightenedGhosts(t *testing.T) {
	Convey("Given a ghost far away and a frightened ghost nearby", t, func() {
		s := world.New()
		s.PacMan = model.Location{Row: 23, Col: 13}
		s.Ghosts[model.Red].Spawning = false
		s.Ghosts[model.Red].Location = model.Location{Row: 0, Col: 0}
		s.Ghosts[model.Pink].Spawning = false
		s.Ghosts[model.Pink].Location = model.Location{Row: 23, Col: 12}
		s.Ghosts[model.Pink].FrightSteps = 10

		Convey("penalty contributes nothing from either", func() {
			So(penalty(s), ShouldEqual, 0)
		})
	})

	Convey("Given a non-frightened ghost close to Pac-Man", t, func() {
		s := world.New()
		s.PacMan = model.Location{Row: 23, Col: 13}
		s.Ghosts[model.Red].Spawning = false
		s.Ghosts[model.Red].Location = model.Location{Row: 23, Col: 12}

		Convey("penalty is positive", func() {
			So(penalty(s), ShouldBeGreaterThan, 0)
		})
	})
}
