package planner

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pacbot/internal/model"
	"pacbot/internal/world"
)

func TestSelectVictimPrefersFrightenedIsolatedGhost(t *testing.T) {
	Convey("Given one frightened, isolated ghost and no prior victim", t, func() {
		s := world.New()
		s.PacMan = model.Location{Row: 23, Col: 13}
		s.Ghosts[model.Red].Spawning = false
		s.Ghosts[model.Red].FrightSteps = 10
		s.Ghosts[model.Red].Location = model.Location{Row: 11, Col: 13}

		p := New()

		Convey("selectVictim picks it", func() {
			So(p.selectVictim(s), ShouldEqual, model.Red)
		})
	})

	Convey("Given no ghost is frightened", t, func() {
		s := world.New()
		p := New()

		Convey("selectVictim returns NoGhost", func() {
			So(p.selectVictim(s), ShouldEqual, model.NoGhost)
		})
	})
}

func TestDangerousNeighborDisqualifiesVictim(t *testing.T) {
	Convey("Given a frightened ghost with a non-frightened ghost nearby", t, func() {
		s := world.New()
		s.Ghosts[model.Red].Spawning = false
		s.Ghosts[model.Red].FrightSteps = 10
		s.Ghosts[model.Red].Location = model.Location{Row: 11, Col: 13}
		s.Ghosts[model.Pink].Spawning = false
		s.Ghosts[model.Pink].Location = model.Location{Row: 11, Col: 14}

		p := New()

		Convey("selectVictim skips the dangerous ghost", func() {
			So(p.selectVictim(s), ShouldEqual, model.NoGhost)
		})
	})
}

func TestPlanCommitsActionsTowardAPellet(t *testing.T) {
	Convey("Given Pac-Man a few cells from a lone pellet with no ghost threat", t, func() {
		s := world.New()
		s.Mode = world.Chase
		s.ModeDuration = world.ChaseDuration
		s.ModeSteps = world.ChaseDuration
		s.PacMan = model.Location{Row: 23, Col: 13}
		s.Pellets[23] = 1 << 12 // (23,12)
		for _, c := range model.Colors {
			s.Ghosts[c].Spawning = true
		}

		p := New()

		Convey("Plan enqueues at least one action and leaves the world state restored", func() {
			_, target := p.Plan(s, 4)
			So(s.QueueLen(), ShouldBeGreaterThan, 0)
			So(s.PacMan, ShouldResemble, model.Location{Row: 23, Col: 13})
			So(target.valid(), ShouldBeTrue)
		})
	})
}
