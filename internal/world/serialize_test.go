package world

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pacbot/internal/model"
)

func TestSerializeRoundTrip(t *testing.T) {
	Convey("Given a populated world state", t, func() {
		s := New()
		s.Ticks = 4242
		s.Mode = Chase
		s.ModeSteps = 12
		s.ModeDuration = ChaseDuration
		s.Score = 980
		s.Level = 2
		s.Lives = 3
		s.PacMan = model.Location{Row: 23, Col: 13}
		s.Fruit = model.Location{Row: 17, Col: 13}
		s.FruitSteps = 5
		s.Pellets[0] = 0xffffffff
		s.Ghosts[model.Red].Location = model.Location{Row: 11, Col: 13}
		s.Ghosts[model.Red].FrightSteps = 9
		s.Ghosts[model.Pink].Spawning = true

		Convey("Serialize produces exactly FrameSize bytes", func() {
			raw := s.Serialize()
			So(len(raw), ShouldEqual, FrameSize)
		})

		Convey("Serialize then applyFrame round-trips every field", func() {
			raw := s.Serialize()
			restored := New()
			err := restored.applyFrame(raw)
			So(err, ShouldBeNil)
			So(restored.Ticks, ShouldEqual, s.Ticks)
			So(restored.Mode, ShouldEqual, s.Mode)
			So(restored.Score, ShouldEqual, s.Score)
			So(restored.Lives, ShouldEqual, s.Lives)
			So(restored.PacMan, ShouldResemble, s.PacMan)
			So(restored.Fruit, ShouldResemble, s.Fruit)
			So(restored.Pellets, ShouldResemble, s.Pellets)
			So(restored.Ghosts[model.Red].Location, ShouldResemble, s.Ghosts[model.Red].Location)
			So(restored.Ghosts[model.Red].FrightSteps, ShouldEqual, s.Ghosts[model.Red].FrightSteps)
			So(restored.Ghosts[model.Pink].Spawning, ShouldBeTrue)
		})

		Convey("applyFrame rejects a malformed length", func() {
			err := s.applyFrame([]byte{1, 2, 3})
			So(err, ShouldEqual, ErrMalformedFrame)
		})
	})
}

func TestUpdateFromFrameLockedDrop(t *testing.T) {
	Convey("Given a locked state", t, func() {
		s := New()
		s.Lock()

		Convey("UpdateFromFrame silently drops the frame when not allowed", func() {
			other := New()
			other.Score = 555
			err := s.UpdateFromFrame(other.Serialize(), false)
			So(err, ShouldBeNil)
			So(s.Score, ShouldNotEqual, 555)
		})

		s.Unlock()

		Convey("UpdateFromFrame applies once unlocked", func() {
			other := New()
			other.Score = 555
			err := s.UpdateFromFrame(other.Serialize(), false)
			So(err, ShouldBeNil)
			So(s.Score, ShouldEqual, 555)
		})
	})
}

func TestUpdateFromFrameResetsProjected(t *testing.T) {
	Convey("Given a state with stale ghost projections", t, func() {
		s := New()
		s.Ghosts[model.Red].Projected = model.Up

		Convey("A fresh frame resets every ghost's projected direction to None", func() {
			err := s.UpdateFromFrame(New().Serialize(), false)
			So(err, ShouldBeNil)
			for _, c := range model.Colors {
				So(s.Ghosts[c].Projected, ShouldEqual, model.None)
			}
		})
	})
}

func TestSnapshotRestore(t *testing.T) {
	Convey("Given a state snapshot", t, func() {
		s := New()
		s.Score = 10
		s.Ghosts[model.Cyan].Projected = model.Left
		snap := s.Snapshot()

		Convey("Mutating the live state then restoring recovers the snapshot exactly", func() {
			s.Score = 999
			s.Ghosts[model.Cyan].Projected = model.Right
			s.Restore(snap)
			So(s.Score, ShouldEqual, 10)
			So(s.Ghosts[model.Cyan].Projected, ShouldEqual, model.Left)
		})
	})
}
