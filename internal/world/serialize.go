package world

import (
	"encoding/binary"
	"errors"

	"pacbot/internal/model"
)

// FrameSize is the fixed wire size of a serialized frame. See DESIGN.md
// "Resolved spec arithmetic note" for why this is 152, not the 150 the
// spec prose states, while the field layout itself is unchanged.
const FrameSize = 152

// ErrMalformedFrame is returned when a frame is the wrong length to parse.
var ErrMalformedFrame = errors.New("world: malformed frame")

// Serialize packs the state into the fixed big-endian wire layout
// (spec.md §3). Caller must hold no particular lock; intended for use by
// Snapshot and by the outbound simulation-mode path.
func (s *State) Serialize() []byte {
	buf := make([]byte, FrameSize)
	off := 0

	binary.BigEndian.PutUint16(buf[off:], s.Ticks)
	off += 2
	buf[off] = s.UpdatePeriod
	off++
	buf[off] = byte(s.Mode)
	off++
	buf[off] = byte(s.ModeSteps)
	off++
	buf[off] = byte(s.ModeDuration)
	off++
	binary.BigEndian.PutUint16(buf[off:], s.Score)
	off += 2
	buf[off] = s.Level
	off++
	buf[off] = s.Lives
	off++

	for _, c := range model.Colors {
		g := &s.Ghosts[c]
		binary.BigEndian.PutUint16(buf[off:], g.Location.Serialize())
		off += 2
		buf[off] = g.serializeAux()
		off++
	}

	binary.BigEndian.PutUint16(buf[off:], s.PacMan.Serialize())
	off += 2
	binary.BigEndian.PutUint16(buf[off:], s.Fruit.Serialize())
	off += 2
	buf[off] = s.FruitSteps
	off++
	buf[off] = s.FruitDuration
	off++

	for _, word := range s.Pellets {
		binary.BigEndian.PutUint32(buf[off:], word)
		off += 4
	}

	return buf
}

// applyFrame unpacks a wire frame into the state fields, unconditionally.
// Does not touch the lock/connected flags or the outbound queue.
func (s *State) applyFrame(data []byte) error {
	if len(data) != FrameSize {
		return ErrMalformedFrame
	}
	off := 0

	s.Ticks = binary.BigEndian.Uint16(data[off:])
	off += 2
	s.UpdatePeriod = data[off]
	off++
	s.Mode = GameMode(data[off])
	off++
	s.ModeSteps = int(data[off])
	off++
	s.ModeDuration = int(data[off])
	off++
	s.Score = binary.BigEndian.Uint16(data[off:])
	off += 2
	s.Level = data[off]
	off++
	s.Lives = data[off]
	off++

	for _, c := range model.Colors {
		g := &s.Ghosts[c]
		g.Location = model.ParseLocation(binary.BigEndian.Uint16(data[off:]))
		off += 2
		g.updateAux(data[off])
		off++
	}

	s.PacMan = model.ParseLocation(binary.BigEndian.Uint16(data[off:]))
	off += 2
	s.Fruit = model.ParseLocation(binary.BigEndian.Uint16(data[off:]))
	off += 2
	s.FruitSteps = data[off]
	off++
	s.FruitDuration = data[off]
	off++

	for i := range s.Pellets {
		s.Pellets[i] = binary.BigEndian.Uint32(data[off:])
		off += 4
	}

	return nil
}

// UpdateFromFrame parses a server frame into the world state (spec.md
// §4.2). The receive path must never block on a plan in progress: unless
// allowWhileLocked is set, this takes the lock with TryLock and drops the
// frame silently on contention — the intentional locked-drop failure mode
// from spec.md §5/§7, not an error, and not a wait. On a successful parse
// every ghost's projected direction resets to None, since a fresh frame
// invalidates any prior lookahead guess.
func (s *State) UpdateFromFrame(data []byte, allowWhileLocked bool) error {
	if allowWhileLocked {
		s.mu.Lock()
	} else if !s.mu.TryLock() {
		return nil
	}
	defer s.mu.Unlock()

	if err := s.applyFrame(data); err != nil {
		return err
	}

	for i := range s.Ghosts {
		s.Ghosts[i].Projected = model.None
	}
	return nil
}

// Snapshot is an immutable capture of the world state sufficient to
// restore it exactly, used by the planner to explore counterfactual
// futures (spec.md §4.2, §9).
type Snapshot struct {
	bytes      [FrameSize]byte
	ghostPlans [4]model.Direction
}

// Snapshot packs the current state per spec.md §3 and records the
// projected-direction map. Restoring a snapshot does not restore the
// locked/connected flags or outbound queue (spec.md §3 "Lifecycles").
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	copy(snap.bytes[:], s.Serialize())
	for _, c := range model.Colors {
		snap.ghostPlans[c] = s.Ghosts[c].Projected
	}
	return snap
}

// Restore overwrites the live state from a snapshot, bypassing the lock
// (spec.md §4.2: "opposite [of snapshot]; bypasses the lock").
func (s *State) Restore(snap Snapshot) {
	_ = s.applyFrame(snap.bytes[:])
	for _, c := range model.Colors {
		s.Ghosts[c].Projected = snap.ghostPlans[c]
	}
}
