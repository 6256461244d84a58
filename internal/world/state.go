// Package world holds the mutable game-state model: ticks, mode, score,
// ghosts, Pac-Man, pellets, and the single-tick simulator the planner runs
// against. Exactly one State exists per client session.
package world

import (
	"fmt"
	"sync"

	"pacbot/internal/model"
)

// GameMode is one of Paused, Scatter, Chase (spec.md §3).
type GameMode uint8

const (
	Paused GameMode = iota
	Scatter
	Chase
)

func (m GameMode) String() string {
	switch m {
	case Scatter:
		return "Scatter"
	case Chase:
		return "Chase"
	default:
		return "Paused"
	}
}

// Mode durations in ticks, per spec.md §4.2 step 4.
const (
	ChaseDuration   = 175
	ScatterDuration = 65
	// Below this many pellets remaining, the simulator never flips out of
	// Chase (spec.md §4.2 step 4).
	noScatterBelowPellets = 20
)

// Ghost is one of the four ghost records tracked in the world state.
type Ghost struct {
	Color       model.GhostColor
	Location    model.Location
	FrightSteps int  // 0..63
	Spawning    bool
	// Projected is the ghost's one-step-lookahead planned direction,
	// recomputed by guessPlan and reset to None on every fresh server frame.
	Projected model.Direction
}

// IsFrightened reports whether the ghost is currently edible.
func (g *Ghost) IsFrightened() bool {
	return g.FrightSteps > 0
}

// serializeAux packs spawning + fright steps into the one-byte aux field
// (spec.md §3): top bit spawning, low 6 bits fright steps.
func (g *Ghost) serializeAux() byte {
	var aux byte
	if g.Spawning {
		aux |= 0x80
	}
	aux |= byte(g.FrightSteps) & 0x3f
	return aux
}

func (g *Ghost) updateAux(aux byte) {
	g.FrightSteps = int(aux & 0x3f)
	g.Spawning = aux&0x80 != 0
}

// Action is one queued (delay, direction) command produced by a plan.
type Action struct {
	Delay     int
	Direction model.Direction
}

// maxOutboundQueue bounds the dispatcher's outbound message queue
// (spec.md §3).
const maxOutboundQueue = 64

// State is the full mutable world model. All mutation (frame parsing,
// simulator restore, outbound queue append) happens under mu, per
// SPEC_FULL.md §5: this is a real Go concurrency fabric, so the
// "cooperative marker" spec.md describes is realized as an actual mutex.
type State struct {
	mu sync.Mutex

	Ticks        uint16
	UpdatePeriod uint8
	Mode         GameMode
	ModeSteps    int
	ModeDuration int
	Score        uint16
	Level        uint8
	Lives        uint8

	Ghosts [4]Ghost // indexed by model.GhostColor: Red, Pink, Cyan, Orange

	PacMan       model.Location
	Fruit        model.Location
	FruitSteps   uint8
	FruitDuration uint8

	Pellets [31]uint32

	locked    bool
	connected bool

	outbound []Action
}

// New returns a freshly initialized world state: paused, no pellets, all
// ghosts spawning off-board. A server frame is expected shortly after.
func New() *State {
	s := &State{
		Mode:         Paused,
		ModeDuration: 255,
		PacMan:       model.OffBoardLocation(),
		Fruit:        model.OffBoardLocation(),
	}
	for _, c := range model.Colors {
		s.Ghosts[c] = Ghost{
			Color:    c,
			Location: model.OffBoardLocation(),
			Spawning: true,
		}
	}
	return s
}

// Lock acquires the world-state lock and marks it logically locked, so
// concurrent UpdateFromFrame calls drop incoming frames (spec.md §5).
// Callers (the planner loop) must call Unlock when done.
func (s *State) Lock() {
	s.mu.Lock()
	s.locked = true
}

// Unlock releases the lock and clears the logical-locked marker.
func (s *State) Unlock() {
	s.locked = false
	s.mu.Unlock()
}

// IsLocked reports whether the state is currently locked for planning.
// Safe to call without holding mu; a stale read just means a frame that
// could have been dropped gets applied instead, which is harmless (the
// next frame will supersede it).
func (s *State) IsLocked() bool {
	return s.locked
}

// CurrentMode reports the game mode under the lock, for callers that
// only need a quick read rather than the full lock/unlock pair around a
// sequence of operations (e.g. the planner loop deciding whether to
// skip planning while paused).
func (s *State) CurrentMode() GameMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Mode
}

// SetConnected records the server session's connectivity.
func (s *State) SetConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	s.mu.Unlock()
}

// IsConnected reports whether the server session is currently live.
func (s *State) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// EnqueueAction appends an outbound (delay, direction) command, dropping
// it silently if the queue is already at its bound (spec.md §3).
func (s *State) EnqueueAction(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.outbound) >= maxOutboundQueue {
		return
	}
	s.outbound = append(s.outbound, a)
}

// DrainActions removes and returns every queued outbound action, in FIFO
// order, for the comms loop to dispatch.
func (s *State) DrainActions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	drained := s.outbound
	s.outbound = nil
	return drained
}

// QueueLen reports how many outbound actions are currently pending,
// without draining them. Used by the planner loop to wait for the queue
// to empty before planning again (spec.md §4.4).
func (s *State) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outbound)
}

// String renders a one-line operator-visibility summary for logging, not
// a board render (spec.md's Non-goals exclude terminal rendering as a
// core responsibility).
func (s *State) String() string {
	return fmt.Sprintf(
		"tick=%d mode=%s score=%d lives=%d pac=(%d,%d)",
		s.Ticks, s.Mode, s.Score, s.Lives, s.PacMan.Row, s.PacMan.Col,
	)
}
