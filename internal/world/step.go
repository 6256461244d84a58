package world

import (
	"pacbot/internal/maze"
	"pacbot/internal/model"
)

// Result is the outcome of a single simulated tick.
type Result int

const (
	Safe Result = iota
	Dead
)

func (r Result) String() string {
	if r == Dead {
		return "Dead"
	}
	return "Safe"
}

// pinkLookahead is how many cells ahead of Pac-Man's facing direction Pink
// targets in Chase mode (spec.md §4.2.1).
const pinkLookahead = 4

// orangeShyDistanceSq is the squared-Euclidean threshold below which
// Orange flees to its scatter corner instead of chasing (spec.md §4.2.1).
const orangeShyDistanceSq = 64

// StepOnce deterministically advances the world state by one logical
// tick, given Pac-Man's chosen direction (spec.md §4.2). The function is
// pure with respect to its inputs: the same (*State, direction) always
// produces the same resulting state and Result.
func (s *State) StepOnce(pacmanDir model.Direction) Result {
	// 1. Assign a projection to any ghost that doesn't have one yet.
	for _, c := range model.Colors {
		g := &s.Ghosts[c]
		if g.Projected == model.None {
			g.Projected = s.guessPlan(c)
		}
	}

	// 2. Advance each ghost along its current direction; face its projection.
	for _, c := range model.Colors {
		g := &s.Ghosts[c]
		if !g.Spawning {
			dir := g.Location.Direction()
			if dir != model.None {
				nrow, ncol := g.Location.Row+model.DRow[dir], g.Location.Col+model.DCol[dir]
				if maze.Valid(nrow, ncol) {
					g.Location.Row, g.Location.Col = nrow, ncol
				}
			}
		}
		g.Location.SetDirection(g.Projected)
		if g.FrightSteps > 0 {
			g.FrightSteps--
		}
	}

	// 3. Safety predicate after ghost movement.
	deadAtGhostMove := s.ghostCollision()
	s.markEatenFrightenedGhosts()

	// 4. Mode timer.
	s.ModeSteps--
	if s.ModeSteps <= 0 {
		s.flipMode()
	}

	// 5. Fresh projections for the next tick.
	for _, c := range model.Colors {
		s.Ghosts[c].Projected = s.guessPlan(c)
	}

	// 6. Pac-Man's own move. A wall-blocked attempt leaves Pac-Man in
	// place (only the facing changes), per invariant 2: it is not itself
	// a death, it just fails to advance.
	if pacmanDir != model.None {
		s.PacMan.SetDirection(pacmanDir)
		nrow, ncol := s.PacMan.Row+model.DRow[pacmanDir], s.PacMan.Col+model.DCol[pacmanDir]
		if maze.Valid(nrow, ncol) {
			s.PacMan.Row, s.PacMan.Col = nrow, ncol
		}
	}

	// 7. Pellet collection and fruit bookkeeping.
	s.CollectPellet(s.PacMan.Row, s.PacMan.Col)
	if s.FruitSteps > 0 {
		s.FruitSteps--
		if s.FruitSteps == 0 {
			s.Fruit = model.OffBoardLocation()
		}
	}

	// 8. Final safety predicate.
	if deadAtGhostMove || s.ghostCollision() {
		return Dead
	}
	return Safe
}

// ghostCollision reports whether a non-frightened, non-spawning ghost
// currently shares Pac-Man's cell.
func (s *State) ghostCollision() bool {
	for i := range s.Ghosts {
		g := &s.Ghosts[i]
		if !g.Spawning && !g.IsFrightened() && g.Location.At(s.PacMan.Row, s.PacMan.Col) {
			return true
		}
	}
	return false
}

// markEatenFrightenedGhosts sends every frightened ghost on Pac-Man's
// cell back to spawn (spec.md §4.2 step 3).
func (s *State) markEatenFrightenedGhosts() {
	for i := range s.Ghosts {
		g := &s.Ghosts[i]
		if g.IsFrightened() && g.Location.At(s.PacMan.Row, s.PacMan.Col) {
			g.Spawning = true
		}
	}
}

// flipMode flips between Scatter and Chase and resets the mode timer
// (spec.md §4.2 step 4). Never flips out of Chase once pellets are scarce.
func (s *State) flipMode() {
	if s.Mode == Chase && s.NumPellets() < noScatterBelowPellets {
		s.ModeSteps = s.ModeDuration
		return
	}
	switch s.Mode {
	case Chase:
		s.Mode = Scatter
		s.ModeDuration = ScatterDuration
	case Scatter:
		s.Mode = Chase
		s.ModeDuration = ChaseDuration
	default:
		return
	}
	s.ModeSteps = s.ModeDuration
}

// guessPlan computes the one-step-lookahead projected direction for the
// given ghost, per the classic chase/scatter targeting rules (spec.md
// §4.2.1).
func (s *State) guessPlan(c model.GhostColor) model.Direction {
	g := &s.Ghosts[c]
	targetRow, targetCol := s.ghostTarget(c)

	best := model.None
	bestDist := 0
	found := false
	cur := g.Location.Direction()

	consider := func(allowReverse bool) bool {
		for _, d := range model.Cardinal {
			if !allowReverse && d == cur.Reversed() && cur != model.None {
				continue
			}
			nrow, ncol := g.Location.Row+model.DRow[d], g.Location.Col+model.DCol[d]
			if !maze.Valid(nrow, ncol) {
				continue
			}
			dist := maze.SquaredEuclidean(nrow, ncol, targetRow, targetCol)
			better := !found
			if found {
				if g.IsFrightened() {
					better = dist > bestDist
				} else {
					better = dist < bestDist
				}
			}
			if better {
				best, bestDist, found = d, dist, true
			}
		}
		return found
	}

	// Ghosts may not reverse unless every other direction is blocked
	// (the classic dead-end exception).
	if !consider(false) {
		consider(true)
	}
	return best
}

// ghostTarget computes the one-step-lookahead target cell for a ghost
// under the current game mode (spec.md §4.2.1).
func (s *State) ghostTarget(c model.GhostColor) (int, int) {
	if s.Mode == Scatter || s.Mode == Paused {
		return model.ScatterRow[c], model.ScatterCol[c]
	}

	switch c {
	case model.Red:
		return s.PacMan.Row, s.PacMan.Col
	case model.Pink:
		dir := s.PacMan.Direction()
		return s.PacMan.Row + pinkLookahead*model.DRow[dir], s.PacMan.Col + pinkLookahead*model.DCol[dir]
	case model.Cyan:
		dir := s.PacMan.Direction()
		pivotRow := s.PacMan.Row + pinkLookahead*model.DRow[dir]
		pivotCol := s.PacMan.Col + pinkLookahead*model.DCol[dir]
		red := s.Ghosts[model.Red].Location
		return 2*pivotRow - red.Row, 2*pivotCol - red.Col
	case model.Orange:
		orange := s.Ghosts[model.Orange].Location
		if maze.SquaredEuclidean(orange.Row, orange.Col, s.PacMan.Row, s.PacMan.Col) >= orangeShyDistanceSq {
			return s.PacMan.Row, s.PacMan.Col
		}
		return model.ScatterRow[c], model.ScatterCol[c]
	default:
		return model.ScatterRow[c], model.ScatterCol[c]
	}
}
