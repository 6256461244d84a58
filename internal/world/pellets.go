package world

import (
	"math/bits"

	"pacbot/internal/maze"
	"pacbot/internal/model"
)

// fruitSpawnThresholds are the remaining-pellet counts that trigger a
// fruit spawn, crossed on the way down (spec.md §4.2 step 7).
var fruitSpawnThresholds = [2]int{174, 74}

// fruitLocation is where the fruit always spawns.
var fruitLocation = model.Location{Row: 17, Col: 13}

// fruitLifetimeTicks is how long a spawned fruit remains available.
const fruitLifetimeTicks = 30

// frightStepsOnSuperPellet is how many ticks ghosts turn frightened for
// after Pac-Man eats a super pellet (spec.md §4.2 step 7).
const frightStepsOnSuperPellet = 40

// PelletAt reports whether a pellet remains at (row,col). Bit `col` of
// word `row` set means present, matching the wall bitmap's bit order.
func (s *State) PelletAt(row, col int) bool {
	if row < 0 || row >= maze.Rows || col < 0 || col >= maze.Cols {
		return false
	}
	return s.Pellets[row]&(1<<uint(col)) != 0
}

// SuperPelletAt reports whether a super pellet remains at (row,col). A
// super pellet is a regular pellet bit set at one of the four corner
// cells (spec.md §3).
func (s *State) SuperPelletAt(row, col int) bool {
	return maze.IsSuperPelletCell(row, col) && s.PelletAt(row, col)
}

// NumPellets returns the total count of remaining pellets, including
// super pellets, via population count over the bitset.
func (s *State) NumPellets() int {
	n := 0
	for _, word := range s.Pellets {
		n += bits.OnesCount32(word)
	}
	return n
}

// NumSuperPellets returns how many of the four super-pellet cells still
// hold their pellet.
func (s *State) NumSuperPellets() int {
	n := 0
	for _, rc := range maze.SuperPelletCells {
		if s.PelletAt(rc[0], rc[1]) {
			n++
		}
	}
	return n
}

// CollectPellet clears the pellet at (row,col) if present and applies its
// side effects: score increment, a fright scare plus projected-direction
// reversal on a super pellet, and a fruit spawn when the remaining count
// crosses one of the two fruit thresholds on the way down (spec.md §4.2
// step 7). Returns whether a pellet was actually collected.
func (s *State) CollectPellet(row, col int) bool {
	if !s.PelletAt(row, col) {
		return false
	}
	wasSuper := maze.IsSuperPelletCell(row, col)

	s.Pellets[row] &^= 1 << uint(col)
	remaining := s.NumPellets()

	if wasSuper {
		s.Score += 50
		for i := range s.Ghosts {
			s.Ghosts[i].FrightSteps = frightStepsOnSuperPellet
			s.Ghosts[i].Projected = s.Ghosts[i].Projected.Reversed()
		}
	} else {
		s.Score += 10
	}

	for _, threshold := range fruitSpawnThresholds {
		if remaining == threshold {
			s.Fruit = fruitLocation
			s.FruitSteps = fruitLifetimeTicks
			s.FruitDuration = fruitLifetimeTicks
			break
		}
	}

	return true
}
