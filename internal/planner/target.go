package planner

import (
	"pacbot/internal/maze"
	"pacbot/internal/model"
	"pacbot/internal/world"
)

// Cell is a board coordinate used for planner target bookkeeping. A
// negative Row means "no target".
type Cell struct{ Row, Col int }

// NoCell is the sentinel meaning "no pellet target chosen yet".
var NoCell = Cell{Row: -1, Col: -1}

func (c Cell) valid() bool {
	return c.Row >= 0 && c.Row < maze.Rows && c.Col >= 0 && c.Col < maze.Cols
}

// waitAdjacent pairs each super-pellet corner with the adjacent cell one
// row further toward the middle of the board, which the
// wait-near-super-pellet posture targets instead of the pellet itself
// (spec.md §4.3). Order matches the original's top-left/top-right/
// bottom-left/bottom-right check order, so the choice is deterministic
// when more than one super pellet survives.
var waitAdjacent = []struct{ Corner, Wait Cell }{
	{Cell{Row: 3, Col: 1}, Cell{Row: 4, Col: 1}},
	{Cell{Row: 3, Col: 26}, Cell{Row: 4, Col: 26}},
	{Cell{Row: 23, Col: 1}, Cell{Row: 22, Col: 1}},
	{Cell{Row: 23, Col: 26}, Cell{Row: 22, Col: 26}},
}

// openingFrames and openingRiskyPellets implement the "unconditional
// opening bias" of spec.md §4.3: for the first few frames of a fresh
// game, steer toward these cells if they still hold a pellet, regardless
// of the usual nearest-pellet rule. These are the pellets flanking the
// ghost-lair exit, the ones most likely to get cut off once the ghosts
// leave spawn.
const openingFrames = 30

var openingRiskyPellets = []Cell{
	{Row: 11, Col: 9}, {Row: 11, Col: 18},
	{Row: 14, Col: 7}, {Row: 14, Col: 20},
}

// nearestPellet runs a BFS over corridor cells from `from`, excluding
// super-pellet cells, and returns the first pellet-bearing cell found
// (spec.md §4.3: pellet-target selection fallback).
func nearestPellet(s *world.State, from model.Location) Cell {
	start := Cell{from.Row, from.Col}
	if !start.valid() {
		return NoCell
	}
	if s.PelletAt(start.Row, start.Col) && !maze.IsSuperPelletCell(start.Row, start.Col) {
		return start
	}

	visited := map[Cell]struct{}{start: {}}
	queue := []Cell{start}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, d := range model.Cardinal {
			next := Cell{cur.Row + model.DRow[d], cur.Col + model.DCol[d]}
			if !maze.Valid(next.Row, next.Col) {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			if s.PelletAt(next.Row, next.Col) && !maze.IsSuperPelletCell(next.Row, next.Col) {
				return next
			}
			queue = append(queue, next)
		}
	}
	return NoCell
}

// selectPelletTarget keeps the previous pellet target if it is still
// valid and wasn't just collected, otherwise picks the nearest pellet by
// BFS (spec.md §4.3: "Pellet-target selection").
func selectPelletTarget(s *world.State, pacman model.Location, prev Cell, justCollectedPellet, justCollectedFruit bool) Cell {
	if prev.valid() && s.PelletAt(prev.Row, prev.Col) && !justCollectedPellet && !justCollectedFruit {
		return prev
	}
	return nearestPellet(s, pacman)
}

// searchTarget applies the opening bias and the phase-aware
// wait-near-super-pellet override on top of the chosen pellet target
// (spec.md §4.3: "Phase-aware high-value target").
func searchTarget(s *world.State, ticks uint16, pelletTarget Cell) Cell {
	if ticks < openingFrames {
		for _, c := range openingRiskyPellets {
			if s.PelletAt(c.Row, c.Col) {
				return c
			}
		}
	}

	if s.Mode == world.Chase {
		for _, pair := range waitAdjacent {
			if s.SuperPelletAt(pair.Corner.Row, pair.Corner.Col) {
				return pair.Wait
			}
		}
	}

	return pelletTarget
}
