package planner

import (
	"math"

	"pacbot/internal/maze"
	"pacbot/internal/model"
	"pacbot/internal/world"
)

// ghostPenaltyRadius is the maze-distance beyond which a ghost
// contributes no repulsion penalty (spec.md §4.3).
const ghostPenaltyRadius = 6

// heuristic estimates the remaining cost from the state to the effective
// target (spec.md §4.3 "Heuristic h(state, victim)"): the victim's
// location when one is set and not spawning, else the pellet target,
// unless a fruit is active and closer by the 1/20 rule, in which case
// the fruit.
func heuristic(s *world.State, victim model.GhostColor, target Cell) float64 {
	if !s.PacMan.Valid() || !target.valid() {
		return 0
	}

	effRow, effCol := target.Row, target.Col
	if victim != model.NoGhost && !s.Ghosts[victim].Spawning {
		effRow, effCol = s.Ghosts[victim].Location.Row, s.Ghosts[victim].Location.Col
	} else if s.FruitSteps > 0 {
		pelletDist := maze.DistMaze(s.PacMan.Row, s.PacMan.Col, target.Row, target.Col)
		fruitDist := maze.DistMaze(s.PacMan.Row, s.PacMan.Col, s.Fruit.Row, s.Fruit.Col)
		if float64(fruitDist) < float64(pelletDist)/20 {
			effRow, effCol = s.Fruit.Row, s.Fruit.Col
		}
	}

	return float64(maze.DistMaze(s.PacMan.Row, s.PacMan.Col, effRow, effCol))
}

// penalty sums a soft repulsion term over every non-spawning,
// non-frightened ghost within maze-distance 6 of Pac-Man (spec.md §4.3
// "Penalty penalty(state)"). Saturates sharply as distance approaches 1,
// serving as a ghost-avoidance pressure rather than a hard constraint.
func penalty(s *world.State) float64 {
	total := 0.0
	for i := range s.Ghosts {
		g := &s.Ghosts[i]
		if g.Spawning || g.IsFrightened() {
			continue
		}
		dist := maze.DistMaze(s.PacMan.Row, s.PacMan.Col, g.Location.Row, g.Location.Col)
		if dist == 0 || dist > ghostPenaltyRadius {
			continue
		}
		total += math.Round(0.1 * math.Exp(50/float64(dist)))
	}
	return total
}
