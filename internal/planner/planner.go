// Package planner implements the bounded best-first search that turns a
// world-model snapshot into a short ordered action plan (spec.md §4.3).
package planner

import (
	"pacbot/internal/maze"
	"pacbot/internal/model"
	"pacbot/internal/world"
)

// victimCatchBonus dominates tie-breaking once a child node catches the
// hunted victim (spec.md §4.3: "subtract a constant ≥ 50").
const victimCatchBonus = 50

// maxBufLength bounds how long a single plan's action buffer may grow
// before the planner gives up on a clean termination and commits half of
// what it has (spec.md §4.3).
const maxBufLength = 8

// dangerousNeighborDist is the maze-distance within which an unfrightened
// ghost disqualifies a frightened ghost as a victim (spec.md §4.3).
const dangerousNeighborDist = 2

// Planner holds the cross-call state the public contract requires to
// persist between invocations: the last hunted victim and the last
// chosen pellet target (spec.md §4.3).
type Planner struct {
	LastVictim       model.GhostColor
	LastPelletTarget Cell
}

// New returns a Planner with no victim and no pellet target yet chosen.
func New() *Planner {
	return &Planner{LastVictim: model.NoGhost, LastPelletTarget: NoCell}
}

// Plan runs one bounded best-first search over the world model (spec.md
// §4.3's public contract). It enqueues zero or more actions onto the
// world model's outbound queue as a side effect, and returns the
// (possibly unchanged) victim and pellet target for the next call.
func (p *Planner) Plan(s *world.State, predictedDelayTicks int) (model.GhostColor, Cell) {
	pacmanBefore := s.PacMan
	fruitPresentBefore := s.FruitSteps > 0

	victim := p.selectVictim(s)
	pelletTarget := selectPelletTarget(s, s.PacMan, p.LastPelletTarget,
		!s.PelletAt(pacmanBefore.Row, pacmanBefore.Col), fruitPresentBefore && s.FruitSteps == 0)
	target := searchTarget(s, s.Ticks, pelletTarget)

	root := &node{
		snapshot: s.Snapshot(),
		gCost:    0,
		actions:  nil,
		visited:  map[cellKey]struct{}{{s.PacMan.Row, s.PacMan.Col}: {}},
	}
	root.fCost = heuristic(s, victim, target) + penalty(s)

	pq := newFrontier()
	pq.push(root)

	for !pq.empty() {
		cur := pq.pop()

		if cur.victimCaught || cur.targetCaught {
			// Restore cur's own simulated end state first: s may currently
			// hold whatever a different, more recently expanded sibling
			// left behind, not cur's state, since pq.pop() can return a
			// node whose parent wasn't the last one explored.
			nextVictim, nextTarget := victim, pelletTarget
			if cur.targetCaught {
				s.Restore(cur.snapshot)
				nextTarget = nearestPellet(s, s.PacMan)
			}
			s.Restore(root.snapshot)
			p.commit(s, cur.actions)
			p.LastVictim, p.LastPelletTarget = nextVictim, nextTarget
			return nextVictim, nextTarget
		}

		if len(cur.actions) >= maxBufLength {
			s.Restore(root.snapshot)
			p.commit(s, cur.actions[:len(cur.actions)/2])
			p.LastVictim, p.LastPelletTarget = victim, pelletTarget
			return victim, pelletTarget
		}

		for _, dir := range directionsFor(victim) {
			s.Restore(cur.snapshot)
			result := s.StepOnce(dir)
			if result == world.Dead {
				continue
			}

			pacCell := cellKey{s.PacMan.Row, s.PacMan.Col}
			if _, seen := cur.visited[pacCell]; seen {
				continue
			}

			child := cur.clone()
			child.visited[pacCell] = struct{}{}
			child.gCost = cur.gCost + 1
			child.actions = append(child.actions, world.Action{Delay: predictedDelayTicks, Direction: dir})
			child.snapshot = s.Snapshot()

			child.victimCaught = victim != model.NoGhost && !s.Ghosts[victim].Spawning &&
				s.Ghosts[victim].Location.At(s.PacMan.Row, s.PacMan.Col)
			child.targetCaught = target.valid() && s.PacMan.At(target.Row, target.Col)

			fCost := float64(child.gCost) + heuristic(s, victim, target) + penalty(s)
			if child.victimCaught {
				fCost -= victimCatchBonus
			}
			child.fCost = fCost

			pq.push(child)
		}
	}

	// Trapped: no expansion ever succeeded. Commit nothing.
	s.Restore(root.snapshot)
	p.LastVictim, p.LastPelletTarget = victim, pelletTarget
	return victim, pelletTarget
}

// commit appends a plan's action buffer to the world model's outbound
// queue, in order (spec.md §4.3 "Termination").
func (p *Planner) commit(s *world.State, actions []world.Action) {
	for _, a := range actions {
		s.EnqueueAction(a)
	}
}

// selectVictim implements spec.md §4.3's victim-selection rule.
func (p *Planner) selectVictim(s *world.State) model.GhostColor {
	if p.LastVictim != model.NoGhost {
		g := &s.Ghosts[p.LastVictim]
		if g.IsFrightened() && !g.Spawning && !p.dangerousNeighbor(s, p.LastVictim) {
			return p.LastVictim
		}
	}

	best := model.NoGhost
	bestDist := uint16(0)
	found := false
	for _, c := range model.Colors {
		g := &s.Ghosts[c]
		if !g.IsFrightened() || g.Spawning {
			continue
		}
		if p.dangerousNeighbor(s, c) {
			continue
		}
		dist := maze.DistMaze(s.PacMan.Row, s.PacMan.Col, g.Location.Row, g.Location.Col)
		if !found || dist < bestDist {
			best, bestDist, found = c, dist, true
		}
	}
	return best
}

// dangerousNeighbor reports whether any other non-frightened, non-
// spawning ghost is within maze-distance 2 of the given ghost (spec.md
// §4.3's "dangerous neighbour" predicate).
func (p *Planner) dangerousNeighbor(s *world.State, victim model.GhostColor) bool {
	v := &s.Ghosts[victim]
	for _, c := range model.Colors {
		if c == victim {
			continue
		}
		g := &s.Ghosts[c]
		if g.Spawning || g.IsFrightened() {
			continue
		}
		if maze.DistMaze(v.Location.Row, v.Location.Col, g.Location.Row, g.Location.Col) <= dangerousNeighborDist {
			return true
		}
	}
	return false
}
