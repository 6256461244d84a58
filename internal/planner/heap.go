package planner

import (
	"container/heap"

	"pacbot/internal/model"
	"pacbot/internal/world"
)

// cellKey identifies a board cell within a single plan's visited set.
type cellKey struct{ Row, Col int }

// node is one entry in the best-first search frontier (spec.md §4.3): a
// snapshot of the world at this point in the plan, its cost, and the
// buffered actions that got it there.
type node struct {
	snapshot world.Snapshot
	gCost    int
	fCost    float64

	actions []world.Action
	visited map[cellKey]struct{}

	victimCaught bool
	targetCaught bool
}

// clone produces a child node sharing no mutable state with its parent,
// since a plan node's visited set and action buffer must not be shared
// across sibling expansions (spec.md §4.3: "per-plan visited set").
func (n *node) clone() *node {
	visited := make(map[cellKey]struct{}, len(n.visited)+1)
	for k := range n.visited {
		visited[k] = struct{}{}
	}
	actions := make([]world.Action, len(n.actions), len(n.actions)+1)
	copy(actions, n.actions)
	return &node{
		gCost:   n.gCost,
		actions: actions,
		visited: visited,
	}
}

// frontier is a container/heap priority queue of nodes, ordered by
// ascending fCost (spec.md §4.3: "Ordering is ascending fCost; tie-break
// is arbitrary but stable within a plan").
type frontier []*node

func (f frontier) Len() int            { return len(f) }
func (f frontier) Less(i, j int) bool  { return f[i].fCost < f[j].fCost }
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(*node)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

var _ heap.Interface = (*frontier)(nil)

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(f)
	return f
}

func (f *frontier) push(n *node) { heap.Push(f, n) }
func (f *frontier) pop() *node   { return heap.Pop(f).(*node) }
func (f *frontier) empty() bool  { return f.Len() == 0 }

// directionsFor returns the candidate directions to expand from a node:
// all four cardinals, plus None only when no ghost is currently being
// hunted (spec.md §4.3: "including None only if victim = None, to allow
// deliberate stalling when no ghost is being chased").
func directionsFor(victim model.GhostColor) []model.Direction {
	if victim == model.NoGhost {
		return []model.Direction{model.Up, model.Left, model.Down, model.Right, model.None}
	}
	return []model.Direction{model.Up, model.Left, model.Down, model.Right}
}
