package engine

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v3"
)

type coordinateSet = orderedmap.OrderedMap[Coordinate, struct{}]

// DependencyGraph keeps formula edges keyed by coordinate.
//
// For `B1 = A1 * 2`:
//   - B1 is a dependant of A1 (reverse edge, used for propagation)
//   - A1 is a precedent of B1 (forward edge, used to supersede old edges on a fresh edit)
//
// Both sides keep insertion order so propagation is deterministic.
type DependencyGraph struct {
	dependants map[Coordinate]*coordinateSet
	precedents map[Coordinate]*coordinateSet
}

type cellState uint8

const (
	cellStateClean cellState = iota
	cellStateDirty
	cellStateRecomputing
)

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependants: map[Coordinate]*coordinateSet{},
		precedents: map[Coordinate]*coordinateSet{},
	}
}

// AddDependant records that the formula at dependant references source
func (g *DependencyGraph) AddDependant(source Coordinate, dependant Coordinate) {
	g.edgeSet(g.dependants, source).Set(dependant, struct{}{})
	g.edgeSet(g.precedents, dependant).Set(source, struct{}{})
}

// SetPrecedents supersedes every edge previously recorded for dependant
func (g *DependencyGraph) SetPrecedents(dependant Coordinate, sources []Coordinate) {
	g.ClearPrecedents(dependant)
	for _, source := range sources {
		g.AddDependant(source, dependant)
	}
}

func (g *DependencyGraph) ClearPrecedents(dependant Coordinate) {
	previous, ok := g.precedents[dependant]
	if !ok {
		return
	}

	for source := range previous.AllFromFront() {
		if dependants, ok := g.dependants[source]; ok {
			dependants.Delete(dependant)
			if dependants.Len() == 0 {
				delete(g.dependants, source)
			}
		}
	}

	delete(g.precedents, dependant)
}

func (g *DependencyGraph) Dependants(source Coordinate) []Coordinate {
	return g.list(g.dependants, source)
}

func (g *DependencyGraph) Precedents(dependant Coordinate) []Coordinate {
	return g.list(g.precedents, dependant)
}

// TransitiveDependants lists every cell reachable from source through reverse edges,
// breadth first. Source is included only when it depends on itself.
func (g *DependencyGraph) TransitiveDependants(source Coordinate) []Coordinate {
	alreadyFetched := map[Coordinate]bool{}
	result := make([]Coordinate, 0)

	queue := g.Dependants(source)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if alreadyFetched[current] {
			continue
		}
		alreadyFetched[current] = true
		result = append(result, current)
		queue = append(queue, g.Dependants(current)...)
	}

	return result
}

// FindCycle reports which of sources would close a loop if target started referencing it
func (g *DependencyGraph) FindCycle(target Coordinate, sources []Coordinate) (Coordinate, bool) {
	if len(sources) == 0 {
		return Coordinate{}, false
	}

	for _, source := range sources {
		if source == target {
			return source, true
		}
	}

	reachable := map[Coordinate]bool{}
	for _, dependant := range g.TransitiveDependants(target) {
		reachable[dependant] = true
	}

	for _, source := range sources {
		if reachable[source] {
			return source, true
		}
	}

	return Coordinate{}, false
}

type traversalFrame struct {
	at      Coordinate
	pending []Coordinate
}

// RecalculationOrder returns the transitive dependants of source in topological order,
// so each of them is recomputed exactly once after a write to source.
// Marks are scoped to this call: re-entering a cell that is still being recomputed
// means the traversal came back along a cycle.
func (g *DependencyGraph) RecalculationOrder(source Coordinate) ([]Coordinate, error) {
	states := map[Coordinate]cellState{source: cellStateRecomputing}
	finished := make([]Coordinate, 0)
	stack := []traversalFrame{{at: source, pending: g.Dependants(source)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if len(top.pending) == 0 {
			states[top.at] = cellStateDirty
			finished = append(finished, top.at)
			stack = stack[:len(stack)-1]
			continue
		}

		next := top.pending[0]
		top.pending = top.pending[1:]

		switch states[next] {
		case cellStateRecomputing:
			return nil, fmt.Errorf("%s -> %s: %w", top.at, next, CircularDependencyError)
		case cellStateDirty:
			continue
		}

		states[next] = cellStateRecomputing
		stack = append(stack, traversalFrame{at: next, pending: g.Dependants(next)})
	}

	// finished holds a post-order with source last
	order := make([]Coordinate, 0, len(finished)-1)
	for index := len(finished) - 2; index >= 0; index-- {
		order = append(order, finished[index])
	}

	return order, nil
}

func (g *DependencyGraph) edgeSet(edges map[Coordinate]*coordinateSet, key Coordinate) *coordinateSet {
	set, ok := edges[key]
	if !ok {
		set = orderedmap.NewOrderedMap[Coordinate, struct{}]()
		edges[key] = set
	}
	return set
}

func (g *DependencyGraph) list(edges map[Coordinate]*coordinateSet, key Coordinate) []Coordinate {
	set, ok := edges[key]
	if !ok {
		return []Coordinate{}
	}

	result := make([]Coordinate, 0, set.Len())
	for coordinate := range set.AllFromFront() {
		result = append(result, coordinate)
	}
	return result
}
