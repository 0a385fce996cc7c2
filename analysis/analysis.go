// Package analysis explores the reachable markings of a net one marking at a
// time.
package analysis

import (
	"fmt"
	"github.com/jt05610/safenet"
	"strings"
)

// Strategy selects the order in which the frontier is expanded.
type Strategy int

const (
	BreadthFirst Strategy = iota
	DepthFirst
)

func (s Strategy) String() string {
	switch s {
	case BreadthFirst:
		return "bfs"
	case DepthFirst:
		return "dfs"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts "bfs" or "dfs" in any case.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "bfs", "breadth-first":
		return BreadthFirst, nil
	case "dfs", "depth-first":
		return DepthFirst, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// Edge is one firing between two states of a Graph.
type Edge struct {
	From       int
	To         int
	Transition int
}

// Graph is the reachability graph of a net. States are in discovery order and
// States[0] is the initial marking.
type Graph struct {
	States []safenet.Marking
	Edges  []Edge
	// parent[i] is the edge that discovered state i, -1 for the initial state.
	parent []int
	index  map[string]int
}

// Explore returns every marking reachable from the initial marking, in the
// order the strategy discovers them.
func Explore(net *safenet.Net, strategy Strategy) []safenet.Marking {
	return StateGraph(net, strategy).States
}

// StateGraph explores the net like Explore and also records every firing.
func StateGraph(net *safenet.Net, strategy Strategy) *Graph {
	g := &Graph{
		index: make(map[string]int),
	}
	g.add(net.Initial.Clone(), -1)
	frontier := []int{0}
	for len(frontier) > 0 {
		var cur int
		if strategy == DepthFirst {
			cur = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		} else {
			cur = frontier[0]
			frontier = frontier[1:]
		}
		m := g.States[cur]
		for _, t := range net.EnabledTransitions(m) {
			succ := net.Fire(t, m)
			to, seen := g.index[succ.Key()]
			edge := len(g.Edges)
			if !seen {
				to = g.add(succ, edge)
				frontier = append(frontier, to)
			}
			g.Edges = append(g.Edges, Edge{From: cur, To: to, Transition: t})
		}
	}
	return g
}

func (g *Graph) add(m safenet.Marking, parent int) int {
	id := len(g.States)
	g.States = append(g.States, m)
	g.parent = append(g.parent, parent)
	g.index[m.Key()] = id
	return id
}

// Index returns the state id of m, or -1 if m was not reached.
func (g *Graph) Index(m safenet.Marking) int {
	if id, ok := g.index[m.Key()]; ok {
		return id
	}
	return -1
}

// Contains reports whether m was reached.
func (g *Graph) Contains(m safenet.Marking) bool {
	return g.Index(m) >= 0
}

// Path returns a firing sequence leading from the initial marking to state id.
func (g *Graph) Path(id int) []int {
	var rev []int
	for g.parent[id] >= 0 {
		e := g.Edges[g.parent[id]]
		rev = append(rev, e.Transition)
		id = e.From
	}
	path := make([]int, len(rev))
	for i, t := range rev {
		path[len(rev)-1-i] = t
	}
	return path
}

// Deadlocks returns the ids of the states without outgoing edges.
func (g *Graph) Deadlocks() []int {
	out := make([]bool, len(g.States))
	for _, e := range g.Edges {
		out[e.From] = true
	}
	var ret []int
	for id, ok := range out {
		if !ok {
			ret = append(ret, id)
		}
	}
	return ret
}

// Reachable reports whether target is reachable from the initial marking.
func Reachable(net *safenet.Net, target safenet.Marking) bool {
	return StateGraph(net, BreadthFirst).Contains(target)
}
