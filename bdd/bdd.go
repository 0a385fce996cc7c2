// Package bdd implements reduced ordered binary decision diagrams stored in an
// owned node arena.
//
// Every Arena keeps its own unique table, so two structurally equal functions
// built in the same Arena are the same Node and function equality is a plain
// == comparison. Variables are ordered by index: variable 0 is tested first.
//
// An Arena is not safe for concurrent use while nodes are being created.
// Read-only operations (Eval, AllSat, SatCount, NodeCount, Walk) never create
// nodes and may run concurrently once construction is finished.
package bdd

import (
	"fmt"
)

// Node is a handle to a function in an Arena. It is only meaningful for the
// Arena that created it.
type Node int32

const (
	False Node = 0
	True  Node = 1
)

type node struct {
	level int32
	low   Node
	high  Node
}

type op uint8

const (
	opAnd op = iota
	opOr
	opXor
	opImp
	opBiimp
	opNot
)

type cacheKey struct {
	op   op
	a, b Node
}

// Arena owns the nodes of one family of diagrams over a fixed number of
// variables.
type Arena struct {
	varnum int
	nodes  []node
	unique map[node]Node
	cache  map[cacheKey]Node
	limit  int
}

type Option func(*Arena)

// WithCacheLimit bounds the number of memoized operation results. The cache is
// dropped when it grows past the limit.
func WithCacheLimit(n int) Option {
	return func(a *Arena) {
		a.limit = n
	}
}

// WithCapacity preallocates room for n nodes.
func WithCapacity(n int) Option {
	return func(a *Arena) {
		a.nodes = make([]node, 0, n)
		a.unique = make(map[node]Node, n)
	}
}

// New returns an Arena over varnum variables.
func New(varnum int, opts ...Option) *Arena {
	a := &Arena{
		varnum: varnum,
		limit:  1 << 20,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.nodes == nil {
		a.nodes = make([]node, 0, 1024)
		a.unique = make(map[node]Node, 1024)
	}
	a.cache = make(map[cacheKey]Node)
	// terminals sit below every variable
	a.nodes = append(a.nodes,
		node{level: int32(varnum), low: False, high: False},
		node{level: int32(varnum), low: True, high: True},
	)
	return a
}

// Varnum returns the number of variables of the arena.
func (a *Arena) Varnum() int {
	return a.varnum
}

// Size returns the number of nodes allocated so far, terminals included.
func (a *Arena) Size() int {
	return len(a.nodes)
}

func (a *Arena) level(n Node) int32 {
	return a.nodes[n].level
}

// Level returns the variable tested by n, or Varnum for a terminal.
func (a *Arena) Level(n Node) int {
	return int(a.nodes[n].level)
}

// Low returns the branch taken when the variable of n is false.
func (a *Arena) Low(n Node) Node {
	return a.nodes[n].low
}

// High returns the branch taken when the variable of n is true.
func (a *Arena) High(n Node) Node {
	return a.nodes[n].high
}

func (a *Arena) mk(level int32, low, high Node) Node {
	if low == high {
		return low
	}
	key := node{level: level, low: low, high: high}
	if n, ok := a.unique[key]; ok {
		return n
	}
	n := Node(len(a.nodes))
	a.nodes = append(a.nodes, key)
	a.unique[key] = n
	return n
}

func (a *Arena) checkVar(i int) {
	if i < 0 || i >= a.varnum {
		panic(fmt.Sprintf("bdd: variable %d out of range [0, %d)", i, a.varnum))
	}
}

// Var returns the function that is true when variable i is true.
func (a *Arena) Var(i int) Node {
	a.checkVar(i)
	return a.mk(int32(i), False, True)
}

// NVar returns the function that is true when variable i is false.
func (a *Arena) NVar(i int) Node {
	a.checkVar(i)
	return a.mk(int32(i), True, False)
}

// Literal returns Var(i) when value is true and NVar(i) otherwise.
func (a *Arena) Literal(i int, value bool) Node {
	if value {
		return a.Var(i)
	}
	return a.NVar(i)
}

// From returns the constant function for v.
func From(v bool) Node {
	if v {
		return True
	}
	return False
}

// Cube returns the conjunction of the positive literals of vars.
func (a *Arena) Cube(vars []int) Node {
	res := True
	for _, v := range vars {
		res = a.And(res, a.Var(v))
	}
	return res
}

func (a *Arena) remember(k cacheKey, n Node) Node {
	if len(a.cache) >= a.limit {
		a.cache = make(map[cacheKey]Node)
	}
	a.cache[k] = n
	return n
}
