package symbolic

import (
	"errors"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/bdd"
	"math/big"
)

var errStop = errors.New("stop")

// Set is a set of markings represented by a binary decision diagram. It is
// immutable and safe for concurrent use.
type Set struct {
	arena      *bdd.Arena
	root       bdd.Node
	places     []string
	vars       []int
	iterations int
}

// Places returns the place identifiers, in the order used by markings of the
// set.
func (s *Set) Places() []string {
	return s.places
}

// Iterations returns the number of image steps taken to reach the fixed point.
func (s *Set) Iterations() int {
	return s.iterations
}

// Count returns the number of markings in the set.
func (s *Set) Count() *big.Int {
	return s.arena.SatCountOver(s.root, s.vars)
}

// IsEmpty reports whether the set has no marking.
func (s *Set) IsEmpty() bool {
	return s.root == bdd.False
}

// NodeCount returns the size of the diagram, terminals included.
func (s *Set) NodeCount() int {
	return s.arena.NodeCount(s.root)
}

// Contains reports whether m belongs to the set by evaluating the diagram at
// m. Markings of the wrong length are never members.
func (s *Set) Contains(m safenet.Marking) bool {
	if len(m) != len(s.vars) {
		return false
	}
	values := make([]int, s.arena.Varnum())
	for p, v := range s.vars {
		values[v] = m[p]
	}
	return s.arena.Eval(s.root, values)
}

// Equal reports whether both sets hold the same markings over the same places.
func (s *Set) Equal(o *Set) bool {
	if len(s.places) != len(o.places) {
		return false
	}
	for i := range s.places {
		if s.places[i] != o.places[i] {
			return false
		}
	}
	if s.arena == o.arena {
		return s.root == o.root
	}
	if s.Count().Cmp(o.Count()) != 0 {
		return false
	}
	equal := true
	_ = s.AllSat(func(cube []int) error {
		for _, m := range expand(cube) {
			if !o.Contains(m) {
				equal = false
				return errStop
			}
		}
		return nil
	})
	return equal
}

// AllSat calls fn with one partial marking per path of the diagram. Entries are
// 0 or 1 for places the path decides and -1 for places whose value does not
// matter on that path. The cubes are disjoint and together cover the set. The
// slice is reused between calls.
func (s *Set) AllSat(fn func(cube []int) error) error {
	cube := make([]int, len(s.vars))
	return s.arena.AllSat(s.root, func(values []int) error {
		for p, v := range s.vars {
			cube[p] = values[v]
		}
		return fn(cube)
	})
}

// Markings enumerates every marking of the set, don't-care places expanded.
func (s *Set) Markings() []safenet.Marking {
	var ret []safenet.Marking
	_ = s.AllSat(func(cube []int) error {
		ret = append(ret, expand(cube)...)
		return nil
	})
	return ret
}

// expand returns every full marking matching cube.
func expand(cube []int) []safenet.Marking {
	ret := []safenet.Marking{make(safenet.Marking, len(cube))}
	for p, v := range cube {
		if v >= 0 {
			for _, m := range ret {
				m[p] = v
			}
			continue
		}
		n := len(ret)
		for i := 0; i < n; i++ {
			m := ret[i].Clone()
			m[p] = 1
			ret = append(ret, m)
		}
	}
	return ret
}

// Root exposes the diagram for rendering.
func (s *Set) Root() (*bdd.Arena, bdd.Node) {
	return s.arena, s.root
}
