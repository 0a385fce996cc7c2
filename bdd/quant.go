package bdd

import (
	"fmt"
)

// varset is the set of variables of a cube, indexed by level.
func (a *Arena) varset(cube Node) []bool {
	set := make([]bool, a.varnum)
	for cube > True {
		set[a.level(cube)] = true
		cube = a.High(cube)
	}
	return set
}

type quantifier struct {
	a    *Arena
	set  []bool
	memo map[Node]Node
}

func (a *Arena) quantifier(cube Node) *quantifier {
	return &quantifier{a: a, set: a.varset(cube), memo: make(map[Node]Node)}
}

func (q *quantifier) exist(n Node) Node {
	if n <= True {
		return n
	}
	if res, ok := q.memo[n]; ok {
		return res
	}
	a := q.a
	low := q.exist(a.Low(n))
	var res Node
	if q.set[a.level(n)] {
		if low == True {
			res = True
		} else {
			res = a.Or(low, q.exist(a.High(n)))
		}
	} else {
		res = a.mk(a.level(n), low, q.exist(a.High(n)))
	}
	q.memo[n] = res
	return res
}

// Exist existentially quantifies the variables of cube out of n. The cube is
// a conjunction of positive literals such as the result of Cube.
func (a *Arena) Exist(n, cube Node) Node {
	return a.quantifier(cube).exist(n)
}

// AndExist computes Exist(And(l, r), cube) without building the conjunction.
func (a *Arena) AndExist(cube, l, r Node) Node {
	q := a.quantifier(cube)
	memo := make(map[[2]Node]Node)
	var relprod func(l, r Node) Node
	relprod = func(l, r Node) Node {
		switch {
		case l == False || r == False:
			return False
		case l == True && r == True:
			return True
		case l == True:
			return q.exist(r)
		case r == True:
			return q.exist(l)
		}
		if l > r {
			l, r = r, l
		}
		key := [2]Node{l, r}
		if res, ok := memo[key]; ok {
			return res
		}
		ll, rl := a.level(l), a.level(r)
		lvl := ll
		if rl < lvl {
			lvl = rl
		}
		l0, l1 := l, l
		if ll == lvl {
			l0, l1 = a.Low(l), a.High(l)
		}
		r0, r1 := r, r
		if rl == lvl {
			r0, r1 = a.Low(r), a.High(r)
		}
		var res Node
		if q.set[lvl] {
			low := relprod(l0, r0)
			if low == True {
				res = True
			} else {
				res = a.Or(low, relprod(l1, r1))
			}
		} else {
			res = a.mk(lvl, relprod(l0, r0), relprod(l1, r1))
		}
		memo[key] = res
		return res
	}
	return relprod(l, r)
}

// Permutation maps every variable to its replacement.
type Permutation []int

// NewPermutation renames old[i] to new[i] and keeps every other variable.
func (a *Arena) NewPermutation(old, new []int) (Permutation, error) {
	if len(old) != len(new) {
		return nil, fmt.Errorf("bdd: permutation has %d sources and %d targets", len(old), len(new))
	}
	perm := make(Permutation, a.varnum)
	for i := range perm {
		perm[i] = i
	}
	for i := range old {
		if old[i] < 0 || old[i] >= a.varnum || new[i] < 0 || new[i] >= a.varnum {
			return nil, fmt.Errorf("bdd: rename %d -> %d out of range [0, %d)", old[i], new[i], a.varnum)
		}
		perm[old[i]] = new[i]
	}
	return perm, nil
}

// Replace renames the variables of n according to perm. The renamed variables
// must not collide with variables n still depends on.
func (a *Arena) Replace(n Node, perm Permutation) Node {
	memo := make(map[Node]Node)
	var replace func(Node) Node
	replace = func(n Node) Node {
		if n <= True {
			return n
		}
		if res, ok := memo[n]; ok {
			return res
		}
		low, high := replace(a.Low(n)), replace(a.High(n))
		target := perm[a.level(n)]
		var res Node
		if int32(target) < a.level(low) && int32(target) < a.level(high) {
			res = a.mk(int32(target), low, high)
		} else {
			res = a.Ite(a.Var(target), high, low)
		}
		memo[n] = res
		return res
	}
	return replace(n)
}
