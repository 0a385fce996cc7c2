package bdd

import (
	"math/big"
)

// Eval returns the value of n under values, which holds 0 or 1 for every
// variable.
func (a *Arena) Eval(n Node, values []int) bool {
	for n > True {
		if values[a.level(n)] == 1 {
			n = a.High(n)
		} else {
			n = a.Low(n)
		}
	}
	return n == True
}

// SatCount returns the number of assignments of all Varnum variables that
// satisfy n.
func (a *Arena) SatCount(n Node) *big.Int {
	vars := make([]int, a.varnum)
	for i := range vars {
		vars[i] = i
	}
	return a.SatCountOver(n, vars)
}

// SatCountOver returns the number of assignments of vars that satisfy n. The
// variables n depends on must all be in vars, which is sorted ascending.
func (a *Arena) SatCountOver(n Node, vars []int) *big.Int {
	pos := make(map[int32]int, len(vars)+1)
	for i, v := range vars {
		pos[int32(v)] = i
	}
	pos[int32(a.varnum)] = len(vars)
	memo := make(map[Node]*big.Int)
	var count func(Node) *big.Int
	count = func(n Node) *big.Int {
		if n == False {
			return big.NewInt(0)
		}
		if n == True {
			return big.NewInt(1)
		}
		if c, ok := memo[n]; ok {
			return c
		}
		p := pos[a.level(n)]
		low := new(big.Int).Lsh(count(a.Low(n)), uint(pos[a.level(a.Low(n))]-p-1))
		high := new(big.Int).Lsh(count(a.High(n)), uint(pos[a.level(a.High(n))]-p-1))
		c := low.Add(low, high)
		memo[n] = c
		return c
	}
	return new(big.Int).Lsh(count(n), uint(pos[a.level(n)]))
}

// AllSat calls fn once for every path from n to True. The slice has one entry
// per variable: 0 or 1 for variables tested on the path, -1 for the rest,
// which do not influence the value of n along that path. The slice is reused
// between calls. AllSat stops at the first error returned by fn.
func (a *Arena) AllSat(n Node, fn func([]int) error) error {
	cube := make([]int, a.varnum)
	for i := range cube {
		cube[i] = -1
	}
	var walk func(Node) error
	walk = func(n Node) error {
		if n == False {
			return nil
		}
		if n == True {
			return fn(cube)
		}
		lvl := a.level(n)
		cube[lvl] = 0
		if err := walk(a.Low(n)); err != nil {
			return err
		}
		cube[lvl] = 1
		if err := walk(a.High(n)); err != nil {
			return err
		}
		cube[lvl] = -1
		return nil
	}
	return walk(n)
}

// Walk calls fn once for every node reachable from the roots, terminals
// included. Terminal nodes report level Varnum.
func (a *Arena) Walk(fn func(n Node, level int, low, high Node) error, roots ...Node) error {
	seen := make(map[Node]bool)
	var visit func(Node) error
	visit = func(n Node) error {
		if seen[n] {
			return nil
		}
		seen[n] = true
		if err := fn(n, a.Level(n), a.Low(n), a.High(n)); err != nil {
			return err
		}
		if n <= True {
			return nil
		}
		if err := visit(a.Low(n)); err != nil {
			return err
		}
		return visit(a.High(n))
	}
	for _, r := range roots {
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}

// NodeCount returns the number of distinct nodes reachable from the roots,
// terminals included.
func (a *Arena) NodeCount(roots ...Node) int {
	count := 0
	_ = a.Walk(func(Node, int, Node, Node) error {
		count++
		return nil
	}, roots...)
	return count
}
