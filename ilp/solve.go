package ilp

import (
	"errors"
	"fmt"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"math"
)

const (
	// intTol is how far from an integer a relaxed value may be and still be
	// taken as integral.
	intTol = 1e-6
	lpTol  = 1e-10
)

type bounds struct {
	lower []float64
	upper []float64
}

func (b bounds) clone() bounds {
	return bounds{
		lower: append([]float64(nil), b.lower...),
		upper: append([]float64(nil), b.upper...),
	}
}

// Solve runs a depth first branch and bound and returns the first integral
// point it finds. Branches round the most fractional variable down before
// trying it rounded up. ErrInfeasible is returned once every branch is pruned.
func (p *Problem) Solve() (*Solution, error) {
	root := bounds{lower: p.lower, upper: p.upper}
	stack := []bounds{root.clone()}
	nodes := 0
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.nodeLimit > 0 && nodes >= p.nodeLimit {
			return nil, fmt.Errorf("%w (%d nodes)", ErrNodeLimit, nodes)
		}
		nodes++
		x, err := p.relax(b)
		if errors.Is(err, ErrInfeasible) {
			continue
		}
		if err != nil {
			return nil, err
		}
		j := mostFractional(x)
		if j < 0 {
			sol := p.solution(x, nodes)
			p.logger.Debug("integral point found",
				zap.Int("nodes", nodes),
				zap.Float64("objective", sol.Objective),
			)
			return sol, nil
		}
		f := math.Floor(x[j])
		up := b.clone()
		up.lower[j] = f + 1
		down := b.clone()
		down.upper[j] = f
		stack = append(stack, up, down)
	}
	p.logger.Debug("branch and bound exhausted", zap.Int("nodes", nodes))
	return nil, ErrInfeasible
}

func (p *Problem) solution(x []float64, nodes int) *Solution {
	values := make([]float64, len(x))
	for j, v := range x {
		values[j] = math.Round(v)
	}
	obj := 0.0
	for _, t := range p.objective {
		obj += t.Coef * values[t.Var]
	}
	return &Solution{Values: values, Objective: obj, Nodes: nodes}
}

func mostFractional(x []float64) int {
	best, idx := intTol, -1
	for j, v := range x {
		frac := v - math.Floor(v)
		if d := math.Min(frac, 1-frac); d > best {
			best, idx = d, j
		}
	}
	return idx
}

type row struct {
	a   []float64
	op  Op
	rhs float64
}

func (r row) zero() bool {
	for _, v := range r.a {
		if v != 0 {
			return false
		}
	}
	return true
}

// holds reports whether 0 op rhs.
func (r row) holds() bool {
	switch r.op {
	case Le:
		return r.rhs >= -intTol
	case Ge:
		return r.rhs <= intTol
	}
	return math.Abs(r.rhs) <= intTol
}

// relax solves the linear relaxation within b. Variables are shifted by their
// lower bound so that the standard form x >= 0 holds, every finite upper bound
// and every inequality gets its own slack column, and variables no row uses
// are left out of the matrix and sit at their lower bound.
func (p *Problem) relax(b bounds) ([]float64, error) {
	n := len(p.names)
	for j := 0; j < n; j++ {
		if b.upper[j] < b.lower[j] {
			return nil, ErrInfeasible
		}
	}

	var rows []row
	add := func(r row) error {
		if r.zero() {
			if !r.holds() {
				return ErrInfeasible
			}
			return nil
		}
		rows = append(rows, r)
		return nil
	}
	for _, c := range p.constraints {
		r := row{a: make([]float64, n), op: c.Op, rhs: c.RHS}
		for _, t := range c.Expr {
			r.a[t.Var] += t.Coef
		}
		for j, v := range r.a {
			r.rhs -= v * b.lower[j]
		}
		if err := add(r); err != nil {
			return nil, err
		}
	}
	for j := 0; j < n; j++ {
		if math.IsInf(b.upper[j], 1) {
			continue
		}
		r := row{a: make([]float64, n), op: Le, rhs: b.upper[j] - b.lower[j]}
		r.a[j] = 1
		if err := add(r); err != nil {
			return nil, err
		}
	}

	cost := make([]float64, n)
	for _, t := range p.objective {
		cost[t.Var] += t.Coef
	}

	// column of every used variable, -1 for the rest
	col := make([]int, n)
	cols := 0
	for j := 0; j < n; j++ {
		col[j] = -1
		for _, r := range rows {
			if r.a[j] != 0 {
				col[j] = cols
				cols++
				break
			}
		}
		if col[j] < 0 && cost[j] < 0 {
			return nil, fmt.Errorf("%w: %s decreases the objective without limit", ErrUnbounded, p.names[j])
		}
	}
	slacks := 0
	for _, r := range rows {
		if r.op != Eq {
			slacks++
		}
	}

	m, width := len(rows), cols+slacks
	y := make([]float64, width)
	if m > width {
		return nil, fmt.Errorf("ilp: %d rows over %d columns, equality rows are dependent", m, width)
	}
	if m > 0 {
		A := mat.NewDense(m, width, nil)
		rhs := make([]float64, m)
		s := cols
		for i, r := range rows {
			for j, v := range r.a {
				if v != 0 {
					A.Set(i, col[j], v)
				}
			}
			switch r.op {
			case Le:
				A.Set(i, s, 1)
				s++
			case Ge:
				A.Set(i, s, -1)
				s++
			}
			rhs[i] = r.rhs
		}
		c := make([]float64, width)
		for j := 0; j < n; j++ {
			if col[j] >= 0 {
				c[col[j]] = cost[j]
			}
		}
		var err error
		if m == width {
			y, err = square(A, rhs)
		} else {
			_, y, err = lp.Simplex(c, A, rhs, lpTol, nil)
		}
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return nil, ErrInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return nil, ErrUnbounded
		case err != nil:
			return nil, fmt.Errorf("ilp: %w", err)
		}
	}

	x := make([]float64, n)
	for j := 0; j < n; j++ {
		x[j] = b.lower[j]
		if col[j] >= 0 {
			x[j] += y[col[j]]
		}
	}
	return x, nil
}

// square solves a system with as many rows as columns, where the only
// candidate point is the solution of A y = b.
func square(A *mat.Dense, b []float64) ([]float64, error) {
	n := len(b)
	y := make([]float64, n)
	yv := mat.NewVecDense(n, y)
	if err := yv.SolveVec(A, mat.NewVecDense(n, b)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, err
		}
	}
	y = yv.RawVector().Data
	for i, v := range y {
		if v < -intTol {
			return nil, lp.ErrInfeasible
		}
		if v < 0 {
			y[i] = 0
		}
	}
	return y, nil
}
