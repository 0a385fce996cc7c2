// Package ilp solves small mixed integer linear programs by branch and bound
// over the simplex method of gonum.
//
// Every variable is integral and bounded below. A Problem is built
// incrementally and may be solved again after more constraints are added.
package ilp

import (
	"errors"
	"fmt"
	"go.uber.org/zap"
	"math"
	"strings"
)

var (
	ErrInfeasible = errors.New("ilp: problem is infeasible")
	ErrUnbounded  = errors.New("ilp: problem is unbounded")
	ErrNodeLimit  = errors.New("ilp: branch and bound node limit reached")
)

// Var is a variable of a Problem.
type Var int

// Op is the relation of a constraint.
type Op int

const (
	Le Op = iota
	Ge
	Eq
)

func (o Op) String() string {
	switch o {
	case Le:
		return "<="
	case Ge:
		return ">="
	case Eq:
		return "="
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Term is one coefficient of a linear expression.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression. A variable may appear more than once, its
// coefficients are summed.
type Expr []Term

// Plus returns e with coef·v appended.
func (e Expr) Plus(v Var, coef float64) Expr {
	return append(e, Term{Var: v, Coef: coef})
}

// Sum returns the expression adding every variable of vars with coefficient 1.
func Sum(vars ...Var) Expr {
	e := make(Expr, len(vars))
	for i, v := range vars {
		e[i] = Term{Var: v, Coef: 1}
	}
	return e
}

// Constraint is a linear row Expr Op RHS.
type Constraint struct {
	Expr Expr
	Op   Op
	RHS  float64
}

// Problem is an integer program: minimize the objective over integral values
// within bounds subject to every constraint.
type Problem struct {
	names       []string
	lower       []float64
	upper       []float64
	constraints []Constraint
	objective   Expr

	nodeLimit int
	logger    *zap.Logger
}

type Option func(*Problem)

// WithNodeLimit stops Solve after n relaxations. Zero means no limit.
func WithNodeLimit(n int) Option {
	return func(p *Problem) {
		p.nodeLimit = n
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Problem) {
		p.logger = logger
	}
}

func NewProblem(opts ...Option) *Problem {
	p := &Problem{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Problem) add(name string, lower, upper float64) Var {
	v := Var(len(p.names))
	p.names = append(p.names, name)
	p.lower = append(p.lower, lower)
	p.upper = append(p.upper, upper)
	return v
}

// AddBinary adds a variable taking the values 0 or 1.
func (p *Problem) AddBinary(name string) Var {
	return p.add(name, 0, 1)
}

// AddInteger adds an integral variable with no upper bound.
func (p *Problem) AddInteger(name string, lower int) Var {
	return p.add(name, float64(lower), math.Inf(1))
}

// AddConstraint appends the row e op rhs. Equality rows must be linearly
// independent of each other.
func (p *Problem) AddConstraint(e Expr, op Op, rhs float64) {
	for _, t := range e {
		p.checkVar(t.Var)
	}
	p.constraints = append(p.constraints, Constraint{Expr: e, Op: op, RHS: rhs})
}

// Minimize sets the objective. The default objective is zero, so Solve returns
// any feasible point.
func (p *Problem) Minimize(e Expr) {
	for _, t := range e {
		p.checkVar(t.Var)
	}
	p.objective = e
}

func (p *Problem) checkVar(v Var) {
	if v < 0 || int(v) >= len(p.names) {
		panic(fmt.Sprintf("ilp: unknown variable %d", v))
	}
}

func (p *Problem) NumVars() int {
	return len(p.names)
}

func (p *Problem) NumConstraints() int {
	return len(p.constraints)
}

// Name returns the name v was added with.
func (p *Problem) Name(v Var) string {
	return p.names[v]
}

func (p *Problem) String() string {
	var sb strings.Builder
	sb.WriteString("minimize ")
	p.writeExpr(&sb, p.objective)
	for _, c := range p.constraints {
		sb.WriteString("\n  ")
		p.writeExpr(&sb, c.Expr)
		fmt.Fprintf(&sb, " %s %g", c.Op, c.RHS)
	}
	return sb.String()
}

func (p *Problem) writeExpr(sb *strings.Builder, e Expr) {
	if len(e) == 0 {
		sb.WriteString("0")
		return
	}
	for i, t := range e {
		switch {
		case i == 0 && t.Coef < 0:
			sb.WriteString("-")
		case i > 0 && t.Coef < 0:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		if c := math.Abs(t.Coef); c != 1 {
			fmt.Fprintf(sb, "%g·", c)
		}
		sb.WriteString(p.names[t.Var])
	}
}

// Solution is an integral point of a Problem.
type Solution struct {
	Values    []float64
	Objective float64
	// Nodes is the number of relaxations solved to find the point.
	Nodes int
}

func (s *Solution) Value(v Var) float64 {
	return s.Values[v]
}

func (s *Solution) Int(v Var) int {
	return int(math.Round(s.Values[v]))
}
