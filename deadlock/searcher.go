package deadlock

import (
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/ilp"
	"go.uber.org/zap"
)

// Verdict is the outcome of one Searcher step.
type Verdict int

const (
	// Found means the candidate is a reachable dead marking.
	Found Verdict = iota
	// Spurious means the candidate is dead and satisfies the state equation
	// but is not reachable. It has been cut from the program.
	Spurious
	// Infeasible means no dead marking satisfies the state equation anymore.
	Infeasible
	// SourceTransition means the net has a transition without inputs, which
	// is enabled at every marking.
	SourceTransition
)

func (v Verdict) String() string {
	switch v {
	case Found:
		return "found"
	case Spurious:
		return "spurious"
	case Infeasible:
		return "infeasible"
	case SourceTransition:
		return "source transition"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Terminal reports whether no further step can change the outcome.
func (v Verdict) Terminal() bool {
	return v != Spurious
}

// Oracle decides membership of a marking in the reachable set.
type Oracle interface {
	Contains(m safenet.Marking) bool
}

// Searcher proposes dead markings satisfying the state equation one at a time
// and cuts each one that the oracle rejects. The integer program is built
// once and every cut is added to it.
type Searcher struct {
	net     *safenet.Net
	oracle  Oracle
	cfg     *config
	problem *ilp.Problem
	m       []ilp.Var
	sigma   []ilp.Var

	cuts       []safenet.Marking
	iterations int
	parikh     []int
	terminal   *Verdict
	found      safenet.Marking
}

// NewSearcher builds the integer program for net. When the net has a source
// transition no program is built and the first step reports it.
func NewSearcher(net *safenet.Net, oracle Oracle, opts ...Option) *Searcher {
	cfg := newConfig(opts)
	s := &Searcher{
		net:    net,
		oracle: oracle,
		cfg:    cfg,
	}
	if src := net.SourceTransitions(); len(src) > 0 {
		v := SourceTransition
		s.terminal = &v
		cfg.logger.Info("net has a source transition, no marking is dead",
			zap.String("transition", net.TransIDs[src[0]]),
		)
		return s
	}
	s.build()
	return s
}

func (s *Searcher) build() {
	net := s.net
	nodeOpts := []ilp.Option{ilp.WithLogger(s.cfg.logger.Named("ilp"))}
	if s.cfg.solverNodes > 0 {
		nodeOpts = append(nodeOpts, ilp.WithNodeLimit(s.cfg.solverNodes))
	}
	p := ilp.NewProblem(nodeOpts...)
	s.m = make([]ilp.Var, net.NumPlaces())
	for i, id := range net.PlaceIDs {
		s.m[i] = p.AddBinary("M[" + id + "]")
	}
	s.sigma = make([]ilp.Var, net.NumTransitions())
	for t, id := range net.TransIDs {
		s.sigma[t] = p.AddInteger("Sigma["+id+"]", 0)
	}

	// M = M0 + C·Sigma
	c := net.Incidence()
	for i := range s.m {
		row := ilp.Expr{}.Plus(s.m[i], 1)
		if c != nil {
			for t := range s.sigma {
				if v := c.At(t, i); v != 0 {
					row = row.Plus(s.sigma[t], -v)
				}
			}
		}
		p.AddConstraint(row, ilp.Eq, float64(net.Initial[i]))
	}

	// at least one input of every transition is empty
	for t := range s.sigma {
		in := net.Inputs(t)
		row := make(ilp.Expr, 0, len(in))
		for _, i := range in {
			row = row.Plus(s.m[i], 1)
		}
		p.AddConstraint(row, ilp.Le, float64(len(in)-1))
	}

	// Fewest firings keeps the relaxations bounded. Any feasible point is a candidate.
	p.Minimize(ilp.Sum(s.sigma...))
	s.problem = p
}

// Step solves the program once and classifies the candidate. After a terminal
// verdict every further call returns the same verdict without solving.
func (s *Searcher) Step() (Verdict, safenet.Marking, error) {
	if s.terminal != nil {
		return *s.terminal, s.found, nil
	}
	sol, err := s.problem.Solve()
	if errors.Is(err, ilp.ErrInfeasible) {
		v := Infeasible
		s.terminal = &v
		s.cfg.logger.Debug("state equation infeasible", zap.Int("cuts", len(s.cuts)))
		return v, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("deadlock: solving after %d cuts: %w", len(s.cuts), err)
	}
	s.iterations++

	cand := make(safenet.Marking, len(s.m))
	for i, v := range s.m {
		cand[i] = sol.Int(v)
	}
	s.parikh = make([]int, len(s.sigma))
	for t, v := range s.sigma {
		s.parikh[t] = sol.Int(v)
	}

	if s.oracle.Contains(cand) {
		v := Found
		s.terminal = &v
		s.found = cand
		s.cfg.logger.Debug("dead marking is reachable",
			zap.Stringer("marking", cand),
			zap.Int("iteration", s.iterations),
		)
		return v, cand, nil
	}
	s.cut(cand)
	s.cfg.logger.Debug("spurious dead marking",
		zap.Stringer("marking", cand),
		zap.Int("iteration", s.iterations),
		zap.Int("solverNodes", sol.Nodes),
	)
	return Spurious, cand, nil
}

// cut excludes exactly m from the program:
// Σ_{p marked} M[p] - Σ_{p empty} M[p] <= |marked| - 1.
func (s *Searcher) cut(m safenet.Marking) {
	row := make(ilp.Expr, 0, len(m))
	ones := 0
	for i, v := range m {
		if v == 1 {
			row = row.Plus(s.m[i], 1)
			ones++
		} else {
			row = row.Plus(s.m[i], -1)
		}
	}
	s.problem.AddConstraint(row, ilp.Le, float64(ones-1))
	s.cuts = append(s.cuts, m.Clone())
}

// Cuts returns the markings excluded so far, in the order they were found.
func (s *Searcher) Cuts() []safenet.Marking {
	ret := make([]safenet.Marking, len(s.cuts))
	for i, m := range s.cuts {
		ret[i] = m.Clone()
	}
	return ret
}

// Iterations returns the number of candidates proposed.
func (s *Searcher) Iterations() int {
	return s.iterations
}

// Parikh returns the firing counts of the last candidate, indexed by
// transition. It is nil before the first candidate.
func (s *Searcher) Parikh() []int {
	return s.parikh
}

// Problem exposes the integer program, mainly for inspection.
func (s *Searcher) Problem() *ilp.Problem {
	return s.problem
}
