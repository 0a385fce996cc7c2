// Package symbolic computes the reachable markings of a 1-safe net as a binary
// decision diagram.
//
// Place p is encoded by two variables: 2p for its current value and 2p+1 for
// its value after one firing. The transition relation is the disjunction of one
// relation per transition, and the reachable set is the least fixed point of
// Reached = Reached | Image(Reached), reached when the diagram stops changing.
package symbolic

import (
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/bdd"
	"go.uber.org/zap"
)

var ErrIterationLimit = errors.New("symbolic: iteration limit reached before fixed point")

type config struct {
	logger        *zap.Logger
	maxIterations int
	arenaOpts     []bdd.Option
}

type Option func(*config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxIterations stops the fixed point computation after n image steps.
// Zero means no limit.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		c.maxIterations = n
	}
}

// WithArenaOptions forwards options to the node arena.
func WithArenaOptions(opts ...bdd.Option) Option {
	return func(c *config) {
		c.arenaOpts = append(c.arenaOpts, opts...)
	}
}

func cur(p int) int  { return 2 * p }
func next(p int) int { return 2*p + 1 }

// Reachable computes the set of markings reachable from the initial marking.
func Reachable(net *safenet.Net, opts ...Option) (*Set, error) {
	cfg := &config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	np := net.NumPlaces()
	a := bdd.New(2*np, cfg.arenaOpts...)

	init := initial(a, net.Initial)
	rel := relation(a, net)

	curVars := make([]int, np)
	nextVars := make([]int, np)
	for p := 0; p < np; p++ {
		curVars[p] = cur(p)
		nextVars[p] = next(p)
	}
	curCube := a.Cube(curVars)
	toCur, err := a.NewPermutation(nextVars, curVars)
	if err != nil {
		return nil, fmt.Errorf("symbolic: %w", err)
	}

	reached := init
	iter := 0
	for {
		if cfg.maxIterations > 0 && iter >= cfg.maxIterations {
			cfg.logger.Warn("fixed point not reached",
				zap.String("net", net.Name),
				zap.Int("iterations", iter),
			)
			return nil, fmt.Errorf("%w (%d iterations)", ErrIterationLimit, iter)
		}
		iter++
		image := a.Replace(a.AndExist(curCube, reached, rel), toCur)
		nextReached := a.Or(reached, image)
		if ce := cfg.logger.Check(zap.DebugLevel, "image step"); ce != nil {
			ce.Write(zap.Int("iteration", iter), zap.Int("nodes", a.NodeCount(nextReached)))
		}
		if nextReached == reached {
			break
		}
		reached = nextReached
	}

	s := &Set{
		arena:      a,
		root:       reached,
		places:     net.PlaceIDs,
		vars:       curVars,
		iterations: iter,
	}
	cfg.logger.Info("symbolic reachability",
		zap.String("net", net.Name),
		zap.Int("iterations", iter),
		zap.String("markings", s.Count().String()),
		zap.Int("nodes", s.NodeCount()),
	)
	return s, nil
}

// initial encodes m as the conjunction of one literal per place.
func initial(a *bdd.Arena, m safenet.Marking) bdd.Node {
	res := bdd.True
	for p := len(m) - 1; p >= 0; p-- {
		res = a.And(a.Literal(cur(p), m[p] == 1), res)
	}
	return res
}

// relation returns the one step transition relation R(x, x') of the net.
func relation(a *bdd.Arena, net *safenet.Net) bdd.Node {
	rel := bdd.False
	for t := 0; t < net.NumTransitions(); t++ {
		rel = a.Or(rel, transition(a, net, t))
	}
	return rel
}

// transition encodes the firing of t: every input is marked now, outputs are
// marked next, inputs that are not outputs are empty next, and every other
// place keeps its value.
func transition(a *bdd.Arena, net *safenet.Net, t int) bdd.Node {
	np := net.NumPlaces()
	effect := make([]int, np)
	for p := range effect {
		effect[p] = -1
	}
	for _, p := range net.Inputs(t) {
		effect[p] = 0
	}
	for _, p := range net.Outputs(t) {
		effect[p] = 1
	}
	res := bdd.True
	// build bottom up so each conjunction adds nodes above the previous ones
	for p := np - 1; p >= 0; p-- {
		var frame bdd.Node
		switch effect[p] {
		case 1:
			frame = a.Var(next(p))
		case 0:
			frame = a.NVar(next(p))
		default:
			frame = a.Biimp(a.Var(cur(p)), a.Var(next(p)))
		}
		res = a.And(frame, res)
	}
	for _, p := range net.Inputs(t) {
		res = a.And(a.Var(cur(p)), res)
	}
	return res
}
