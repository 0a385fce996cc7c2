// Package deadlock searches for a reachable marking in which no transition is
// enabled.
//
// Candidates come from the state equation M = M0 + C·Sigma with the
// constraint that every transition has an empty input place. The state
// equation over-approximates reachability, so every candidate is checked
// against the reachable set and excluded by a cut when it is not a member.
package deadlock

import (
	"context"
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"go.uber.org/zap"
)

var ErrIterationLimit = errors.New("deadlock: iteration limit reached")

type config struct {
	logger        *zap.Logger
	maxIterations int
	solverNodes   int
}

type Option func(*config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxIterations stops the search after n candidates. Zero means no limit.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		c.maxIterations = n
	}
}

// WithSolverNodeLimit bounds the branch and bound of each solve.
func WithSolverNodeLimit(n int) Option {
	return func(c *config) {
		c.solverNodes = n
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Result describes a finished search.
type Result struct {
	// Marking is the reachable dead marking, nil when there is none.
	Marking safenet.Marking
	// Iterations is the number of candidates proposed.
	Iterations int
	// Parikh holds the firing counts of the state equation solution that
	// produced Marking, indexed by transition.
	Parikh []int
	// Cuts are the unreachable candidates excluded along the way.
	Cuts []safenet.Marking
}

// Search returns a reachable dead marking of net, or nil when there is none.
func Search(ctx context.Context, net *safenet.Net, set Oracle, opts ...Option) (safenet.Marking, error) {
	res, err := SearchResult(ctx, net, set, opts...)
	if err != nil {
		return nil, err
	}
	return res.Marking, nil
}

// SearchResult runs the search like Search and reports how it went.
func SearchResult(ctx context.Context, net *safenet.Net, set Oracle, opts ...Option) (*Result, error) {
	s := NewSearcher(net, set, opts...)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if limit := s.cfg.maxIterations; limit > 0 && s.iterations >= limit {
			s.cfg.logger.Warn("deadlock search stopped",
				zap.String("net", net.Name),
				zap.Int("iterations", s.iterations),
			)
			return nil, fmt.Errorf("%w (%d candidates)", ErrIterationLimit, s.iterations)
		}
		v, m, err := s.Step()
		if err != nil {
			return nil, err
		}
		if !v.Terminal() {
			continue
		}
		res := &Result{
			Iterations: s.iterations,
			Cuts:       s.Cuts(),
		}
		if v == Found {
			res.Marking = m
			res.Parikh = s.parikh
		}
		s.cfg.logger.Info("deadlock search",
			zap.String("net", net.Name),
			zap.Stringer("verdict", v),
			zap.Int("iterations", s.iterations),
		)
		return res, nil
	}
}
