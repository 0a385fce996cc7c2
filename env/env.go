package env

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"os"
	"strconv"
)

const (
	LogLevel      = "PETRI_LOG_LEVEL"
	MaxIterations = "PETRI_MAX_ITERATIONS"
	SolverNodes   = "PETRI_SOLVER_NODES"
	Output        = "PETRI_OUTPUT"
)

type Environment struct {
	LogLevel string
	// MaxIterations bounds both the symbolic fixed point and the deadlock
	// search. Zero means no limit.
	MaxIterations int
	SolverNodes   int
	Output        string
}

func Default() *Environment {
	return &Environment{
		LogLevel: "warn",
		Output:   "text",
	}
}

// LoadEnv reads the given dotenv files, .env when none is given, and then the
// process environment. Missing files are skipped. Variables already set in the
// process win over the files.
func LoadEnv(logger *zap.Logger, files ...string) (*Environment, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no env file", zap.String("file", f))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	e := Default()
	if v, ok := os.LookupEnv(LogLevel); ok {
		e.LogLevel = v
	}
	if v, ok := os.LookupEnv(Output); ok {
		e.Output = v
	}
	var err error
	err = multierr.Append(err, lookupInt(MaxIterations, &e.MaxIterations))
	err = multierr.Append(err, lookupInt(SolverNodes, &e.SolverNodes))
	if err != nil {
		return nil, err
	}
	logger.Debug("environment loaded",
		zap.String("logLevel", e.LogLevel),
		zap.Int("maxIterations", e.MaxIterations),
		zap.Int("solverNodes", e.SolverNodes),
		zap.String("output", e.Output),
	)
	return e, nil
}

func lookupInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if i < 0 {
		return fmt.Errorf("%s: %d is negative", key, i)
	}
	*dst = i
	return nil
}
