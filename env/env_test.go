package env_test

import (
	"github.com/jt05610/safenet/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"testing"
)

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		// t.Setenv restores the value after the test
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadEnv_Defaults(t *testing.T) {
	unset(t, env.LogLevel, env.MaxIterations, env.SolverNodes, env.Output)
	e, err := env.LoadEnv(zap.NewNop(), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, env.Default(), e)
}

func TestLoadEnv_File(t *testing.T) {
	unset(t, env.LogLevel, env.MaxIterations, env.SolverNodes, env.Output)
	f := filepath.Join(t.TempDir(), "petri.env")
	require.NoError(t, os.WriteFile(f, []byte("PETRI_LOG_LEVEL=debug\nPETRI_MAX_ITERATIONS=50\nPETRI_SOLVER_NODES=1000\n"), 0o644))
	t.Setenv(env.Output, "yaml")

	e, err := env.LoadEnv(zap.NewNop(), f)
	require.NoError(t, err)
	assert.Equal(t, "debug", e.LogLevel)
	assert.Equal(t, 50, e.MaxIterations)
	assert.Equal(t, 1000, e.SolverNodes)
	assert.Equal(t, "yaml", e.Output)
}

func TestLoadEnv_Invalid(t *testing.T) {
	unset(t, env.LogLevel, env.Output)
	t.Setenv(env.MaxIterations, "many")
	t.Setenv(env.SolverNodes, "-3")
	_, err := env.LoadEnv(zap.NewNop(), filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), env.MaxIterations)
	assert.Contains(t, err.Error(), env.SolverNodes)
}
