package optimize_test

import (
	"errors"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/examples"
	"github.com/jt05610/safenet/optimize"
	"github.com/jt05610/safenet/symbolic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

type cubes struct {
	places []string
	list   [][]int
}

func (c cubes) Places() []string { return c.places }

func (c cubes) AllSat(fn func([]int) error) error {
	for _, cube := range c.list {
		if err := fn(cube); err != nil {
			return err
		}
	}
	return nil
}

func TestMaximize_Handoff(t *testing.T) {
	net := examples.Handoff()
	set, err := symbolic.Reachable(net)
	require.NoError(t, err)

	m, v, ok, err := optimize.Maximize(net.PlaceIDs, set, []float64{0, 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, safenet.Marking{0, 1}, m)
	assert.Equal(t, 1.0, v)

	m, v, ok, err = optimize.Maximize(net.PlaceIDs, set, []float64{0, 0})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.True(t, set.Contains(m))
}

func TestMaximize_Mutex(t *testing.T) {
	net := examples.Mutex()
	set, err := symbolic.Reachable(net)
	require.NoError(t, err)
	cost, err := optimize.CostVector(net, `id contains "Running" ? 10 : 0`)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 0, 10, 0}, cost)

	m, v, ok, err := optimize.Maximize(net.PlaceIDs, set, cost)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
	assert.True(t, set.Contains(m))
	// the lock admits one running process
	assert.Equal(t, 1, m[net.Place("Running1")]+m[net.Place("Running2")])

	cost[net.Place("Lock")] = 11
	m, v, _, err = optimize.Maximize(net.PlaceIDs, set, cost)
	require.NoError(t, err)
	assert.Equal(t, 11.0, v)
	assert.Equal(t, safenet.Marking{1, 0, 1, 0, 1}, m)
}

func TestMaximize_Empty(t *testing.T) {
	m, v, ok, err := optimize.Maximize([]string{"a"}, cubes{places: []string{"a"}}, []float64{1})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, m)
	assert.Equal(t, 0.0, v)
}

func TestMaximize_CostLength(t *testing.T) {
	net := examples.Handoff()
	set, err := symbolic.Reachable(net)
	require.NoError(t, err)
	_, _, _, err = optimize.Maximize(net.PlaceIDs, set, []float64{1})
	assert.True(t, errors.Is(err, optimize.ErrCostLength))
}

func TestMaximize_NonFinite(t *testing.T) {
	net := examples.Handoff()
	set, err := symbolic.Reachable(net)
	require.NoError(t, err)
	for _, c := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, _, ok, err := optimize.Maximize(net.PlaceIDs, set, []float64{c, 1})
		assert.ErrorIs(t, err, optimize.ErrCostValue)
		assert.False(t, ok)
	}
}

func TestMaximize_FreePlaces(t *testing.T) {
	set := cubes{
		places: []string{"a", "b", "c"},
		list:   [][]int{{-1, 1, -1}},
	}
	m, v, ok, err := optimize.Maximize([]string{"a", "b", "c", "extra"}, set, []float64{2, 1, -3, 0.5})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, safenet.Marking{1, 1, 0, 1}, m)
	assert.Equal(t, 3.5, v)
}

func TestMaximize_TiesKeepFirst(t *testing.T) {
	places := []string{"a", "b", "c"}
	cost := []float64{0.1, 0.2, 0.3}
	// 0.1 + 0.2 and 0.3 are equal only when summed exactly
	m, v, _, err := optimize.Maximize(places, cubes{places, [][]int{{1, 1, 0}, {0, 0, 1}}}, cost)
	require.NoError(t, err)
	assert.Equal(t, safenet.Marking{1, 1, 0}, m)
	assert.Equal(t, 0.3, v)

	m, _, _, err = optimize.Maximize(places, cubes{places, [][]int{{0, 0, 1}, {1, 1, 0}}}, cost)
	require.NoError(t, err)
	assert.Equal(t, safenet.Marking{0, 0, 1}, m)
}

func TestCostVector(t *testing.T) {
	net, err := safenet.NewBuilder("resources").
		Place("Running", 0).
		Place("Used", 0).
		Place("HasR", 1).
		Place("Idle", 1, "idle process").
		Build()
	require.NoError(t, err)

	cost, err := optimize.CostVector(net, `id contains "Running" ? 10 : (id contains "Used" ? 5 : (id contains "HasR" ? 3 : 0))`)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 5, 3, 0}, cost)

	cost, err = optimize.CostVector(net, `name == "idle process" ? -1.5 : index`)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, -1.5}, cost)

	_, err = optimize.CostVector(net, `id +`)
	assert.Error(t, err)
	_, err = optimize.CostVector(net, `id`)
	assert.Error(t, err)
	_, err = optimize.CostVector(net, `index == 0 ? 1.0 / 0.0 : 0`)
	assert.ErrorIs(t, err, optimize.ErrCostValue)
}

func TestParseCosts(t *testing.T) {
	net := examples.Mutex()
	cost, err := optimize.ParseCosts(net, "Running1=10, Lock=-2")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 0, 0, -2}, cost)

	cost, err = optimize.ParseCosts(net, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, cost)

	_, err = optimize.ParseCosts(net, "Nope=1")
	assert.True(t, errors.Is(err, safenet.ErrUnknownNode))
	_, err = optimize.ParseCosts(net, "Lock")
	assert.Error(t, err)
	_, err = optimize.ParseCosts(net, "Lock=x")
	assert.Error(t, err)
	for _, s := range []string{"Idle1=NaN", "Lock=Inf", "Running2=-inf"} {
		_, err = optimize.ParseCosts(net, s)
		assert.ErrorIs(t, err, optimize.ErrCostValue, s)
	}
}
