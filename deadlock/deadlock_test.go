package deadlock_test

import (
	"context"
	"errors"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/analysis"
	"github.com/jt05610/safenet/deadlock"
	"github.com/jt05610/safenet/examples"
	"github.com/jt05610/safenet/symbolic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func reachable(t *testing.T, net *safenet.Net) *symbolic.Set {
	t.Helper()
	set, err := symbolic.Reachable(net)
	require.NoError(t, err)
	return set
}

func TestSearch(t *testing.T) {
	cases := []struct {
		name string
		net  *safenet.Net
		want safenet.Marking
	}{
		{"handoff", examples.Handoff(), safenet.Marking{0, 1}},
		{"token", examples.Token(), safenet.Marking{1}},
		{"net", examples.Net(), safenet.Marking{0, 0, 1, 1}},
		{"philosophers", examples.Philosophers(), safenet.Marking{0, 0, 1, 0, 0, 0, 1, 0}},
		{"mutex", examples.Mutex(), nil},
		{"catalyst", examples.Catalyst(), nil},
		{"source", examples.Source(), nil},
		{"ring", examples.Ring(4), nil},
		{"independent", examples.Independent(3), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := reachable(t, tc.net)
			got, err := deadlock.Search(context.Background(), tc.net, set)
			require.NoError(t, err)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
			assert.True(t, set.Contains(got))
			assert.True(t, tc.net.IsDead(got))
		})
	}
}

func TestSearch_ExplicitOracle(t *testing.T) {
	net := examples.Philosophers()
	g := analysis.StateGraph(net, analysis.BreadthFirst)
	got, err := deadlock.Search(context.Background(), net, g)
	require.NoError(t, err)
	dead := g.Deadlocks()
	require.Len(t, dead, 1)
	assert.Equal(t, g.States[dead[0]], got)
}

func TestSearchResult(t *testing.T) {
	net := examples.Net()
	res, err := deadlock.SearchResult(context.Background(), net, reachable(t, net))
	require.NoError(t, err)
	assert.Equal(t, safenet.Marking{0, 0, 1, 1}, res.Marking)
	assert.Equal(t, 1, res.Iterations)
	// t1 then t3
	assert.Equal(t, []int{1, 0, 1}, res.Parikh)
	assert.Empty(t, res.Cuts)

	cat := examples.Catalyst()
	res, err = deadlock.SearchResult(context.Background(), cat, reachable(t, cat))
	require.NoError(t, err)
	assert.Nil(t, res.Marking)
	assert.Nil(t, res.Parikh)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, []safenet.Marking{{0, 0, 1}}, res.Cuts)
}

func TestSearcher_Catalyst(t *testing.T) {
	net := examples.Catalyst()
	s := deadlock.NewSearcher(net, reachable(t, net))

	v, m, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, deadlock.Spurious, v)
	assert.Equal(t, safenet.Marking{0, 0, 1}, m)
	assert.Equal(t, []int{0, 1}, s.Parikh())
	assert.Equal(t, []safenet.Marking{{0, 0, 1}}, s.Cuts())

	v, m, err = s.Step()
	require.NoError(t, err)
	assert.Equal(t, deadlock.Infeasible, v)
	assert.Nil(t, m)
	assert.Equal(t, 1, s.Iterations())

	v, _, err = s.Step()
	require.NoError(t, err)
	assert.Equal(t, deadlock.Infeasible, v)
	assert.Equal(t, 1, s.Iterations())
}

func TestSearcher_Source(t *testing.T) {
	s := deadlock.NewSearcher(examples.Source(), reachable(t, examples.Source()))
	v, m, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, deadlock.SourceTransition, v)
	assert.Nil(t, m)
	assert.Equal(t, 0, s.Iterations())
	assert.Nil(t, s.Problem())
}

type rejectAll struct{}

func (rejectAll) Contains(safenet.Marking) bool { return false }

func TestSearcher_NeverRepeats(t *testing.T) {
	for _, net := range []*safenet.Net{examples.Philosophers(), examples.Net(), examples.Catalyst()} {
		s := deadlock.NewSearcher(net, rejectAll{})
		seen := make(map[string]bool)
		for {
			v, m, err := s.Step()
			require.NoError(t, err)
			if v.Terminal() {
				assert.Equal(t, deadlock.Infeasible, v)
				break
			}
			require.False(t, seen[m.Key()], "%s: %s proposed twice", net.Name, m)
			seen[m.Key()] = true
			assert.True(t, net.IsDead(m), "%s: %s is not dead", net.Name, m)
		}
		assert.Len(t, s.Cuts(), len(seen))
		assert.NotEmpty(t, seen, net.Name)
	}
}

func TestSearch_IterationLimit(t *testing.T) {
	net := examples.Catalyst()
	_, err := deadlock.Search(context.Background(), net, reachable(t, net), deadlock.WithMaxIterations(1))
	assert.True(t, errors.Is(err, deadlock.ErrIterationLimit), "got %v", err)

	got, err := deadlock.Search(context.Background(), net, reachable(t, net), deadlock.WithMaxIterations(2))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSearch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	net := examples.Handoff()
	_, err := deadlock.Search(ctx, net, reachable(t, net))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "found", deadlock.Found.String())
	assert.Equal(t, "spurious", deadlock.Spurious.String())
	assert.Equal(t, "source transition", deadlock.SourceTransition.String())
	assert.False(t, deadlock.Spurious.Terminal())
	assert.True(t, deadlock.Infeasible.Terminal())
}
