package analysis_test

import (
	"fmt"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/analysis"
	"github.com/jt05610/safenet/examples"
	"sort"
	"testing"
)

func keys(mm []safenet.Marking) []string {
	ret := make([]string, len(mm))
	for i, m := range mm {
		ret[i] = m.Key()
	}
	sort.Strings(ret)
	return ret
}

func nets() map[string]*safenet.Net {
	return map[string]*safenet.Net{
		"handoff":      examples.Handoff(),
		"token":        examples.Token(),
		"net":          examples.Net(),
		"mutex":        examples.Mutex(),
		"philosophers": examples.Philosophers(),
		"catalyst":     examples.Catalyst(),
		"source":       examples.Source(),
		"ring":         examples.Ring(5),
		"independent":  examples.Independent(4),
	}
}

func TestExplore_StrategiesAgree(t *testing.T) {
	want := map[string]int{
		"handoff":      2,
		"token":        1,
		"net":          4,
		"mutex":        3,
		"philosophers": 6,
		"catalyst":     1,
		"source":       2,
		"ring":         5,
		"independent":  16,
	}
	for name, net := range nets() {
		bfs := analysis.Explore(net, analysis.BreadthFirst)
		dfs := analysis.Explore(net, analysis.DepthFirst)
		if len(bfs) != want[name] {
			t.Errorf("%s: bfs found %d markings, want %d", name, len(bfs), want[name])
		}
		if len(dfs) != len(bfs) {
			t.Errorf("%s: dfs found %d markings, bfs %d", name, len(dfs), len(bfs))
		}
		kb, kd := keys(bfs), keys(dfs)
		for i := range kb {
			if i < len(kd) && kb[i] != kd[i] {
				t.Errorf("%s: marking sets differ at %d: %s vs %s", name, i, kb[i], kd[i])
			}
		}
		if !bfs[0].Equal(net.Initial) || !dfs[0].Equal(net.Initial) {
			t.Errorf("%s: first marking is not M0", name)
		}
	}
}

func TestExplore_Distinct(t *testing.T) {
	for name, net := range nets() {
		seen := make(map[string]bool)
		for _, m := range analysis.Explore(net, analysis.DepthFirst) {
			if seen[m.Key()] {
				t.Fatalf("%s: %s discovered twice", name, m)
			}
			seen[m.Key()] = true
		}
	}
}

func TestStateGraph_Path(t *testing.T) {
	for name, net := range nets() {
		for _, s := range []analysis.Strategy{analysis.BreadthFirst, analysis.DepthFirst} {
			g := analysis.StateGraph(net, s)
			for id, target := range g.States {
				m := net.Initial.Clone()
				for _, tr := range g.Path(id) {
					if !net.Enabled(tr, m) {
						t.Fatalf("%s/%s: %s not enabled at %s", name, s, net.TransIDs[tr], m)
					}
					m = net.Fire(tr, m)
				}
				if !m.Equal(target) {
					t.Fatalf("%s/%s: path to %d ends at %s, want %s", name, s, id, m, target)
				}
			}
		}
	}
}

func TestStateGraph_Deadlocks(t *testing.T) {
	g := analysis.StateGraph(examples.Philosophers(), analysis.BreadthFirst)
	dead := g.Deadlocks()
	if len(dead) != 1 {
		t.Fatalf("expected 1 deadlock, got %d", len(dead))
	}
	want := safenet.Marking{0, 0, 1, 0, 0, 0, 1, 0}
	if !g.States[dead[0]].Equal(want) {
		t.Fatalf("deadlock %s, want %s", g.States[dead[0]], want)
	}
	if len(analysis.StateGraph(examples.Mutex(), analysis.DepthFirst).Deadlocks()) != 0 {
		t.Fatal("mutex should not deadlock")
	}
}

func TestReachable(t *testing.T) {
	net := examples.Catalyst()
	if analysis.Reachable(net, safenet.Marking{0, 0, 1}) {
		t.Fatal("Done should not be reachable")
	}
	if !analysis.Reachable(net, net.Initial) {
		t.Fatal("M0 is always reachable")
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]analysis.Strategy{
		"bfs":         analysis.BreadthFirst,
		"BFS":         analysis.BreadthFirst,
		"dfs":         analysis.DepthFirst,
		"depth-first": analysis.DepthFirst,
	} {
		got, err := analysis.ParseStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := analysis.ParseStrategy("astar"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func ExampleExplore() {
	net := examples.Net()
	for _, m := range analysis.Explore(net, analysis.BreadthFirst) {
		fmt.Println(m)
	}
	// Output:
	// [1 0 0 0]
	// [0 1 1 0]
	// [1 0 1 0]
	// [0 0 1 1]
}

func ExampleExplore_depthFirst() {
	net := examples.Philosophers()
	for _, m := range analysis.Explore(net, analysis.DepthFirst) {
		fmt.Println(m)
	}
	// Output:
	// [1 1 0 0 1 1 0 0]
	// [0 0 1 0 1 1 0 0]
	// [1 1 0 0 0 0 1 0]
	// [0 0 1 0 0 0 1 0]
	// [1 0 0 0 0 0 0 1]
	// [0 0 0 1 1 0 0 0]
}
