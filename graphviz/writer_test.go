package graphviz_test

import (
	"bytes"
	"errors"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/analysis"
	"github.com/jt05610/safenet/examples"
	"github.com/jt05610/safenet/graphviz"
	"github.com/jt05610/safenet/symbolic"
	"strings"
	"testing"
)

func newWriter() *graphviz.Writer {
	return graphviz.New(&graphviz.Config{
		Font:    graphviz.Helvetica,
		RankDir: graphviz.LeftToRight,
	})
}

func TestWriter_Flush(t *testing.T) {
	net := examples.Net()
	buf := new(bytes.Buffer)
	if err := newWriter().Flush(buf, net); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, id := range append(net.PlaceIDs, net.TransIDs...) {
		if !strings.Contains(out, id) {
			t.Errorf("%s missing from output", id)
		}
	}
	if !strings.Contains(out, "filled") {
		t.Error("initial marking not drawn")
	}
}

func TestWriter_FlushMarked(t *testing.T) {
	err := newWriter().FlushMarked(new(bytes.Buffer), examples.Net(), safenet.Marking{1})
	if !errors.Is(err, safenet.ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}
}

func TestWriter_FlushStates(t *testing.T) {
	net := examples.Philosophers()
	buf := new(bytes.Buffer)
	if err := newWriter().FlushStates(buf, net, analysis.StateGraph(net, analysis.BreadthFirst)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"TakeL1", "Release2", "doublecircle", "s5"} {
		if !strings.Contains(out, want) {
			t.Errorf("%s missing from output", want)
		}
	}
}

func TestWriter_FlushSet(t *testing.T) {
	set, err := symbolic.Reachable(examples.Handoff())
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := newWriter().FlushSet(buf, set); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"p0", "p1", "dashed"} {
		if !strings.Contains(out, want) {
			t.Errorf("%s missing from output", want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"svg", "png", "dot", "xdot"} {
		if _, err := graphviz.ParseFormat(s); err != nil {
			t.Errorf("%s: %v", s, err)
		}
	}
	if _, err := graphviz.ParseFormat("gif"); err == nil {
		t.Error("expected an error for gif")
	}
}
