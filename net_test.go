package safenet_test

import (
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"go.uber.org/multierr"
	"testing"
)

func cookieMachine() (*safenet.Net, error) {
	return safenet.NewBuilder("cookie machine").
		Place("coin", 1).
		Place("ready", 1, "machine ready").
		Place("cookie", 0).
		Transition("pay").
		Transition("take").
		Arc("coin", "pay").
		Arc("ready", "pay").
		Arc("pay", "cookie").
		Arc("cookie", "take").
		Arc("take", "ready").
		Build()
}

// ExampleNet builds a cookie machine that releases a cookie for a coin, then
// fires the first enabled transition until the net is dead.
func ExampleNet() {
	net, err := cookieMachine()
	if err != nil {
		panic(err)
	}
	m := net.Initial
	for !net.IsDead(m) {
		t := net.EnabledTransitions(m)[0]
		m = net.Fire(t, m)
		fmt.Println(net.TransIDs[t], m)
	}
	// Output:
	// pay [0 0 1]
	// take [0 1 0]
}

func ExampleNet_Incidence() {
	net, err := cookieMachine()
	if err != nil {
		panic(err)
	}
	c := net.Incidence()
	for t, id := range net.TransIDs {
		fmt.Println(id, c.RawRowView(t))
	}
	// Output:
	// pay [-1 -1 1]
	// take [0 1 -1]
}

func TestNew_Validation(t *testing.T) {
	_, err := safenet.New(
		[]string{"p", "p"},
		[]string{"t"},
		[][]int{{2, 0}},
		[][]int{{0, 1}},
		safenet.Marking{1},
	)
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []error{safenet.ErrDuplicateID, safenet.ErrNotBinary, safenet.ErrDimension} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
	if n := len(multierr.Errors(err)); n != 3 {
		t.Errorf("expected 3 violations, got %d: %v", n, err)
	}

	_, err = safenet.New([]string{"p"}, []string{"t"}, nil, [][]int{{0}}, safenet.Marking{0})
	if !errors.Is(err, safenet.ErrDimension) {
		t.Errorf("expected ErrDimension for missing rows, got %v", err)
	}
	_, err = safenet.New([]string{"p"}, nil, nil, nil, safenet.Marking{2})
	if !errors.Is(err, safenet.ErrNotBinary) {
		t.Errorf("expected ErrNotBinary for M0, got %v", err)
	}
}

func TestNew_CopiesTables(t *testing.T) {
	ids := []string{"p", "q"}
	trans := []string{"t"}
	input := [][]int{{1, 0}}
	output := [][]int{{0, 1}}
	n, err := safenet.New(ids, trans, input, output, safenet.Marking{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	ids[0] = "x"
	trans[0] = "y"
	input[0][0] = 0
	input[0][1] = 1
	output[0][1] = 0
	if n.PlaceIDs[0] != "p" || n.TransIDs[0] != "t" {
		t.Errorf("ids changed with the caller's slices: %v %v", n.PlaceIDs, n.TransIDs)
	}
	if n.I[0][0] != 1 || n.I[0][1] != 0 || n.O[0][1] != 1 {
		t.Errorf("tables changed with the caller's slices: I=%v O=%v", n.I, n.O)
	}
	if !n.Enabled(0, n.Initial) {
		t.Error("t should still read p")
	}
	if got := n.Fire(0, n.Initial); !got.Equal(safenet.Marking{0, 1}) {
		t.Errorf("got %s, want [0 1]", got)
	}
}

func TestNew_Empty(t *testing.T) {
	n, err := safenet.New(nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n.Incidence() != nil {
		t.Error("expected no incidence matrix for an empty net")
	}
	if n.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestFire_SelfLoop(t *testing.T) {
	n, err := safenet.NewBuilder("loop").
		Place("p", 1).
		Place("q", 0).
		Transition("t").
		Arc("p", "t").
		Arc("t", "p").
		Arc("t", "q").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if !n.Enabled(0, n.Initial) {
		t.Fatal("t should be enabled")
	}
	got := n.Fire(0, n.Initial)
	if !got.Equal(safenet.Marking{1, 1}) {
		t.Errorf("got %s, want [1 1]", got)
	}
	if !n.Initial.Equal(safenet.Marking{1, 0}) {
		t.Error("Fire modified its argument")
	}
}

func TestFire_Source(t *testing.T) {
	n, err := safenet.NewBuilder("source").
		Place("p", 0).
		Transition("gen").
		Transition("use").
		Arc("gen", "p").
		Arc("p", "use").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if src := n.SourceTransitions(); len(src) != 1 || src[0] != 0 {
		t.Fatalf("wrong source transitions %v", src)
	}
	if en := n.EnabledTransitions(n.Initial); len(en) != 1 || en[0] != 0 {
		t.Fatalf("wrong enabled transitions %v", en)
	}
	if n.IsDead(n.Initial) {
		t.Error("a net with a source transition is never dead")
	}
	if got := n.Fire(0, n.Initial); !got.Equal(safenet.Marking{1}) {
		t.Errorf("got %s, want [1]", got)
	}
}

func TestBuilder_Errors(t *testing.T) {
	cases := []struct {
		name string
		b    *safenet.Builder
		want error
	}{
		{
			name: "duplicate",
			b:    safenet.NewBuilder("n").Place("x", 0).Transition("x"),
			want: safenet.ErrDuplicateID,
		},
		{
			name: "arc exists",
			b:    safenet.NewBuilder("n").Place("p", 0).Transition("t").Arc("p", "t").Arc("p", "t"),
			want: safenet.ErrArcExists,
		},
		{
			name: "same kind",
			b:    safenet.NewBuilder("n").Place("p", 0).Place("q", 0).Arc("p", "q"),
			want: safenet.ErrSameKind,
		},
		{
			name: "unknown",
			b:    safenet.NewBuilder("n").Place("p", 0).Arc("p", "t"),
			want: safenet.ErrUnknownNode,
		},
		{
			name: "tokens",
			b:    safenet.NewBuilder("n").Place("p", 3),
			want: safenet.ErrNotBinary,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := tc.b.Build()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if n != nil {
				t.Error("expected no net on error")
			}
		})
	}
}

func TestBuilder_Labels(t *testing.T) {
	n, err := cookieMachine()
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "cookie machine" {
		t.Errorf("wrong name %q", n.Name)
	}
	if n.PlaceNames[1] != "machine ready" || n.PlaceNames[0] != "coin" {
		t.Errorf("wrong labels %v", n.PlaceNames)
	}
	if n.Place("cookie") != 2 || n.Place("biscuit") != -1 {
		t.Error("wrong place lookup")
	}
	if n.Transition("take") != 1 || n.Transition("coin") != -1 {
		t.Error("wrong transition lookup")
	}
	if got := n.String(); got != "cookie machine (3 places, 2 transitions)" {
		t.Errorf("wrong string %q", got)
	}
}

func TestMarking(t *testing.T) {
	m := safenet.Marking{1, 0, 1}
	if m.Key() != "101" {
		t.Errorf("wrong key %q", m.Key())
	}
	if m.String() != "[1 0 1]" {
		t.Errorf("wrong string %q", m.String())
	}
	if tk := m.Tokens(); len(tk) != 2 || tk[0] != 0 || tk[1] != 2 {
		t.Errorf("wrong tokens %v", tk)
	}
	c := m.Clone()
	c[1] = 1
	if m[1] != 0 {
		t.Error("Clone shares storage")
	}
	if m.Equal(c) || m.Equal(safenet.Marking{1, 0}) || !m.Equal(safenet.Marking{1, 0, 1}) {
		t.Error("wrong equality")
	}
}
