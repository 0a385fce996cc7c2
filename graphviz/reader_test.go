package graphviz_test

import (
	"bytes"
	"context"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/examples"
	"github.com/jt05610/safenet/graphviz"
	"testing"
)

func TestE2E(t *testing.T) {
	for _, net := range []*safenet.Net{examples.Philosophers(), examples.Catalyst(), examples.Net()} {
		buf := new(bytes.Buffer)
		if err := newWriter().Flush(buf, net); err != nil {
			t.Fatal(err)
		}
		ld := graphviz.Loader()
		read, err := ld.Load(context.Background(), buf)
		if err != nil {
			t.Fatalf("%s: %v", net.Name, err)
		}
		if read.NumPlaces() != net.NumPlaces() {
			t.Fatalf("%s: places mismatch", net.Name)
		}
		if read.NumTransitions() != net.NumTransitions() {
			t.Fatalf("%s: transitions mismatch", net.Name)
		}
		if !read.Initial.Equal(net.Initial) {
			t.Fatalf("%s: marking %s, want %s", net.Name, read.Initial, net.Initial)
		}
		for tr, id := range net.TransIDs {
			rt := read.Transition(id)
			for p, pid := range net.PlaceIDs {
				rp := read.Place(pid)
				if rt < 0 || rp < 0 {
					t.Fatalf("%s: %s or %s missing", net.Name, id, pid)
				}
				if read.I[rt][rp] != net.I[tr][p] || read.O[rt][rp] != net.O[tr][p] {
					t.Fatalf("%s: arc mismatch between %s and %s", net.Name, id, pid)
				}
			}
		}
	}
}

func TestReader_Save(t *testing.T) {
	ld := graphviz.Loader()
	buf := new(bytes.Buffer)
	if err := ld.Save(context.Background(), buf, examples.Handoff()); err != nil {
		t.Fatal(err)
	}
	n, err := ld.Load(context.Background(), buf)
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "net" || n.NumPlaces() != 2 {
		t.Errorf("unexpected net %s", n)
	}
	if ld.Version() != "dot" {
		t.Errorf("wrong version %s", ld.Version())
	}
}
