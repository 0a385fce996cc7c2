package graphviz

import (
	"context"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/petrifile"
	"io"
)

var _ petrifile.Service = (*Reader)(nil)

// Reader loads nets drawn by Writer: circles are places, filled circles are
// marked, boxes are transitions and edges are arcs.
type Reader struct {
	*Config
}

func (r *Reader) Load(_ context.Context, reader io.Reader) (*safenet.Net, error) {
	bytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	g, err := cgraph.ParseBytes(bytes)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = g.Close()
	}()
	b := safenet.NewBuilder(r.Name)
	for node := g.FirstNode(); node != nil; node = g.NextNode(node) {
		label := node.Get("label")
		if label == `\N` {
			label = ""
		}
		switch node.Get("shape") {
		case string(cgraph.CircleShape):
			tokens := 0
			if node.Get("style") == string(cgraph.FilledNodeStyle) {
				tokens = 1
			}
			b.Place(node.Name(), tokens, label)
		case string(cgraph.BoxShape):
			b.Transition(node.Name(), label)
		}
	}
	for node := g.FirstNode(); node != nil; node = g.NextNode(node) {
		for edge := g.FirstOut(node); edge != nil; edge = g.NextOut(edge) {
			b.Arc(node.Name(), edge.Node().Name())
		}
	}
	return b.Build()
}

func (r *Reader) Save(_ context.Context, w io.Writer, n *safenet.Net) error {
	cfg := *r.Config
	cfg.Format = graphviz.XDOT
	return New(&cfg).Flush(w, n)
}

func (r *Reader) Version() petrifile.Version {
	return petrifile.DOT
}

func Loader() *Reader {
	return &Reader{
		Config: &Config{Name: "net"},
	}
}
