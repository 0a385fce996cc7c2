package graphviz

import (
	"fmt"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/analysis"
	"github.com/jt05610/safenet/bdd"
	"github.com/jt05610/safenet/symbolic"
	"io"
)

const markedColor = "lightgray"

type Writer struct {
	*Config
	g *cgraph.Graph
}

func (w *Writer) node(name, label string, shape cgraph.Shape) (*cgraph.Node, error) {
	node, err := w.g.CreateNode(name)
	if err != nil {
		return nil, err
	}
	node.SetShape(shape)
	node.SetLabel(label)
	node.Set("fontname", string(w.Font))
	return node, nil
}

func (w *Writer) writePlace(n *safenet.Net, p int, m safenet.Marking) (*cgraph.Node, error) {
	node, err := w.node(n.PlaceIDs[p], n.PlaceNames[p], cgraph.CircleShape)
	if err != nil {
		return nil, err
	}
	if m[p] == 1 {
		node.SetStyle(cgraph.FilledNodeStyle)
		node.SetFillColor(markedColor)
	}
	return node, nil
}

func (w *Writer) writeTransition(n *safenet.Net, t int) (*cgraph.Node, error) {
	return w.node(n.TransIDs[t], n.TransNames[t], cgraph.BoxShape)
}

func (w *Writer) writeArc(i int, src, dst *cgraph.Node) error {
	name := fmt.Sprintf("a%d", i)
	_, err := w.g.CreateEdge(name, src, dst)
	return err
}

// render opens a graph, lets build fill it and writes it to out.
func (w *Writer) render(out io.Writer, build func() error) error {
	graph := graphviz.New()
	defer func() {
		_ = graph.Close()
	}()
	g, err := graph.Graph()
	if err != nil {
		return err
	}
	defer func() {
		_ = g.Close()
	}()
	g.SetRankDir(cgraph.RankDir(w.RankDir))
	w.g = g
	if err := build(); err != nil {
		return err
	}
	return graph.Render(w.g, w.Format, out)
}

// Flush draws the net with its initial marking.
func (w *Writer) Flush(out io.Writer, n *safenet.Net) error {
	return w.FlushMarked(out, n, n.Initial)
}

// FlushMarked draws the net with the places marked by m filled.
func (w *Writer) FlushMarked(out io.Writer, n *safenet.Net, m safenet.Marking) error {
	if len(m) != n.NumPlaces() {
		return fmt.Errorf("graphviz: marking %s for %d places: %w", m, n.NumPlaces(), safenet.ErrDimension)
	}
	return w.render(out, func() error {
		places := make([]*cgraph.Node, n.NumPlaces())
		for p := range n.PlaceIDs {
			node, err := w.writePlace(n, p, m)
			if err != nil {
				return err
			}
			places[p] = node
		}
		arc := 0
		for t := range n.TransIDs {
			node, err := w.writeTransition(n, t)
			if err != nil {
				return err
			}
			for _, p := range n.Inputs(t) {
				if err := w.writeArc(arc, places[p], node); err != nil {
					return err
				}
				arc++
			}
			for _, p := range n.Outputs(t) {
				if err := w.writeArc(arc, node, places[p]); err != nil {
					return err
				}
				arc++
			}
		}
		return nil
	})
}

// FlushStates draws a reachability graph. States are labelled with their
// marked places and edges with the transition fired. Dead states are drawn
// with a double border.
func (w *Writer) FlushStates(out io.Writer, n *safenet.Net, sg *analysis.Graph) error {
	return w.render(out, func() error {
		dead := make(map[int]bool)
		for _, id := range sg.Deadlocks() {
			dead[id] = true
		}
		states := make([]*cgraph.Node, len(sg.States))
		for id, m := range sg.States {
			label := "{"
			for i, p := range m.Tokens() {
				if i > 0 {
					label += ", "
				}
				label += n.PlaceNames[p]
			}
			label += "}"
			shape := cgraph.EllipseShape
			if dead[id] {
				shape = cgraph.DoubleCircleShape
			}
			node, err := w.node(fmt.Sprintf("s%d", id), label, shape)
			if err != nil {
				return err
			}
			if id == 0 {
				node.SetStyle(cgraph.FilledNodeStyle)
				node.SetFillColor(markedColor)
			}
			states[id] = node
		}
		for i, e := range sg.Edges {
			edge, err := w.g.CreateEdge(fmt.Sprintf("e%d", i), states[e.From], states[e.To])
			if err != nil {
				return err
			}
			edge.SetLabel(n.TransNames[e.Transition])
		}
		return nil
	})
}

// FlushSet draws the decision diagram of a symbolic set. Nodes are labelled
// with the place they test; dashed edges are taken when the place is empty.
func (w *Writer) FlushSet(out io.Writer, s *symbolic.Set) error {
	a, root := s.Root()
	places := s.Places()
	return w.render(out, func() error {
		nodes := make(map[bdd.Node]*cgraph.Node)
		get := func(n bdd.Node, level int) (*cgraph.Node, error) {
			if node, ok := nodes[n]; ok {
				return node, nil
			}
			var node *cgraph.Node
			var err error
			switch {
			case n == bdd.False:
				node, err = w.node("false", "0", cgraph.BoxShape)
			case n == bdd.True:
				node, err = w.node("true", "1", cgraph.BoxShape)
			default:
				// current state variables sit at even levels
				node, err = w.node(fmt.Sprintf("n%d", n), places[level/2], cgraph.CircleShape)
			}
			if err != nil {
				return nil, err
			}
			nodes[n] = node
			return node, nil
		}
		edge := 0
		return a.Walk(func(n bdd.Node, level int, low, high bdd.Node) error {
			node, err := get(n, level)
			if err != nil || n <= bdd.True {
				return err
			}
			lo, err := get(low, a.Level(low))
			if err != nil {
				return err
			}
			hi, err := get(high, a.Level(high))
			if err != nil {
				return err
			}
			e, err := w.g.CreateEdge(fmt.Sprintf("e%d", edge), node, lo)
			if err != nil {
				return err
			}
			e.SetStyle(cgraph.DashedEdgeStyle)
			if _, err := w.g.CreateEdge(fmt.Sprintf("e%d", edge+1), node, hi); err != nil {
				return err
			}
			edge += 2
			return nil
		}, root)
	})
}

type Font string

func (f Font) Or(other Font) Font {
	return f + "," + other
}

const (
	Helvetica  Font = "Helvetica"
	Arial      Font = "Arial"
	Roboto     Font = "Roboto"
	Montserrat Font = "Montserrat"
	SansSerif  Font = "sans-serif"
	Serif      Font = "Serif"
	Times      Font = "Times"
)

type RankDir string

const (
	LeftToRight RankDir = "LR"
	RightToLeft RankDir = "RL"
	TopToBottom RankDir = "TB"
	BottomToTop RankDir = "BT"
)

type Config struct {
	Name string
	Font
	RankDir
	Format graphviz.Format
}

// ParseFormat accepts the output formats of the viz command.
func ParseFormat(s string) (graphviz.Format, error) {
	switch f := graphviz.Format(s); f {
	case graphviz.XDOT, graphviz.SVG, graphviz.PNG, graphviz.JPG:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

func New(config *Config) *Writer {
	if config.Name == "" {
		config.Name = "petri"
	}
	if config.Font == "" {
		config.Font = Helvetica
	}
	if config.RankDir == "" {
		config.RankDir = LeftToRight
	}
	if config.Format == "" {
		config.Format = graphviz.XDOT
	}
	return &Writer{
		Config: config,
	}
}
