// Package pnml reads and writes place/transition nets in the PNML 2009
// grammar.
package pnml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"go.uber.org/zap"
	"io"
	"strconv"
	"strings"
)

const Namespace = "http://www.pnml.org/version-2009/grammar/pnml"

const ptnet = "http://www.pnml.org/version-2009/grammar/ptnet"

var ErrNoNet = errors.New("pnml: document has no net")

// Document is the root <pnml> element. Element names are matched without
// regard to their namespace.
type Document struct {
	XMLName xml.Name `xml:"pnml"`
	Xmlns   string   `xml:"xmlns,attr,omitempty"`
	Nets    []Net    `xml:"net"`
}

type Net struct {
	ID   string `xml:"id,attr"`
	Type string `xml:"type,attr,omitempty"`
	Name *Label `xml:"name"`
	Page
}

// Page holds nodes and arcs. Pages nest, and a net may also hold nodes
// directly.
type Page struct {
	Places      []Place      `xml:"place"`
	Transitions []Transition `xml:"transition"`
	Arcs        []Arc        `xml:"arc"`
	Pages       []SubPage    `xml:"page"`
}

type SubPage struct {
	ID string `xml:"id,attr"`
	Page
}

type Label struct {
	Text string `xml:"text"`
}

type Place struct {
	ID             string `xml:"id,attr"`
	Name           *Label `xml:"name"`
	InitialMarking *Label `xml:"initialMarking"`
}

type Transition struct {
	ID   string `xml:"id,attr"`
	Name *Label `xml:"name"`
}

type Arc struct {
	ID     string `xml:"id,attr,omitempty"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

func (l *Label) text() string {
	if l == nil {
		return ""
	}
	return strings.TrimSpace(l.Text)
}

// walk visits p and its nested pages in document order.
func (p *Page) walk(fn func(*Page)) {
	fn(p)
	for i := range p.Pages {
		p.Pages[i].walk(fn)
	}
}

// Report lists the structural problems found while loading. None of them
// prevents the net from being built.
type Report struct {
	// InvalidArcs reference a missing node or connect two nodes of one kind.
	InvalidArcs         []Arc
	IsolatedPlaces      []string
	IsolatedTransitions []string
}

// OK reports whether nothing was found.
func (r *Report) OK() bool {
	return len(r.InvalidArcs) == 0 && len(r.IsolatedPlaces) == 0 && len(r.IsolatedTransitions) == 0
}

func (r *Report) String() string {
	if r.OK() {
		return "consistent: no invalid arcs, no isolated nodes"
	}
	var lines []string
	for _, a := range r.InvalidArcs {
		lines = append(lines, fmt.Sprintf("invalid arc %s -> %s", a.Source, a.Target))
	}
	for _, p := range r.IsolatedPlaces {
		lines = append(lines, "isolated place "+p)
	}
	for _, t := range r.IsolatedTransitions {
		lines = append(lines, "isolated transition "+t)
	}
	return strings.Join(lines, "\n")
}

// Log writes one warning per finding.
func (r *Report) Log(logger *zap.Logger) {
	for _, a := range r.InvalidArcs {
		logger.Warn("arc references a missing node or joins nodes of one kind",
			zap.String("source", a.Source),
			zap.String("target", a.Target),
		)
	}
	for _, p := range r.IsolatedPlaces {
		logger.Warn("isolated place", zap.String("place", p))
	}
	for _, t := range r.IsolatedTransitions {
		logger.Warn("isolated transition", zap.String("transition", t))
	}
}

// Decode parses a PNML document without interpreting it.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("pnml: %w", err)
	}
	return &doc, nil
}

// Load reads the first net of a PNML document. Places, transitions and arcs
// are collected from every page. A missing initial marking is 0.
func Load(r io.Reader) (*safenet.Net, *Report, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, nil, err
	}
	if len(doc.Nets) == 0 {
		return nil, nil, ErrNoNet
	}
	return build(&doc.Nets[0])
}

func build(n *Net) (*safenet.Net, *Report, error) {
	var (
		placeIDs, transIDs     []string
		placeNames, transNames []string
		initial                safenet.Marking
		arcs                   []Arc
		markErr                error
	)
	n.Page.walk(func(p *Page) {
		for _, pl := range p.Places {
			placeIDs = append(placeIDs, pl.ID)
			placeNames = append(placeNames, pl.Name.text())
			tokens := 0
			if s := pl.InitialMarking.text(); s != "" {
				v, err := strconv.Atoi(s)
				if err != nil && markErr == nil {
					markErr = fmt.Errorf("pnml: initial marking of %s: %w", pl.ID, err)
				}
				tokens = v
			}
			initial = append(initial, tokens)
		}
		for _, t := range p.Transitions {
			transIDs = append(transIDs, t.ID)
			transNames = append(transNames, t.Name.text())
		}
		arcs = append(arcs, p.Arcs...)
	})
	if markErr != nil {
		return nil, nil, markErr
	}

	places := index(placeIDs)
	trans := index(transIDs)
	input := matrix(len(transIDs), len(placeIDs))
	output := matrix(len(transIDs), len(placeIDs))
	report := &Report{}
	connected := make(map[string]bool)
	for _, a := range arcs {
		if p, ok := places[a.Source]; ok {
			if t, ok := trans[a.Target]; ok {
				input[t][p] = 1
				connected[a.Source], connected[a.Target] = true, true
				continue
			}
		}
		if t, ok := trans[a.Source]; ok {
			if p, ok := places[a.Target]; ok {
				output[t][p] = 1
				connected[a.Source], connected[a.Target] = true, true
				continue
			}
		}
		report.InvalidArcs = append(report.InvalidArcs, a)
	}
	for _, id := range placeIDs {
		if !connected[id] {
			report.IsolatedPlaces = append(report.IsolatedPlaces, id)
		}
	}
	for _, id := range transIDs {
		if !connected[id] {
			report.IsolatedTransitions = append(report.IsolatedTransitions, id)
		}
	}

	net, err := safenet.New(placeIDs, transIDs, input, output, initial)
	if err != nil {
		return nil, report, fmt.Errorf("pnml: net %s: %w", n.ID, err)
	}
	name := n.Name.text()
	if name == "" {
		name = n.ID
	}
	return net.WithName(name).WithLabels(placeNames, transNames), report, nil
}

func index(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := m[id]; !ok {
			m[id] = i
		}
	}
	return m
}

func matrix(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}

// Encode writes net as a PNML document with a single page.
func Encode(w io.Writer, net *safenet.Net) error {
	pg := SubPage{ID: "page0"}
	for p, id := range net.PlaceIDs {
		pl := Place{ID: id, Name: label(net.PlaceNames[p], id)}
		if net.Initial[p] > 0 {
			pl.InitialMarking = &Label{Text: strconv.Itoa(net.Initial[p])}
		}
		pg.Places = append(pg.Places, pl)
	}
	arc := 0
	for t, id := range net.TransIDs {
		pg.Transitions = append(pg.Transitions, Transition{ID: id, Name: label(net.TransNames[t], id)})
		for _, p := range net.Inputs(t) {
			pg.Arcs = append(pg.Arcs, Arc{ID: fmt.Sprintf("a%d", arc), Source: net.PlaceIDs[p], Target: id})
			arc++
		}
		for _, p := range net.Outputs(t) {
			pg.Arcs = append(pg.Arcs, Arc{ID: fmt.Sprintf("a%d", arc), Source: id, Target: net.PlaceIDs[p]})
			arc++
		}
	}
	id := net.ID
	if id == "" {
		id = "net0"
	}
	doc := Document{
		Xmlns: Namespace,
		Nets: []Net{{
			ID:   id,
			Type: ptnet,
			Name: label(net.Name, ""),
			Page: Page{Pages: []SubPage{pg}},
		}},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("pnml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// label omits names equal to the identifier.
func label(name, id string) *Label {
	if name == "" || name == id {
		return nil
	}
	return &Label{Text: name}
}
