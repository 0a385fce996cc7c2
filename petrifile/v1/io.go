package petrifile

import (
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/petrifile"
	"gopkg.in/yaml.v3"
)

var ErrVersion = errors.New("unsupported petrifile version")

// Place is one entry of the places mapping. It is written either as a bare
// token count or as a mapping with tokens and a display name.
type Place struct {
	ID     string
	Tokens int
	Name   string
}

type definedPlace struct {
	Tokens int    `yaml:"tokens"`
	Name   string `yaml:"name,omitempty"`
}

// Places keeps the document order of the places mapping, which becomes the
// place order of the net.
type Places []Place

func (ps *Places) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: places must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		p := Place{ID: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			if err := val.Decode(&p.Tokens); err != nil {
				return fmt.Errorf("place %s: %w", p.ID, err)
			}
		case yaml.MappingNode:
			var d definedPlace
			if err := val.Decode(&d); err != nil {
				return fmt.Errorf("place %s: %w", p.ID, err)
			}
			p.Tokens, p.Name = d.Tokens, d.Name
		default:
			return fmt.Errorf("line %d: place %s must be a token count or a mapping", val.Line, p.ID)
		}
		*ps = append(*ps, p)
	}
	return nil
}

func (ps Places) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range ps {
		var val yaml.Node
		var err error
		if p.Name == "" || p.Name == p.ID {
			err = val.Encode(p.Tokens)
		} else {
			err = val.Encode(definedPlace{Tokens: p.Tokens, Name: p.Name})
		}
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: p.ID}, &val)
	}
	return n, nil
}

// Arcs lists place ids. A single id may be written without a list.
type Arcs []string

func (a *Arcs) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*a = Arcs{value.Value}
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := value.Decode(&ids); err != nil {
			return err
		}
		*a = ids
		return nil
	}
	return fmt.Errorf("line %d: arcs must be a place id or a list of place ids", value.Line)
}

type Transition struct {
	ID      string `yaml:"-"`
	Name    string `yaml:"name,omitempty"`
	Inputs  Arcs   `yaml:"inputs,omitempty"`
	Outputs Arcs   `yaml:"outputs,omitempty"`
}

// Transitions keeps the document order of the transitions mapping.
type Transitions []Transition

func (ts *Transitions) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: transitions must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		t := Transition{}
		// an empty value declares a transition without arcs
		if !(val.Kind == yaml.ScalarNode && val.Tag == "!!null") {
			if err := val.Decode(&t); err != nil {
				return fmt.Errorf("transition %s: %w", key.Value, err)
			}
		}
		t.ID = key.Value
		*ts = append(*ts, t)
	}
	return nil
}

func (ts Transitions) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range ts {
		var val yaml.Node
		if t.Name == t.ID {
			t.Name = ""
		}
		if err := val.Encode(t); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: t.ID}, &val)
	}
	return n, nil
}

// Petrifile is the v1 document describing a net.
type Petrifile struct {
	Petri       petrifile.Version `yaml:"petri"`
	Name        string            `yaml:"name,omitempty"`
	Places      Places            `yaml:"places"`
	Transitions Transitions       `yaml:"transitions,omitempty"`
}

// Net builds the net the document describes.
func (p *Petrifile) Net() (*safenet.Net, error) {
	if p.Petri != "" && p.Petri != petrifile.V1 {
		return nil, fmt.Errorf("%w: %q", ErrVersion, p.Petri)
	}
	b := safenet.NewBuilder(p.Name)
	for _, pl := range p.Places {
		b.Place(pl.ID, pl.Tokens, pl.Name)
	}
	for _, t := range p.Transitions {
		b.Transition(t.ID, t.Name)
		for _, in := range t.Inputs {
			b.Arc(in, t.ID)
		}
		for _, out := range t.Outputs {
			b.Arc(t.ID, out)
		}
	}
	return b.Build()
}

// FromNet describes n as a v1 document.
func FromNet(n *safenet.Net) *Petrifile {
	p := &Petrifile{
		Petri: petrifile.V1,
		Name:  n.Name,
	}
	for i, id := range n.PlaceIDs {
		p.Places = append(p.Places, Place{ID: id, Tokens: n.Initial[i], Name: n.PlaceNames[i]})
	}
	for t, id := range n.TransIDs {
		tr := Transition{ID: id, Name: n.TransNames[t]}
		for _, i := range n.Inputs(t) {
			tr.Inputs = append(tr.Inputs, n.PlaceIDs[i])
		}
		for _, o := range n.Outputs(t) {
			tr.Outputs = append(tr.Outputs, n.PlaceIDs[o])
		}
		p.Transitions = append(p.Transitions, tr)
	}
	return p
}
