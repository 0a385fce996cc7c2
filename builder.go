package safenet

import (
	"errors"
	"fmt"
	"go.uber.org/multierr"
)

var (
	ErrSameKind  = errors.New("cannot connect two places or two transitions")
	ErrArcExists = errors.New("arc already exists")
)

// Builder assembles a Net from named places, transitions and arcs. Errors are
// collected and reported by Build.
type Builder struct {
	name       string
	places     []string
	placeNames []string
	trans      []string
	transNames []string
	initial    Marking
	placeIdx   map[string]int
	transIdx   map[string]int
	arcs       map[[2]string]bool
	pending    [][2]string
	err        error
}

func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		placeIdx: make(map[string]int),
		transIdx: make(map[string]int),
		arcs:     make(map[[2]string]bool),
	}
}

// Place declares a place holding tokens (0 or 1) in the initial marking. An
// optional label sets its display name.
func (b *Builder) Place(id string, tokens int, label ...string) *Builder {
	if b.declared(id) {
		b.err = multierr.Append(b.err, fmt.Errorf("place %q: %w", id, ErrDuplicateID))
		return b
	}
	b.placeIdx[id] = len(b.places)
	b.places = append(b.places, id)
	b.placeNames = append(b.placeNames, first(label))
	b.initial = append(b.initial, tokens)
	return b
}

// Transition declares a transition. An optional label sets its display name.
func (b *Builder) Transition(id string, label ...string) *Builder {
	if b.declared(id) {
		b.err = multierr.Append(b.err, fmt.Errorf("transition %q: %w", id, ErrDuplicateID))
		return b
	}
	b.transIdx[id] = len(b.trans)
	b.trans = append(b.trans, id)
	b.transNames = append(b.transNames, first(label))
	return b
}

// Arc connects src to dst. Arcs may be declared before their endpoints; they
// are resolved by Build.
func (b *Builder) Arc(src, dst string) *Builder {
	key := [2]string{src, dst}
	if b.arcs[key] {
		b.err = multierr.Append(b.err, fmt.Errorf("%s -> %s: %w", src, dst, ErrArcExists))
		return b
	}
	b.arcs[key] = true
	b.pending = append(b.pending, key)
	return b
}

func (b *Builder) declared(id string) bool {
	_, isPlace := b.placeIdx[id]
	_, isTrans := b.transIdx[id]
	return isPlace || isTrans
}

// Build resolves the arcs and validates the resulting net.
func (b *Builder) Build() (*Net, error) {
	err := b.err
	input := zeros(len(b.trans), len(b.places))
	output := zeros(len(b.trans), len(b.places))
	for _, arc := range b.pending {
		src, dst := arc[0], arc[1]
		sp, srcIsPlace := b.placeIdx[src]
		st, srcIsTrans := b.transIdx[src]
		dp, dstIsPlace := b.placeIdx[dst]
		dt, dstIsTrans := b.transIdx[dst]
		switch {
		case srcIsPlace && dstIsTrans:
			input[dt][sp] = 1
		case srcIsTrans && dstIsPlace:
			output[st][dp] = 1
		case (srcIsPlace && dstIsPlace) || (srcIsTrans && dstIsTrans):
			err = multierr.Append(err, fmt.Errorf("%s -> %s: %w", src, dst, ErrSameKind))
		default:
			err = multierr.Append(err, fmt.Errorf("%s -> %s: %w", src, dst, ErrUnknownNode))
		}
	}
	if err != nil {
		return nil, err
	}
	n, err := New(b.places, b.trans, input, output, b.initial)
	if err != nil {
		return nil, err
	}
	return n.WithName(b.name).WithLabels(b.placeNames, b.transNames), nil
}

func zeros(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
