package safenet

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimension   = errors.New("dimension mismatch")
	ErrNotBinary   = errors.New("entry is not 0 or 1")
	ErrDuplicateID = errors.New("duplicate identifier")
	ErrUnknownNode = errors.New("unknown node")
)

// ID returns a fresh identifier for a net.
func ID() string {
	return uuid.New().String()
}

// Net is the structural view of a 1-safe Petri net. Index positions in
// PlaceIDs and TransIDs are the canonical place and transition indices used by
// every analysis.
type Net struct {
	ID   string
	Name string
	// PlaceIDs are the unique place identifiers, length P.
	PlaceIDs []string
	// TransIDs are the unique transition identifiers, length T.
	TransIDs []string
	// PlaceNames and TransNames are optional display labels, parallel to the ids.
	PlaceNames []string
	TransNames []string
	// I[t][p] is 1 iff place p is an input of transition t.
	I [][]int
	// O[t][p] is 1 iff place p is an output of transition t.
	O [][]int
	// Initial is the initial marking M0.
	Initial Marking

	inputs  [][]int
	outputs [][]int
}

// New validates the structural tables and returns the net they describe.
// Every violation found is reported, combined into a single error.
func New(placeIDs, transIDs []string, input, output [][]int, initial Marking) (*Net, error) {
	var err error
	err = multierr.Append(err, uniqueIDs("place", placeIDs))
	err = multierr.Append(err, uniqueIDs("transition", transIDs))
	err = multierr.Append(err, checkMatrix("I", input, len(transIDs), len(placeIDs)))
	err = multierr.Append(err, checkMatrix("O", output, len(transIDs), len(placeIDs)))
	if len(initial) != len(placeIDs) {
		err = multierr.Append(err, fmt.Errorf("M0 has length %d, want %d: %w", len(initial), len(placeIDs), ErrDimension))
	} else {
		for p, v := range initial {
			if v != 0 && v != 1 {
				err = multierr.Append(err, fmt.Errorf("M0[%d] = %d: %w", p, v, ErrNotBinary))
			}
		}
	}
	if err != nil {
		return nil, err
	}
	n := &Net{
		ID:         ID(),
		PlaceIDs:   append([]string(nil), placeIDs...),
		TransIDs:   append([]string(nil), transIDs...),
		PlaceNames: make([]string, len(placeIDs)),
		TransNames: make([]string, len(transIDs)),
		I:          cloneRows(input),
		O:          cloneRows(output),
		Initial:    initial.Clone(),
		inputs:     make([][]int, len(transIDs)),
		outputs:    make([][]int, len(transIDs)),
	}
	copy(n.PlaceNames, placeIDs)
	copy(n.TransNames, transIDs)
	for t := range transIDs {
		for p := range placeIDs {
			if n.I[t][p] == 1 {
				n.inputs[t] = append(n.inputs[t], p)
			}
			if n.O[t][p] == 1 {
				n.outputs[t] = append(n.outputs[t], p)
			}
		}
	}
	return n, nil
}

func cloneRows(m [][]int) [][]int {
	c := make([][]int, len(m))
	for i, row := range m {
		c[i] = append([]int(nil), row...)
	}
	return c
}

func uniqueIDs(kind string, ids []string) error {
	var err error
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			err = multierr.Append(err, fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID))
		}
		seen[id] = true
	}
	return err
}

func checkMatrix(name string, m [][]int, rows, cols int) error {
	if len(m) != rows {
		return fmt.Errorf("%s has %d rows, want %d: %w", name, len(m), rows, ErrDimension)
	}
	var err error
	for t, row := range m {
		if len(row) != cols {
			err = multierr.Append(err, fmt.Errorf("%s row %d has %d columns, want %d: %w", name, t, len(row), cols, ErrDimension))
			continue
		}
		for p, v := range row {
			if v != 0 && v != 1 {
				err = multierr.Append(err, fmt.Errorf("%s[%d][%d] = %d: %w", name, t, p, v, ErrNotBinary))
			}
		}
	}
	return err
}

// WithName sets the display name of the net.
func (n *Net) WithName(name string) *Net {
	n.Name = name
	return n
}

// WithLabels sets display names for places and transitions. Empty labels fall
// back to the identifier.
func (n *Net) WithLabels(placeNames, transNames []string) *Net {
	for i := range n.PlaceNames {
		if i < len(placeNames) && placeNames[i] != "" {
			n.PlaceNames[i] = placeNames[i]
		}
	}
	for i := range n.TransNames {
		if i < len(transNames) && transNames[i] != "" {
			n.TransNames[i] = transNames[i]
		}
	}
	return n
}

func (n *Net) NumPlaces() int { return len(n.PlaceIDs) }

func (n *Net) NumTransitions() int { return len(n.TransIDs) }

// Place returns the index of the place with the given id, or -1.
func (n *Net) Place(id string) int {
	for i, p := range n.PlaceIDs {
		if p == id {
			return i
		}
	}
	return -1
}

// Transition returns the index of the transition with the given id, or -1.
func (n *Net) Transition(id string) int {
	for i, t := range n.TransIDs {
		if t == id {
			return i
		}
	}
	return -1
}

// Incidence returns C = O - I as a T×P matrix. It returns nil when the net has
// no places or no transitions.
func (n *Net) Incidence() *mat.Dense {
	m := len(n.PlaceIDs)
	k := len(n.TransIDs)
	if m == 0 || k == 0 {
		return nil
	}
	d := make([]float64, m*k)
	for t := 0; t < k; t++ {
		for p := 0; p < m; p++ {
			d[t*m+p] = float64(n.O[t][p] - n.I[t][p])
		}
	}
	return mat.NewDense(k, m, d)
}

func (n *Net) String() string {
	return fmt.Sprintf("%s (%d places, %d transitions)", n.Name, len(n.PlaceIDs), len(n.TransIDs))
}
