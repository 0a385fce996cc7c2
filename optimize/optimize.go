// Package optimize finds the marking of a symbolic set that maximizes a linear
// cost over places.
package optimize

import (
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"github.com/shopspring/decimal"
	"math"
)

var (
	ErrCostLength = errors.New("optimize: cost vector length does not match places")
	ErrCostValue  = errors.New("optimize: cost is not a finite number")
)

func checkCosts(placeIDs []string, cost []float64) error {
	for i, c := range cost {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: %s costs %v", ErrCostValue, placeIDs[i], c)
		}
	}
	return nil
}

// Cubes is a set of markings given as partial assignments over named places.
// A cube entry is 0 or 1 when the place is fixed and -1 when it is free.
type Cubes interface {
	Places() []string
	AllSat(fn func(cube []int) error) error
}

// Maximize returns the marking of set with the highest Σ cost[p]·m[p], its
// value, and false when set is empty. The marking is indexed like placeIDs.
// Places of placeIDs that the set does not mention are free.
//
// Within a cube every free place is marked exactly when its cost is positive,
// which maximizes the cube. The best cube wins; ties keep the first one found.
func Maximize(placeIDs []string, set Cubes, cost []float64) (safenet.Marking, float64, bool, error) {
	if len(cost) != len(placeIDs) {
		return nil, 0, false, fmt.Errorf("%w: %d costs for %d places", ErrCostLength, len(cost), len(placeIDs))
	}
	if err := checkCosts(placeIDs, cost); err != nil {
		return nil, 0, false, err
	}
	index := make(map[string]int)
	for i, id := range set.Places() {
		index[id] = i
	}
	from := make([]int, len(placeIDs))
	weight := make([]decimal.Decimal, len(placeIDs))
	for i, id := range placeIDs {
		from[i] = -1
		if j, ok := index[id]; ok {
			from[i] = j
		}
		weight[i] = decimal.NewFromFloat(cost[i])
	}

	var (
		best  safenet.Marking
		value decimal.Decimal
	)
	cur := make(safenet.Marking, len(placeIDs))
	err := set.AllSat(func(cube []int) error {
		sum := decimal.Zero
		for i := range cur {
			bit := -1
			if from[i] >= 0 {
				bit = cube[from[i]]
			}
			if bit < 0 {
				bit = 0
				if cost[i] > 0 {
					bit = 1
				}
			}
			cur[i] = bit
			if bit == 1 {
				sum = sum.Add(weight[i])
			}
		}
		if best == nil || sum.GreaterThan(value) {
			best = cur.Clone()
			value = sum
		}
		return nil
	})
	if err != nil {
		return nil, 0, false, err
	}
	if best == nil {
		return nil, 0, false, nil
	}
	f, _ := value.Float64()
	return best, f, true, nil
}
