package optimize

import (
	"fmt"
	"github.com/expr-lang/expr"
	"github.com/jt05610/safenet"
	"sort"
	"strconv"
	"strings"
)

// CostVector evaluates rule once per place and returns the results as costs.
// The rule sees the place as id, name and index, for example
//
//	id contains "Running" ? 10 : 0
func CostVector(net *safenet.Net, rule string) ([]float64, error) {
	program, err := expr.Compile(rule, expr.Env(placeEnv("", "", 0)), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("optimize: compiling cost rule: %w", err)
	}
	cost := make([]float64, net.NumPlaces())
	for p, id := range net.PlaceIDs {
		out, err := expr.Run(program, placeEnv(id, net.PlaceNames[p], p))
		if err != nil {
			return nil, fmt.Errorf("optimize: cost of %s: %w", id, err)
		}
		switch v := out.(type) {
		case float64:
			cost[p] = v
		case int:
			cost[p] = float64(v)
		default:
			return nil, fmt.Errorf("optimize: cost of %s is %T, not a number", id, out)
		}
	}
	if err := checkCosts(net.PlaceIDs, cost); err != nil {
		return nil, err
	}
	return cost, nil
}

func placeEnv(id, name string, index int) map[string]interface{} {
	return map[string]interface{}{
		"id":    id,
		"name":  name,
		"index": index,
	}
}

// ParseCosts reads assignments like "Running1=10,Lock=-2" into a cost vector
// over the places of net. Places that are not assigned cost nothing.
func ParseCosts(net *safenet.Net, s string) ([]float64, error) {
	cost := make([]float64, net.NumPlaces())
	if strings.TrimSpace(s) == "" {
		return cost, nil
	}
	var unknown []string
	for _, part := range strings.Split(s, ",") {
		id, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("optimize: cost %q is not place=value", part)
		}
		id = strings.TrimSpace(id)
		p := net.Place(id)
		if p < 0 {
			unknown = append(unknown, id)
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("optimize: cost of %s: %w", id, err)
		}
		cost[p] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("optimize: %w: %s", safenet.ErrUnknownNode, strings.Join(unknown, ", "))
	}
	if err := checkCosts(net.PlaceIDs, cost); err != nil {
		return nil, err
	}
	return cost, nil
}
