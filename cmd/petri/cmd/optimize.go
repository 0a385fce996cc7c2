/*
Copyright © 2024 Jonathan Taylor <jonrtaylor12@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/


package cmd

import (
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/optimize"
	"github.com/spf13/cobra"
	"io"
)

var (
	costs    string
	costRule string
)

type optimizeResult struct {
	Net      string    `yaml:"net"`
	Cost     []float64 `yaml:"cost"`
	Feasible bool      `yaml:"feasible"`
	Marking  string    `yaml:"marking,omitempty"`
	Marked   []string  `yaml:"marked,omitempty"`
	Value    float64   `yaml:"value"`
}

func (r *optimizeResult) Text(w io.Writer) error {
	if !r.Feasible {
		_, err := fmt.Fprintf(w, "%s: no reachable marking\n", r.Net)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: best marking %s %v with value %g\n", r.Net, r.Marking, r.Marked, r.Value)
	return err
}

func costVector(net *safenet.Net) ([]float64, error) {
	switch {
	case costs != "" && costRule != "":
		return nil, errors.New("--cost and --cost-rule are exclusive")
	case costRule != "":
		return optimize.CostVector(net, costRule)
	case costs != "":
		return optimize.ParseCosts(net, costs)
	}
	return nil, errors.New("one of --cost or --cost-rule is required")
}

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Find the reachable marking with the highest cost",
	Long: `Find the reachable marking maximizing a linear cost over the places.

Costs are given per place with --cost p1=2,p2=-1 (missing places cost 0) or as
an expression evaluated for every place with --cost-rule, where id, name and
index describe the place:

  petri optimize -i net.pnml --cost-rule 'name == "Lock" ? 10 : 0'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := loadNet(cmd.Context(), inputFile)
		if err != nil {
			return err
		}
		cost, err := costVector(net)
		if err != nil {
			return err
		}
		set, err := reachable(cmd, net)
		if err != nil {
			return err
		}
		m, v, ok, err := optimize.Maximize(net.PlaceIDs, set, cost)
		if err != nil {
			return err
		}
		res := &optimizeResult{
			Net:      net.Name,
			Cost:     cost,
			Feasible: ok,
			Value:    v,
		}
		if ok {
			res.Marking = m.String()
			for _, p := range m.Tokens() {
				res.Marked = append(res.Marked, net.PlaceIDs[p])
			}
		}
		return emit(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().StringVarP(&costs, "cost", "c", "", "place costs, e.g. p1=2,p2=-1")
	optimizeCmd.Flags().StringVar(&costRule, "cost-rule", "", "cost expression over id, name and index")
	optimizeCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "image step limit, 0 for none")
}
