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
	"fmt"
	"github.com/jt05610/safenet/analysis"
	"github.com/jt05610/safenet/deadlock"
	"github.com/spf13/cobra"
	"io"
)

var (
	solverNodes int
	oracle      string
)

type deadlockResult struct {
	Net        string   `yaml:"net"`
	Dead       bool     `yaml:"dead"`
	Marking    string   `yaml:"marking,omitempty"`
	Marked     []string `yaml:"marked,omitempty"`
	Firings    []int    `yaml:"firings,omitempty"`
	Iterations int      `yaml:"iterations"`
	Cuts       int      `yaml:"cuts"`
}

func (r *deadlockResult) Text(w io.Writer) error {
	if !r.Dead {
		_, err := fmt.Fprintf(w, "%s: no reachable dead marking (%d candidates, %d cut)\n", r.Net, r.Iterations, r.Cuts)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: dead marking %s %v (%d candidates, %d cut)\n", r.Net, r.Marking, r.Marked, r.Iterations, r.Cuts)
	return err
}

func solverNodeLimit(cmd *cobra.Command) int {
	if cmd.Flags().Changed("solver-nodes") {
		return solverNodes
	}
	return environment.SolverNodes
}

// deadlockCmd represents the deadlock command
var deadlockCmd = &cobra.Command{
	Use:   "deadlock",
	Short: "Search for a reachable dead marking",
	Long: `Search for a reachable marking in which no transition is enabled.

Candidates solve the state equation with every transition disabled. Each one is
checked against the reachable set, computed as a BDD or, with --oracle explicit,
by enumeration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := loadNet(cmd.Context(), inputFile)
		if err != nil {
			return err
		}
		var set deadlock.Oracle
		switch oracle {
		case "bdd":
			if set, err = reachable(cmd, net); err != nil {
				return err
			}
		case "explicit":
			set = analysis.StateGraph(net, analysis.BreadthFirst)
		default:
			return fmt.Errorf("unknown oracle %q", oracle)
		}
		found, err := deadlock.SearchResult(cmd.Context(), net, set,
			deadlock.WithLogger(logger.Named("deadlock")),
			deadlock.WithMaxIterations(iterationLimit(cmd)),
			deadlock.WithSolverNodeLimit(solverNodeLimit(cmd)),
		)
		if err != nil {
			return err
		}
		res := &deadlockResult{
			Net:        net.Name,
			Dead:       found.Marking != nil,
			Firings:    found.Parikh,
			Iterations: found.Iterations,
			Cuts:       len(found.Cuts),
		}
		if res.Dead {
			res.Marking = found.Marking.String()
			for _, p := range found.Marking.Tokens() {
				res.Marked = append(res.Marked, net.PlaceIDs[p])
			}
		}
		return emit(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(deadlockCmd)
	deadlockCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "candidate limit, 0 for none")
	deadlockCmd.Flags().IntVar(&solverNodes, "solver-nodes", 0, "branch and bound node limit per solve, 0 for none")
	deadlockCmd.Flags().StringVar(&oracle, "oracle", "bdd", "reachable set used to check candidates (bdd, explicit)")
}
