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
	"github.com/jt05610/safenet/symbolic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"io"
	"math/big"
)

type checkResult struct {
	Net         string `yaml:"net"`
	Places      int    `yaml:"places"`
	Transitions int    `yaml:"transitions"`
	BFS         int    `yaml:"bfs"`
	DFS         int    `yaml:"dfs"`
	Symbolic    string `yaml:"symbolic"`
	Dead        int    `yaml:"dead"`
	Agree       bool   `yaml:"agree"`
}

func (r *checkResult) Text(w io.Writer) error {
	verdict := "agree"
	if !r.Agree {
		verdict = "DISAGREE"
	}
	_, err := fmt.Fprintf(w, "%s: %d places, %d transitions\nbfs %d, dfs %d, symbolic %s: %s\ndead markings: %d\n",
		r.Net, r.Places, r.Transitions, r.BFS, r.DFS, r.Symbolic, verdict, r.Dead)
	return err
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Cross-check the reachability engines on a net",
	Long: `Compute the reachable markings breadth-first, depth-first and symbolically
at the same time and compare the counts. Exits with an error when they differ.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := loadNet(cmd.Context(), inputFile)
		if err != nil {
			return err
		}
		var (
			bfs *analysis.Graph
			dfs int
			set *symbolic.Set
		)
		var g errgroup.Group
		g.Go(func() error {
			bfs = analysis.StateGraph(net, analysis.BreadthFirst)
			return nil
		})
		g.Go(func() error {
			dfs = len(analysis.Explore(net, analysis.DepthFirst))
			return nil
		})
		g.Go(func() error {
			var err error
			set, err = reachable(cmd, net)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		count := set.Count()
		res := &checkResult{
			Net:         net.Name,
			Places:      net.NumPlaces(),
			Transitions: net.NumTransitions(),
			BFS:         len(bfs.States),
			DFS:         dfs,
			Symbolic:    count.String(),
			Dead:        len(bfs.Deadlocks()),
		}
		res.Agree = res.BFS == res.DFS && count.Cmp(big.NewInt(int64(res.BFS))) == 0
		if err := emit(cmd, res); err != nil {
			return err
		}
		if !res.Agree {
			logger.Error("reachability engines disagree",
				zap.String("net", net.Name),
				zap.Int("bfs", res.BFS),
				zap.Int("dfs", res.DFS),
				zap.Stringer("symbolic", count),
			)
			return fmt.Errorf("%s: reachability engines disagree", net.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "image step limit, 0 for none")
}
