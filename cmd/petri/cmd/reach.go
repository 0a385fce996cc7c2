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
	"github.com/spf13/cobra"
	"io"
)

var (
	strategy string
	list     bool
)

type reachResult struct {
	Net       string   `yaml:"net"`
	Strategy  string   `yaml:"strategy"`
	Reachable int      `yaml:"reachable"`
	Deadlocks []string `yaml:"deadlocks"`
	Markings  []string `yaml:"markings,omitempty"`
}

func (r *reachResult) Text(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %d reachable markings (%s), %d dead\n", r.Net, r.Reachable, r.Strategy, len(r.Deadlocks))
	if err != nil {
		return err
	}
	for _, m := range r.Deadlocks {
		if _, err := fmt.Fprintf(w, "dead %s\n", m); err != nil {
			return err
		}
	}
	for _, m := range r.Markings {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}

// reachCmd represents the reach command
var reachCmd = &cobra.Command{
	Use:   "reach",
	Short: "Enumerate reachable markings one at a time",
	Long: `Enumerate the reachable markings of a net breadth-first or depth-first
and report the dead ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := analysis.ParseStrategy(strategy)
		if err != nil {
			return err
		}
		net, err := loadNet(cmd.Context(), inputFile)
		if err != nil {
			return err
		}
		g := analysis.StateGraph(net, s)
		res := &reachResult{
			Net:       net.Name,
			Strategy:  s.String(),
			Reachable: len(g.States),
			Deadlocks: []string{},
		}
		for _, i := range g.Deadlocks() {
			res.Deadlocks = append(res.Deadlocks, g.States[i].String())
		}
		if list {
			res.Markings = markingStrings(g.States)
		}
		return emit(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(reachCmd)
	reachCmd.Flags().StringVarP(&strategy, "strategy", "s", "bfs", "exploration order (bfs, dfs)")
	reachCmd.Flags().BoolVarP(&list, "list", "l", false, "print every reachable marking")
}
