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
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/symbolic"
	"github.com/spf13/cobra"
	"io"
)

var maxIterations int

type symbolicResult struct {
	Net        string   `yaml:"net"`
	Reachable  string   `yaml:"reachable"`
	Iterations int      `yaml:"iterations"`
	Nodes      int      `yaml:"nodes"`
	Markings   []string `yaml:"markings,omitempty"`
}

func (r *symbolicResult) Text(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %s reachable markings after %d image steps, %d BDD nodes\n", r.Net, r.Reachable, r.Iterations, r.Nodes)
	if err != nil {
		return err
	}
	for _, m := range r.Markings {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}

func iterationLimit(cmd *cobra.Command) int {
	if cmd.Flags().Changed("max-iterations") {
		return maxIterations
	}
	return environment.MaxIterations
}

func reachable(cmd *cobra.Command, net *safenet.Net) (*symbolic.Set, error) {
	return symbolic.Reachable(net,
		symbolic.WithLogger(logger.Named("symbolic")),
		symbolic.WithMaxIterations(iterationLimit(cmd)),
	)
}

// symbolicCmd represents the symbolic command
var symbolicCmd = &cobra.Command{
	Use:   "symbolic",
	Short: "Compute the reachable set as a BDD",
	Long: `Compute the reachable markings of a net as a binary decision diagram and
report its size.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := loadNet(cmd.Context(), inputFile)
		if err != nil {
			return err
		}
		set, err := reachable(cmd, net)
		if err != nil {
			return err
		}
		res := &symbolicResult{
			Net:        net.Name,
			Reachable:  set.Count().String(),
			Iterations: set.Iterations(),
			Nodes:      set.NodeCount(),
		}
		if list {
			res.Markings = markingStrings(set.Markings())
		}
		return emit(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(symbolicCmd)
	symbolicCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "image step limit, 0 for none")
	symbolicCmd.Flags().BoolVarP(&list, "list", "l", false, "print every reachable marking")
}
