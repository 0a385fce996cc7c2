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
	gv "github.com/goccy/go-graphviz"
	"github.com/jt05610/safenet/analysis"
	"github.com/jt05610/safenet/graphviz"
	"github.com/spf13/cobra"
	"os"
	"path/filepath"
)

var (
	outputDir string
	format    string
	states    bool
	diagram   bool
)

func extension(f gv.Format) string {
	if f == gv.XDOT {
		return "dot"
	}
	return string(f)
}

func create(name string) (*os.File, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(outputDir, name))
}

// vizCmd represents the viz command
var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Create a graphviz figure from a petri net",
	Long: `Create a graphviz figure from a petri net. The net is always drawn with its
initial marking. --states also draws the reachability graph and --bdd the
decision diagram of the reachable set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := graphviz.ParseFormat(format)
		if err != nil {
			return err
		}
		net, err := loadNet(cmd.Context(), inputFile)
		if err != nil {
			return err
		}
		figures := map[string]func(*graphviz.Writer, *os.File) error{
			net.Name: func(w *graphviz.Writer, df *os.File) error {
				return w.Flush(df, net)
			},
		}
		if states {
			figures[net.Name+"_states"] = func(w *graphviz.Writer, df *os.File) error {
				return w.FlushStates(df, net, analysis.StateGraph(net, analysis.BreadthFirst))
			}
		}
		if diagram {
			figures[net.Name+"_bdd"] = func(w *graphviz.Writer, df *os.File) error {
				set, err := reachable(cmd, net)
				if err != nil {
					return err
				}
				return w.FlushSet(df, set)
			}
		}
		for name, draw := range figures {
			outName := name + "." + extension(f)
			df, err := create(outName)
			if err != nil {
				return err
			}
			w := graphviz.New(&graphviz.Config{
				Name:    name,
				Font:    graphviz.Helvetica,
				RankDir: graphviz.LeftToRight,
				Format:  f,
			})
			err = draw(w, df)
			_ = df.Close()
			if err != nil {
				return fmt.Errorf("drawing %s: %w", outName, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(outputDir, outName))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vizCmd)
	vizCmd.Flags().StringVarP(&outputDir, "dir", "o", ".", "output directory")
	vizCmd.Flags().StringVarP(&format, "format", "f", "svg", "output format (svg, png, jpg, dot)")
	vizCmd.Flags().BoolVar(&states, "states", false, "also draw the reachability graph")
	vizCmd.Flags().BoolVar(&diagram, "bdd", false, "also draw the decision diagram of the reachable set")
}
