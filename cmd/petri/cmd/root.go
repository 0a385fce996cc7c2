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
	"context"
	"fmt"
	"github.com/jt05610/safenet/env"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
	"os/signal"
)

var (
	inputFile    string
	logLevel     string
	outputFormat string
	envFile      string

	logger      = zap.NewNop()
	environment = env.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "petri",
	Short: "Analyze 1-safe Petri nets",
	Long: `Analyze 1-safe Petri nets loaded from PNML, petrifile YAML or DOT files.

Reachable markings are computed explicitly and symbolically, dead markings are
searched with integer programming and linear costs are maximized over the
reachable set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		e, err := env.LoadEnv(logger, files...)
		if err != nil {
			return err
		}
		environment = e
		if !cmd.Flags().Changed("log-level") {
			logLevel = e.LogLevel
		}
		if !cmd.Flags().Changed("output") {
			outputFormat = e.Output
		}
		if outputFormat != textOutput && outputFormat != yamlOutput {
			return fmt.Errorf("unknown output format %q", outputFormat)
		}
		l, err := newLogger(logLevel)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It stops running analyses on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", textOutput, "result format (text, yaml)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "net file (.pnml, .xml, .yaml, .yml, .petri, .dot, .gv)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "dotenv file to read instead of .env")
}
