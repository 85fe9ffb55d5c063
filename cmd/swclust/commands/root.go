// SPDX-License-Identifier: MIT

// Package commands implements the swclust command tree.
package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/config"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "swclust",
	Short: "Energy-based story clustering and segmentation",
	Long: `swclust groups tokenized news stories into a topic hierarchy with
multi-level Swendsen-Wang cuts, and segments ordered sequences into
category-labeled runs with the same sampler.

Examples:
  swclust cluster --corpus docs.yaml
  swclust --config tuned.yaml cluster --corpus docs.yaml --checkpoint-dir ./ckpt
  swclust segment --sequence seq.yaml
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. An interrupt cancels the run at the next
// sampler iteration.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML settings file (defaults when empty)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "development logging at debug level")

	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(segmentCmd)
}

// loadConfig returns the --config settings, or the defaults.
func loadConfig() (config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}

	return config.Load(cfgFile)
}

// newLogger builds the process logger.
func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
