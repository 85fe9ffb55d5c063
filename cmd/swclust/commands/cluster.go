// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/multilevel"
	"github.com/katalvlaran/swclust/swcut"
)

var (
	corpusPath    string
	checkpointDir string
	topWords      int
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Build a topic hierarchy from a YAML corpus",
	Long: `Cluster reads tokenized documents and prints the topic hierarchy found
by multi-level SW cuts, followed by the most probable words of every topic.

Corpus format:
  documents:
    - name: marathon-1
      timestamp: 2013-04-15T14:50:00Z
      np1: [police, suspect]
      vp: [arrest]
      np2: [marathon]
      ocr: [boston]
`,
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().StringVar(&corpusPath, "corpus", "", "YAML corpus file (required)")
	clusterCmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", "", "write a msgpack hierarchy snapshot per level")
	clusterCmd.Flags().IntVar(&topWords, "top", 3, "words shown per topic and word type")
	_ = clusterCmd.MarkFlagRequired("corpus")
}

func runCluster(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	corp, names, err := loadCorpus(corpusPath)
	if err != nil {
		return err
	}

	sampler := swcut.New(append(cfg.SamplerOptions(), swcut.WithLogger(log.Named("swcut")))...)
	opts := append(cfg.DriverOptions(), multilevel.WithLogger(log))
	if checkpointDir != "" {
		if err = os.MkdirAll(checkpointDir, 0o755); err != nil {
			return err
		}
		opts = append(opts, multilevel.WithCheckpoint(func(_ context.Context, level int, data []byte) error {
			return os.WriteFile(filepath.Join(checkpointDir, fmt.Sprintf("level-%02d.msgpack", level)), data, 0o644)
		}))
	}

	res, err := multilevel.New(sampler, opts...).Run(cmd.Context(), corp)
	if err != nil {
		return err
	}
	log.Info("run complete", zap.String("run_id", res.RunID), zap.Int("levels", len(res.Levels)))

	out := cmd.OutOrStdout()
	if err = res.Topics.Render(out, func(i int) string { return names[i] }); err != nil {
		return err
	}

	var lookup [distribution.NumWordTypes]func(int) (string, error)
	for _, wt := range distribution.WordTypes {
		lookup[wt] = corp.Vocabulary(wt).Word
	}
	for b := 0; b < res.Topics.Branches(); b++ {
		words, err := res.Topics.Synthesize(b, topWords, lookup)
		if err != nil {
			return err
		}
		parts := make([]string, 0, distribution.NumWordTypes)
		for _, wt := range distribution.WordTypes {
			parts = append(parts, fmt.Sprintf("%s=%s", wt, strings.Join(words[wt], ",")))
		}
		fmt.Fprintf(out, "topic %d: %s\n", b, strings.Join(parts, " "))
	}

	return nil
}
