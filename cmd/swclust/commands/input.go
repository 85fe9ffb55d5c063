// SPDX-License-Identifier: MIT

package commands

import (
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/swclust/corpus"
	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/segment"
)

// corpusFile is the --corpus document.
type corpusFile struct {
	Documents []documentEntry `yaml:"documents"`
}

type documentEntry struct {
	Name      string    `yaml:"name"`
	Timestamp time.Time `yaml:"timestamp"`
	NP1       []string  `yaml:"np1"`
	VP        []string  `yaml:"vp"`
	NP2       []string  `yaml:"np2"`
	OCR       []string  `yaml:"ocr"`
}

func (e documentEntry) document() corpus.Document {
	d := corpus.Document{Name: e.Name, Timestamp: e.Timestamp, OCR: e.OCR}
	d.Words[distribution.NP1] = e.NP1
	d.Words[distribution.VP] = e.VP
	d.Words[distribution.NP2] = e.NP2

	return d
}

// sequenceFile is the --sequence document.
type sequenceFile struct {
	Prior       []float64   `yaml:"prior"`
	Transition  [][]float64 `yaml:"transition"` // [current][previous]
	LengthPrior []float64   `yaml:"length_prior"`
	Nodes       []nodeEntry `yaml:"nodes"`
	Boundaries  []int       `yaml:"boundaries"` // optional ground truth
}

type perType struct {
	NP1 []float64 `yaml:"np1"`
	VP  []float64 `yaml:"vp"`
	NP2 []float64 `yaml:"np2"`
}

type nodeEntry struct {
	Text   string  `yaml:"text"`
	Forced bool    `yaml:"forced"`
	Probs  perType `yaml:"probs"`
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

func loadCorpus(path string) (*corpus.Corpus, []string, error) {
	var f corpusFile
	if err := readYAML(path, &f); err != nil {
		return nil, nil, err
	}
	c := corpus.New()
	names := make([]string, 0, len(f.Documents))
	for i, e := range f.Documents {
		c.Add(e.document())
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("doc-%d", i)
		}
		names = append(names, name)
	}

	return c, names, nil
}

func loadSequence(path string, opts ...segment.Option) (*segment.Model, sequenceFile, error) {
	var f sequenceFile
	if err := readYAML(path, &f); err != nil {
		return nil, f, err
	}
	k := len(f.Prior)
	flat := make([]float64, 0, k*k)
	for i, row := range f.Transition {
		if len(row) != k || len(f.Transition) != k {
			return nil, f, fmt.Errorf("%s: transition row %d: want %d×%d table", path, i, k, k)
		}
		flat = append(flat, row...)
	}
	if k == 0 || len(flat) != k*k {
		return nil, f, fmt.Errorf("%s: transition: want %d×%d table", path, k, k)
	}

	nodes := make([]segment.Node, len(f.Nodes))
	for i, e := range f.Nodes {
		nodes[i].Forced = e.Forced
		nodes[i].Probs[distribution.NP1] = e.Probs.NP1
		nodes[i].Probs[distribution.VP] = e.Probs.VP
		nodes[i].Probs[distribution.NP2] = e.Probs.NP2
	}
	m, err := segment.New(nodes, f.Prior, mat.NewDense(k, k, flat), f.LengthPrior, opts...)
	if err != nil {
		return nil, f, fmt.Errorf("%s: %w", path, err)
	}

	return m, f, nil
}
