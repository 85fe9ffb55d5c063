// SPDX-License-Identifier: MIT

package hierarchy

import (
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/swcut"
)

// BranchPenalty is the log-prior cost of every top-level branch.
const BranchPenalty = 10.0

// Lexicon maps a word to its id within one word type.
type Lexicon interface {
	Index(word string) (int, error)
}

// WordSource yields the raw words of documents, e.g. a corpus.
type WordSource interface {
	Len() int
	Words(doc int, t distribution.WordType) ([]string, error)
}

// TopicTree is a Tree whose top-level branches carry the merged word
// distributions of their terminals.
type TopicTree struct {
	tree     *Tree
	lexicons [distribution.NumWordTypes]Lexicon
	stats    []distribution.Vertex // aligned with tree.Top()
	merges   *distribution.MergeCache
	logger   *zap.Logger
}

// TopicOption configures a TopicTree.
type TopicOption func(*TopicTree)

// WithLogger routes lookup-miss warnings to l. It panics on nil.
func WithLogger(l *zap.Logger) TopicOption {
	if l == nil {
		panic("hierarchy: WithLogger(nil)")
	}
	return func(t *TopicTree) { t.logger = l }
}

// NewTopicTree starts a flat topic tree with one branch per terminal vertex.
// terminals[i] must aggregate document i alone.
func NewTopicTree(terminals []distribution.Vertex, lexicons [distribution.NumWordTypes]Lexicon, opts ...TopicOption) *TopicTree {
	t := &TopicTree{
		tree:     New(len(terminals)),
		lexicons: lexicons,
		stats:    append([]distribution.Vertex(nil), terminals...),
		merges:   distribution.NewMergeCache(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Tree returns the underlying hierarchy.
func (t *TopicTree) Tree() *Tree { return t.tree }

// Branches returns the number of top-level branches.
func (t *TopicTree) Branches() int { return len(t.stats) }

// Branch returns the merged distributions of top-level branch i.
func (t *TopicTree) Branch(i int) (distribution.Vertex, error) {
	if i < 0 || i >= len(t.stats) {
		return distribution.Vertex{}, fmt.Errorf("%w: %d", ErrBranchNotFound, i)
	}

	return t.stats[i], nil
}

// CombineBranches merges branch j into branch i. The new branch takes index
// min(i, j); later branches shift down by one.
func (t *TopicTree) CombineBranches(i, j int) error {
	n := len(t.stats)
	if i < 0 || j < 0 || i >= n || j >= n || i == j {
		return fmt.Errorf("%w: (%d,%d) of %d", ErrBranchNotFound, i, j, n)
	}
	if i > j {
		i, j = j, i
	}
	merged, err := t.merges.Merge([]distribution.Vertex{t.stats[i], t.stats[j]})
	if err != nil {
		return fmt.Errorf("hierarchy: combine %d,%d: %w", i, j, err)
	}
	if err = t.tree.combine(i, j); err != nil {
		return err
	}
	t.stats[i] = merged
	t.stats = append(t.stats[:j], t.stats[j+1:]...)

	return nil
}

// AddLevelOnTop groups the current branches by c and merges their
// distributions.
func (t *TopicTree) AddLevelOnTop(c swcut.Clustering) error {
	if err := c.Validate(len(t.stats)); err != nil {
		return fmt.Errorf("%w: %w", ErrBadLevel, err)
	}
	next := make([]distribution.Vertex, 0, len(c))
	for _, cluster := range c.Canonical() {
		members := make([]distribution.Vertex, len(cluster))
		for k, v := range cluster {
			members[k] = t.stats[v]
		}
		merged, err := t.merges.Merge(members)
		if err != nil {
			return fmt.Errorf("hierarchy: add level: %w", err)
		}
		next = append(next, merged)
	}
	if err := t.tree.AddLevelOnTop(c); err != nil {
		return err
	}
	t.stats = next

	return nil
}

// FindBranchID returns the top-level branch holding terminal.
func (t *TopicTree) FindBranchID(terminal int) (int, error) {
	return t.tree.FindBranchID(terminal)
}

// Probability returns P(word | branch, type). A word missing from the
// lexicon is a lookup miss: it is logged and scores 1 so it does not affect
// the likelihood.
//
// Errors:
//   - ErrBranchNotFound, distribution.ErrWordType.
func (t *TopicTree) Probability(branch int, word string, wt distribution.WordType) (float64, error) {
	v, err := t.Branch(branch)
	if err != nil {
		return 0, err
	}
	dist, err := v.Distribution(wt)
	if err != nil {
		return 0, err
	}
	lex := t.lexicons[wt]
	if lex == nil {
		return 1, nil
	}
	id, err := lex.Index(word)
	if err != nil {
		t.logger.Warn("word not in vocabulary", zap.String("word", word), zap.Stringer("type", wt))
		return 1, nil
	}
	p, err := dist.At(id)
	if err != nil {
		t.logger.Warn("word beyond branch vocabulary", zap.String("word", word), zap.Stringer("type", wt))
		return 1, nil
	}

	return p, nil
}

// Likelihood returns the log-likelihood of src's documents, each scored on the
// branch that holds it. A nil subset scores every document of src.
// Probabilities are floored at distribution.Epsilon.
func (t *TopicTree) Likelihood(src WordSource, subset []int) (float64, error) {
	docs := subset
	if docs == nil {
		docs = make([]int, src.Len())
		for i := range docs {
			docs[i] = i
		}
	}

	var ll float64
	for _, doc := range docs {
		branch, err := t.FindBranchID(doc)
		if err != nil {
			return 0, err
		}
		for _, wt := range distribution.WordTypes {
			words, err := src.Words(doc, wt)
			if err != nil {
				return 0, fmt.Errorf("hierarchy: doc %d: %w", doc, err)
			}
			for _, w := range words {
				p, err := t.Probability(branch, w, wt)
				if err != nil {
					return 0, err
				}
				ll += math.Log(math.Max(p, distribution.Epsilon))
			}
		}
	}

	return ll, nil
}

// LogPrior favours simple trees: −BranchPenalty per top-level branch.
func (t *TopicTree) LogPrior() float64 { return -BranchPenalty * float64(len(t.stats)) }

// Render writes the tree outline; see Tree.Render.
func (t *TopicTree) Render(w io.Writer, label func(terminal int) string) error {
	return t.tree.Render(w, label)
}

// Synthesize returns, per word type, the k most probable words of branch i
// resolved through names. names may be nil for ids only.
func (t *TopicTree) Synthesize(i, k int, names [distribution.NumWordTypes]func(id int) (string, error)) ([distribution.NumWordTypes][]string, error) {
	var out [distribution.NumWordTypes][]string
	v, err := t.Branch(i)
	if err != nil {
		return out, err
	}
	for _, wt := range distribution.WordTypes {
		dist, _ := v.Distribution(wt)
		for _, id := range dist.Top(k) {
			if names[wt] == nil {
				out[wt] = append(out[wt], fmt.Sprint(id))
				continue
			}
			w, err := names[wt](id)
			if err != nil {
				return out, err
			}
			out[wt] = append(out[wt], w)
		}
	}

	return out, nil
}
