// SPDX-License-Identifier: MIT

package corpus_test

import (
	"testing"
	"time"

	"github.com/katalvlaran/swclust/corpus"
	"github.com/katalvlaran/swclust/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCorpus() *corpus.Corpus {
	c := corpus.New()
	c.Add(corpus.Document{
		Name:      "a",
		Timestamp: time.Date(2013, 4, 15, 0, 0, 0, 0, time.UTC),
		Words: [distribution.NumWordTypes][]string{
			{"police", "police"},
			{"arrest"},
			{"suspect"},
		},
		OCR: []string{"suspect", "boston"},
	})
	c.Add(corpus.Document{
		Name:  "b",
		Words: [distribution.NumWordTypes][]string{{"storm"}, {"hit"}, {"coast", "suspect"}},
	})

	return c
}

func TestCorpus_AddAssignsIDs(t *testing.T) {
	c := sampleCorpus()
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Vocabulary(distribution.NP1).Size())
	assert.Equal(t, 2, c.Vocabulary(distribution.NP2).Size(), "suspect is shared between documents")

	name, err := c.Name(1)
	require.NoError(t, err)
	assert.Equal(t, "b", name)

	_, err = c.Timestamp(9)
	assert.ErrorIs(t, err, corpus.ErrDocumentNotFound)
}

func TestCorpus_OccurrencesWithOCR(t *testing.T) {
	c := sampleCorpus()

	plain, err := c.Occurrences(0, distribution.NP2, false)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, plain)

	withOCR, err := c.Occurrences(0, distribution.NP2, true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, withOCR, "only OCR words known to the NP2 vocabulary count")

	again, err := c.Occurrences(0, distribution.NP2, false)
	require.NoError(t, err)
	assert.Equal(t, plain, again, "OCR inclusion never mutates the stored ids")
}

func TestCorpus_Distribution(t *testing.T) {
	c := sampleCorpus()

	d, err := c.Distribution(1, distribution.NP2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, []float64{mustAt(t, d, 0), mustAt(t, d, 1)}, 1e-12)

	v, err := c.Vertex(0, true)
	require.NoError(t, err)
	assert.Equal(t, "0", v.Key())
}

func mustAt(t *testing.T, d distribution.Distribution, id int) float64 {
	t.Helper()
	p, err := d.At(id)
	require.NoError(t, err)

	return p
}

func TestCorpus_WordsRoundTrip(t *testing.T) {
	c := sampleCorpus()
	words, err := c.Words(1, distribution.NP2)
	require.NoError(t, err)
	assert.Equal(t, []string{"coast", "suspect"}, words)

	words, err = c.Words(0, distribution.NP1)
	require.NoError(t, err)
	assert.Equal(t, []string{"police", "police"}, words, "OCR words are not included")
}
