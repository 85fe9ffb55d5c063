// SPDX-License-Identifier: MIT

// Package corpus holds already-tokenized documents and converts them into
// word ids and per-document distributions.
//
// Each Document carries one word list per distribution.WordType plus an
// optional list of OCR words. OCR words never enter the vocabularies; they are
// matched against a word type's vocabulary on demand (includeOCR) and counted
// as extra occurrences when present.
package corpus

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/swclust/distribution"
	"github.com/katalvlaran/swclust/vocab"
)

// ErrDocumentNotFound indicates a document id outside [0, Len()).
var ErrDocumentNotFound = errors.New("corpus: document not found")

// Document is the tokenized input for one story.
type Document struct {
	Name      string
	Timestamp time.Time
	Words     [distribution.NumWordTypes][]string // indexed by distribution.WordType
	OCR       []string
}

// feature is the id-level view of a Document.
type feature struct {
	name      string
	timestamp time.Time
	ids       [distribution.NumWordTypes][]int
	ocr       []string
}

// Corpus owns one vocabulary per word type and the documents added to it.
type Corpus struct {
	vocabs [distribution.NumWordTypes]*vocab.Vocabulary
	docs   []feature
}

// New returns an empty corpus with fresh vocabularies.
func New() *Corpus {
	c := &Corpus{}
	for i := range c.vocabs {
		c.vocabs[i] = vocab.New()
	}

	return c
}

// Add converts doc to word ids, growing the vocabularies with unseen words,
// and returns the new document id.
func (c *Corpus) Add(doc Document) int {
	f := feature{
		name:      doc.Name,
		timestamp: doc.Timestamp,
		ocr:       append([]string(nil), doc.OCR...),
	}
	for _, t := range distribution.WordTypes {
		ids := make([]int, len(doc.Words[t]))
		for i, w := range doc.Words[t] {
			ids[i] = c.vocabs[t].Add(w)
		}
		f.ids[t] = ids
	}
	c.docs = append(c.docs, f)

	return len(c.docs) - 1
}

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.docs) }

// Vocabulary returns the vocabulary of word type t, or nil for an unknown type.
func (c *Corpus) Vocabulary(t distribution.WordType) *vocab.Vocabulary {
	if !t.Valid() {
		return nil
	}

	return c.vocabs[t]
}

// Name returns the document's name.
func (c *Corpus) Name(doc int) (string, error) {
	f, err := c.feature(doc)
	if err != nil {
		return "", err
	}

	return f.name, nil
}

// Timestamp returns the document's timestamp.
func (c *Corpus) Timestamp(doc int) (time.Time, error) {
	f, err := c.feature(doc)
	if err != nil {
		return time.Time{}, err
	}

	return f.timestamp, nil
}

// Occurrences returns one word id per occurrence of type t in doc. With
// includeOCR, OCR words found in t's vocabulary are appended.
func (c *Corpus) Occurrences(doc int, t distribution.WordType, includeOCR bool) ([]int, error) {
	f, err := c.feature(doc)
	if err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, fmt.Errorf("corpus: %w", distribution.ErrWordType)
	}

	ids := append([]int(nil), f.ids[t]...)
	if includeOCR {
		for _, w := range f.ocr {
			if id, lookupErr := c.vocabs[t].Index(w); lookupErr == nil {
				ids = append(ids, id)
			}
		}
	}

	return ids, nil
}

// Words returns doc's words of type t as they were added.
func (c *Corpus) Words(doc int, t distribution.WordType) ([]string, error) {
	ids, err := c.Occurrences(doc, t, false)
	if err != nil {
		return nil, err
	}
	words := make([]string, len(ids))
	for i, id := range ids {
		if words[i], err = c.vocabs[t].Word(id); err != nil {
			return nil, fmt.Errorf("corpus: %w", err)
		}
	}

	return words, nil
}

// Distribution returns the normalized word histogram of type t for doc over
// the full current vocabulary of t.
func (c *Corpus) Distribution(doc int, t distribution.WordType, includeOCR bool) (distribution.Distribution, error) {
	ids, err := c.Occurrences(doc, t, includeOCR)
	if err != nil {
		return distribution.Distribution{}, err
	}

	return distribution.FromCounts(c.vocabs[t].Size(), ids)
}

// Vertex bundles every word-type distribution of doc into a single-document
// vertex, the level-1 unit of clustering.
func (c *Corpus) Vertex(doc int, includeOCR bool) (distribution.Vertex, error) {
	var dists [distribution.NumWordTypes]distribution.Distribution
	for _, t := range distribution.WordTypes {
		d, err := c.Distribution(doc, t, includeOCR)
		if err != nil {
			return distribution.Vertex{}, err
		}
		dists[t] = d
	}

	return distribution.NewVertex([]int{doc}, dists), nil
}

func (c *Corpus) feature(doc int) (*feature, error) {
	if doc < 0 || doc >= len(c.docs) {
		return nil, fmt.Errorf("%w: %d", ErrDocumentNotFound, doc)
	}

	return &c.docs[doc], nil
}
