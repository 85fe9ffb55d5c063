// SPDX-License-Identifier: MIT

// Package vocab maps words to dense, stable integer ids.
//
// Ids are assigned in insertion order starting at 0 and never change for the
// lifetime of a Vocabulary, so they can index Distribution weights directly.
package vocab

import (
	"errors"
	"fmt"
)

// ErrUnknownWord is returned when a word has no id in the vocabulary.
var ErrUnknownWord = errors.New("vocab: unknown word")

// ErrUnknownID is returned when an id is outside [0, Size()).
var ErrUnknownID = errors.New("vocab: unknown id")

// Vocabulary is a bidirectional word↔id table. It is not safe for concurrent
// mutation.
type Vocabulary struct {
	index map[string]int
	words []string
}

// New returns an empty vocabulary, optionally seeded with words.
func New(words ...string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int, len(words))}
	for _, w := range words {
		v.Add(w)
	}

	return v
}

// Add inserts word if absent and returns its id.
func (v *Vocabulary) Add(word string) int {
	if id, ok := v.index[word]; ok {
		return id
	}
	id := len(v.words)
	v.index[word] = id
	v.words = append(v.words, word)

	return id
}

// Index returns the id of word.
//
// Errors:
//   - ErrUnknownWord if word was never added.
func (v *Vocabulary) Index(word string) (int, error) {
	id, ok := v.index[word]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}

	return id, nil
}

// Word returns the word with the given id.
//
// Errors:
//   - ErrUnknownID if id is outside [0, Size()).
func (v *Vocabulary) Word(id int) (string, error) {
	if id < 0 || id >= len(v.words) {
		return "", fmt.Errorf("%w: %d", ErrUnknownID, id)
	}

	return v.words[id], nil
}

// Contains reports whether word has an id.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.index[word]
	return ok
}

// Size returns the number of distinct words.
func (v *Vocabulary) Size() int { return len(v.words) }
