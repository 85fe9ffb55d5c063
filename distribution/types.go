// SPDX-License-Identifier: MIT

package distribution

import (
	"errors"
	"fmt"
)

// Sentinel errors for distribution operations.
var (
	// ErrNegativeWeight indicates a histogram bin that is negative, NaN or ±Inf.
	ErrNegativeWeight = errors.New("distribution: negative or non-finite weight")

	// ErrLengthMismatch indicates two distributions over different vocabulary sizes.
	ErrLengthMismatch = errors.New("distribution: vocabulary length mismatch")

	// ErrWordOutOfRange indicates a word id outside [0, Len()).
	ErrWordOutOfRange = errors.New("distribution: word id out of range")

	// ErrEmpty indicates an operation that needs weights on an unset distribution.
	ErrEmpty = errors.New("distribution: distribution is empty")

	// ErrWordType indicates a word type outside [0, NumWordTypes).
	ErrWordType = errors.New("distribution: unknown word type")
)

// Epsilon is the additive floor applied to every probability before a logarithm.
const Epsilon = 1e-100

// WordType selects one of the phrase slots a document is tokenized into.
type WordType int

const (
	// NP1 is the subject noun phrase slot.
	NP1 WordType = iota
	// VP is the verb phrase slot.
	VP
	// NP2 is the object noun phrase slot.
	NP2
)

// NumWordTypes is the number of phrase slots per document.
const NumWordTypes = 3

// WordTypes lists every word type in canonical order.
var WordTypes = [NumWordTypes]WordType{NP1, VP, NP2}

// String returns the conventional slot name.
func (t WordType) String() string {
	switch t {
	case NP1:
		return "np1"
	case VP:
		return "vp"
	case NP2:
		return "np2"
	default:
		return fmt.Sprintf("wordtype(%d)", int(t))
	}
}

// Valid reports whether t is one of the declared word types.
func (t WordType) Valid() bool {
	return t >= 0 && int(t) < NumWordTypes
}

// distributionErrorf prefixes err with the operation name, keeping the sentinel
// reachable through errors.Is.
func distributionErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
