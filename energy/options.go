// SPDX-License-Identifier: MIT

package energy

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/swclust/distribution"
)

// Option configures a Model. Constructors panic on meaningless values.
type Option func(*Model)

// WithWeights sets the per-word-type likelihood weights. It panics on a
// negative or non-finite weight, or when every weight is zero.
func WithWeights(w [distribution.NumWordTypes]float64) Option {
	var sum float64
	for _, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			panic("energy: WithWeights(negative or non-finite weight)")
		}
		sum += v
	}
	if sum == 0 {
		panic("energy: WithWeights(all zero)")
	}
	return func(m *Model) { m.weights = w }
}

// WithCooling replaces DefaultCooling. It panics if c does not validate.
func WithCooling(c Cooling) Option {
	if err := c.Validate(); err != nil {
		panic(err.Error())
	}
	return func(m *Model) { m.cooling = c }
}

// WithOCR makes the likelihood count OCR words found in each type's
// vocabulary, matching vertices built with OCR included.
func WithOCR(include bool) Option {
	return func(m *Model) { m.includeOCR = include }
}

// WithLogger sets the logger. It panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("energy: WithLogger(nil)")
	}
	return func(m *Model) { m.logger = l }
}
