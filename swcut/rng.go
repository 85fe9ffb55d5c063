// SPDX-License-Identifier: MIT

package swcut

import "math/rand"

// defaultRNGSeed is used when callers pass seed==0 or no seed at all, so an
// unconfigured sampler is still reproducible.
const defaultRNGSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand; seed==0 ⇒ defaultRNGSeed.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(seed))
}

// bernoulli draws true with probability p (clamped to [0,1]).
func bernoulli(r *rand.Rand, p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}

	return r.Float64() < p
}
