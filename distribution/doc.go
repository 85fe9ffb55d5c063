// SPDX-License-Identifier: MIT

// Package distribution models the word statistics that every clustering
// vertex carries.
//
// A Distribution is a normalized histogram over one vocabulary. It remembers
// the raw total it was normalized by, so that two distributions can be merged
// back into the exact frequency-weighted combination of their source counts:
//
//	merged[i] = (a[i]·a.total + b[i]·b.total) / (a.total + b.total)
//
// A Vertex bundles one Distribution per word type (NP1, VP, NP2) with the
// sorted set of document ids it aggregates. Vertex identity is the document
// set alone: two vertices built along different merge paths but covering the
// same documents are interchangeable, and MergeCache exploits that by keying
// merged results on Vertex.Key().
//
// Divergences:
//
//	KL(p, q)             = Σ p_i·(log(p_i+ε) − log(q_i+ε)),  ε = 1e-100
//	TotalVariation(p, q) = ½·Σ|p_i − q_i|                     ∈ [0, 1]
//
// Errors:
//
//	ErrNegativeWeight  - a histogram bin is negative, NaN or infinite.
//	ErrLengthMismatch  - two non-empty distributions span different vocabularies.
//	ErrWordOutOfRange  - a word id lies outside the distribution's vocabulary.
//	ErrEmpty           - an operation needs weights but the distribution is unset.
//	ErrWordType        - a word type outside [0, NumWordTypes).
package distribution
