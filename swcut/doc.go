// SPDX-License-Identifier: MIT

// Package swcut defines the contract between the energy models and a
// stochastic graph-cut sampler, and ships a reference Swendsen–Wang-cut
// sampler that honors it.
//
// Contract (see Problem):
//
//	GraphSize  int                              vertices 0..n-1
//	Edges      []graph.Edge                     candidate bonds
//	EdgeProb   (i, j, *Context) -> q ∈ [0,1]    bond-retention probability
//	Target     LogDensity(Clustering, *Context) unnormalized log π
//	Initial    Clustering                       optional starting partition
//	Callback   (Clustering, *Context)           optional, after each proposal
//	Monitor    Clustering -> float64            optional scalar statistic
//
// The sampler returns a Clustering: disjoint, non-empty, sorted vertex sets
// covering 0..n-1, ordered by their smallest vertex.
//
// SW-cut step (one iteration):
//  1. Turn on every edge whose endpoints share a cluster with probability q.
//  2. Pick a vertex uniformly; V0 is its connected component of on-edges.
//  3. Propose moving V0 to a neighboring cluster or to a fresh cluster.
//  4. Accept with min(1, A) where
//     A = Π_{e∈C(V0,V'\V0)}(1−q_e) / Π_{e∈C(V0,V\V0)}(1−q_e) · π(new)/π(old).
//
// Everything runs in log space, so targets whose density underflows float64
// (exp(−E/T) for large E) still compare correctly.
//
// Errors:
//
//	ErrBadProblem    - missing EdgeProb/Target or negative GraphSize.
//	ErrNotPartition  - a clustering that is not a partition of 0..n-1.
package swcut
