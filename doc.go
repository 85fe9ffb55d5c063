// SPDX-License-Identifier: MIT

// Package swclust is an energy-based story clustering and segmentation
// engine built on Swendsen–Wang graph cuts.
//
// Documents, tokenized into noun-phrase, verb-phrase and second noun-phrase
// word lists, become vertices carrying one word distribution per type. A
// multi-level driver repeatedly prunes a similarity graph, samples a
// partition with the SW-cut sampler against a likelihood and temporal-prior
// energy, and folds each partition into a topic hierarchy. The same sampler
// segments an ordered sequence of sentences into category-labeled runs.
//
// Packages, leaves first:
//
//	distribution/ normalized histograms, KL and total variation, vertices, merge cache
//	vocab/        word ↔ id tables
//	corpus/       tokenized documents, per-document distributions, OCR words
//	graph/        int-indexed undirected graphs and connected components
//	swcut/        the Sampler contract and the reference SW-cut sampler
//	affinity/     edge probabilities exp(−avgKL/K) and level-dependent pruning
//	energy/       clustering energy, Gibbs target and cooling schedule
//	hierarchy/    append-only cluster tree, topic tree, msgpack snapshots
//	multilevel/   the level-by-level driver, stop policies and monitoring
//	segment/      sequence segmentation energy and classification
//	config/       YAML settings
//	cmd/swclust/  command-line front end
//
// Quick start:
//
//	corp := corpus.New()
//	corp.Add(corpus.Document{Name: "a", Timestamp: t, Words: words})
//	res, err := multilevel.New(swcut.New(swcut.WithSeed(1))).Run(ctx, corp)
//	_ = res.Topics.Render(os.Stdout, nil)
package swclust
