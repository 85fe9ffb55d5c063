// SPDX-License-Identifier: MIT

package swcut

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/swclust/graph"
)

// ErrBadProblem indicates a Problem missing a required field.
var ErrBadProblem = errors.New("swcut: invalid problem")

// Context is the sampler state exposed to callbacks.
type Context struct {
	// Iteration counts proposals made so far, starting at 0.
	Iteration int

	// Accepted counts accepted proposals.
	Accepted int

	// LogDensity is the log target of the current clustering.
	LogDensity float64
}

// Target scores a clustering. Higher is more probable.
type Target interface {
	// LogDensity returns log π(c) up to an additive constant. Returning an
	// error aborts sampling.
	LogDensity(c Clustering, sc *Context) (float64, error)
}

// TargetFunc adapts a function to Target.
type TargetFunc func(c Clustering, sc *Context) (float64, error)

// LogDensity calls f.
func (f TargetFunc) LogDensity(c Clustering, sc *Context) (float64, error) { return f(c, sc) }

// Problem is one sampling task.
type Problem struct {
	GraphSize int
	Edges     []graph.Edge
	EdgeProb  func(i, j int, sc *Context) float64
	Target    Target

	// Initial is the starting partition; nil means singletons.
	Initial Clustering

	// Callback runs after every proposal, accepted or not.
	Callback func(c Clustering, sc *Context)

	// Monitor computes a scalar reported alongside each proposal.
	Monitor func(c Clustering) float64
}

// Sampler partitions a Problem's vertices.
type Sampler interface {
	Sample(ctx context.Context, p Problem) (Clustering, error)
}

func (p Problem) validate() error {
	switch {
	case p.GraphSize < 0:
		return fmt.Errorf("%w: negative graph size %d", ErrBadProblem, p.GraphSize)
	case p.EdgeProb == nil:
		return fmt.Errorf("%w: nil EdgeProb", ErrBadProblem)
	case p.Target == nil:
		return fmt.Errorf("%w: nil Target", ErrBadProblem)
	}

	return nil
}
