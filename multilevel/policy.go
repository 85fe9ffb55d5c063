// SPDX-License-Identifier: MIT

package multilevel

// DefaultMaxLevels bounds the default stop policy.
const DefaultMaxLevels = 10

// State describes the level that just completed.
type State struct {
	Level    int // 1-based
	Vertices int // vertices the level partitioned
	Clusters int // clusters it produced
}

// StopPolicy decides whether the driver stops after a completed level.
//
// Independently of the policy, the driver always stops once a level leaves at
// most one cluster or merges nothing. It also stops when no edge survives
// pruning.
type StopPolicy interface {
	Stop(s State) bool
}

// StopFunc adapts a function to StopPolicy.
type StopFunc func(s State) bool

// Stop calls f.
func (f StopFunc) Stop(s State) bool { return f(s) }

// StopWhenCollapsed stops once a level produced a single cluster.
func StopWhenCollapsed() StopPolicy {
	return StopFunc(func(s State) bool { return s.Clusters <= 1 })
}

// StopAfterLevels stops after n levels. It panics if n < 1.
func StopAfterLevels(n int) StopPolicy {
	if n < 1 {
		panic("multilevel: StopAfterLevels(n<1)")
	}
	return StopFunc(func(s State) bool { return s.Level >= n })
}

// AnyOf stops as soon as one of ps does.
func AnyOf(ps ...StopPolicy) StopPolicy {
	return StopFunc(func(s State) bool {
		for _, p := range ps {
			if p.Stop(s) {
				return true
			}
		}
		return false
	})
}

// NeverStop leaves termination to the driver's collapse and progress checks.
func NeverStop() StopPolicy {
	return StopFunc(func(State) bool { return false })
}

// DefaultStopPolicy stops on collapse or after DefaultMaxLevels levels.
func DefaultStopPolicy() StopPolicy {
	return AnyOf(StopWhenCollapsed(), StopAfterLevels(DefaultMaxLevels))
}
