// Package chain implements the evolving Markov chain: a transition-count
// matrix that grows as new states appear, an access counter per source
// state, a lazily materialized stochastic matrix, and one fallback
// statistics accumulator consulted for sparsely observed rows.
package chain

import (
	"github.com/tinygrid/markovcache/internal/linalg"
	"github.com/tinygrid/markovcache/internal/stats"
)

// Chain is the evolving Markov chain described by §4.2 of the design.
// It is not safe for concurrent use.
type Chain struct {
	numStates int
	counts    *linalg.Matrix // T: raw transition counts
	access    linalg.Vector  // a[i] = Σ_j T[i][j]
	prob      *linalg.Matrix // P: lazily refreshed stochastic view
	stale     bool
	threshold int
	fallback  stats.Accumulator
}

// New constructs an empty chain (zero states) using the named fallback
// accumulator ("transitions" or "states") and the given access
// threshold: rows with fewer than threshold observed accesses use the
// fallback for prediction instead of their own counts.
func New(accumulatorType string, threshold int) (*Chain, error) {
	fallback, err := stats.New(accumulatorType)
	if err != nil {
		return nil, err
	}
	return &Chain{
		counts:    linalg.NewMatrix(0, 0),
		access:    linalg.NewVector(0),
		prob:      linalg.NewMatrix(0, 0),
		stale:     true,
		threshold: threshold,
		fallback:  fallback,
	}, nil
}

// NumStates returns the current number of registered states.
func (c *Chain) NumStates() int { return c.numStates }

// AddState appends one state and returns its index (NumStates()-1 after
// the call). T gains a new zero row and column, the access counter
// vector gains a zero entry, and the fallback accumulator is extended
// the same way.
func (c *Chain) AddState() int {
	c.numStates++
	c.counts.Resize(c.numStates, c.numStates, linalg.Preserve)
	c.access = c.access.Resize(c.numStates, linalg.Preserve)
	c.fallback.AddState()
	c.stale = true
	return c.numStates - 1
}

// RegisterTransition records one observed transition i -> j. Both
// indices must already be registered states.
func (c *Chain) RegisterTransition(i, j int) {
	c.counts.Add(i, j, 1)
	c.access.Set(i, c.access.At(i)+1)
	c.fallback.AccumulateTransition(i, j)
	c.stale = true

	if debugging {
		assertInvariant(c.access.At(i) == c.counts.Row(i).Sum(),
			"chain: I4 violated: access count diverged from row sum")
	}
}

// PredictNextState fills out (length NumStates()) with an unnormalized
// relative-cost signal for the single step following source state i: the
// fallback row estimate when i has been observed fewer than threshold
// times, otherwise the raw transition-count row.
func (c *Chain) PredictNextState(i int, out linalg.Vector) {
	if c.access.At(i) < float32(c.threshold) {
		c.fallback.RowEstimate(i, out)
		return
	}
	out.CopyFrom(c.counts.Row(i))
}

// PredictNextStateVec propagates a distribution over states forward one
// step: it refreshes the stochastic matrix if needed and returns Pᵀ·state.
func (c *Chain) PredictNextStateVec(state linalg.Vector) linalg.Vector {
	c.refresh()
	out := linalg.NewVector(c.numStates)
	c.prob.TransposedMatVec(state, out)
	return out
}

// TransitionProbabilityFromAccumulator forwards to the fallback
// accumulator's pair estimate, bypassing T entirely. Used to patch a
// single cell of a freshly predicted row — see the cache controller's
// SET path.
func (c *Chain) TransitionProbabilityFromAccumulator(i, j int) float32 {
	return c.fallback.PairEstimate(i, j)
}

// StochasticMatrix refreshes P if stale and returns it. The returned
// matrix is a live view; callers must not retain it across mutating
// calls (AddState, RegisterTransition).
func (c *Chain) StochasticMatrix() *linalg.Matrix {
	c.refresh()
	return c.prob
}

func (c *Chain) refresh() {
	if !c.stale {
		return
	}
	c.prob.Resize(c.numStates, c.numStates, linalg.Fresh)
	for i := 0; i < c.numStates; i++ {
		row := c.prob.Row(i)
		if c.access.At(i) < float32(c.threshold) {
			c.fallback.RowEstimate(i, row)
		} else {
			row.CopyFrom(c.counts.Row(i))
		}
		if sum := row.Sum(); sum != 0 {
			row.Scale(1 / sum)
			if debugging {
				rowSum := row.Sum()
				assertInvariant(rowSum > 0.9999 && rowSum < 1.0001,
					"chain: I5 violated: normalized row does not sum to 1")
			}
		}
	}
	c.stale = false
}
