// Package stats implements the two fallback statistics accumulators the
// evolving Markov chain consults when a state's direct observation count
// is too sparse to trust. Both variants aggregate every transition ever
// seen and produce an unnormalized per-row probability estimate on
// demand.
package stats

import (
	"errors"

	"github.com/tinygrid/markovcache/internal/linalg"
)

// ErrUnknownType is returned by New for any kind other than "transitions"
// or "states".
var ErrUnknownType = errors.New("unknown stats accumulator type")

// Accumulator is the capability every variant implements. It is kept
// small and closed-set deliberately (§9 of the design notes calls for a
// tagged variant over a type hierarchy) — two concrete structs satisfy
// it, dispatched through the interface rather than devirtualized, since
// the chain only ever holds one accumulator for its whole lifetime.
type Accumulator interface {
	// AddState extends internal storage to accommodate one more state.
	AddState()
	// AccumulateTransition records an observed transition i -> j.
	AccumulateTransition(i, j int)
	// RowEstimate fills out (length == number of states) with an
	// unnormalized posterior over next states, given source state.
	// Some variants ignore state entirely (DestinationState).
	RowEstimate(state int, out linalg.Vector)
	// PairEstimate returns the unnormalized posterior for the single
	// transition i -> j.
	PairEstimate(i, j int) float32
}

// New constructs the accumulator named by kind: "transitions" for
// TransitionLength, "states" for DestinationState.
func New(kind string) (Accumulator, error) {
	switch kind {
	case "transitions":
		return NewTransitionLength(), nil
	case "states":
		return NewDestinationState(), nil
	default:
		return nil, ErrUnknownType
	}
}
