package stats

import "github.com/tinygrid/markovcache/internal/linalg"

// TransitionLength categorizes transitions by signed length ℓ = j - i
// rather than by their endpoints: it models the belief that transitions
// of a given distance occur with similar frequency regardless of where
// they originate.
//
// forward[ℓ] and backward[ℓ] are indexed by length directly; index 0 of
// each is unused (lengths start at 1). self counts ℓ == 0 transitions.
type TransitionLength struct {
	forward, backward []float32
	self              float32
	total             float32
	numStates         int
}

// NewTransitionLength returns an empty accumulator with zero states.
func NewTransitionLength() *TransitionLength {
	return &TransitionLength{}
}

func (t *TransitionLength) AddState() {
	t.numStates++
	t.forward = append(t.forward, 0)
	t.backward = append(t.backward, 0)
}

func (t *TransitionLength) AccumulateTransition(i, j int) {
	length := j - i
	switch {
	case length == 0:
		t.self++
	case length > 0:
		t.forward[length]++
	default:
		t.backward[-length]++
	}
	t.total++
}

// RowEstimate fills out so that index N-1 corresponds to transition
// target N-1: indices [0, state) hold backward lengths read largest to
// smallest, index state holds the self-transition count, and indices
// (state, N) hold forward lengths read smallest to largest. The whole
// row is then scaled by 1/total.
func (t *TransitionLength) RowEstimate(state int, out linalg.Vector) {
	n := out.Len()
	for k := 0; k < state; k++ {
		out.Set(k, t.backward[state-k])
	}
	out.Set(state, t.self)
	for m := state + 1; m < n; m++ {
		out.Set(m, t.forward[m-state])
	}
	out.Scale(1 / t.total)
}

func (t *TransitionLength) PairEstimate(i, j int) float32 {
	length := j - i
	var raw float32
	switch {
	case length == 0:
		raw = t.self
	case length > 0:
		raw = t.forward[length]
	default:
		raw = t.backward[-length]
	}
	return raw / t.total
}
