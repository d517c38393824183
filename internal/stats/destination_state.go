package stats

import "github.com/tinygrid/markovcache/internal/linalg"

// DestinationState ignores the source state entirely and tracks only how
// often each destination has been entered: it models "some items are
// globally popular" regardless of what was accessed before them.
type DestinationState struct {
	counts []float32
	total  float32
}

// NewDestinationState returns an empty accumulator with zero states.
func NewDestinationState() *DestinationState {
	return &DestinationState{}
}

// AddState extends the per-destination counters and also bumps total.
// This is intentional pre-seeding, preserved from the reference
// behavior: it keeps total positive from the very first state, so
// RowEstimate never divides by zero on a fresh chain.
func (d *DestinationState) AddState() {
	d.counts = append(d.counts, 0)
	d.total++
}

func (d *DestinationState) AccumulateTransition(_, j int) {
	d.counts[j]++
	d.total++
}

// RowEstimate ignores state and fills out with counts/total — the
// average "popularity" of each destination across all observed
// transitions.
func (d *DestinationState) RowEstimate(_ int, out linalg.Vector) {
	for j, c := range d.counts {
		out.Set(j, c)
	}
	out.Scale(1 / d.total)
}

// PairEstimate returns the raw destination count, unlike RowEstimate's
// normalized view — matching the reference accumulator, which never
// divides by total here.
func (d *DestinationState) PairEstimate(_, j int) float32 {
	return d.counts[j]
}
