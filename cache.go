package markovcache

import (
	"iter"
	"sort"

	"github.com/tinygrid/markovcache/internal/chain"
	"github.com/tinygrid/markovcache/internal/linalg"
)

// Config holds the recognized MarkovChainCache options.
type Config struct {
	// CacheCapacity is the upper bound on resident total size. Must be
	// strictly positive.
	CacheCapacity float32
	// StatsAccumulatorType selects the fallback accumulator: either
	// "transitions" (TransitionLength) or "states" (DestinationState).
	StatsAccumulatorType string
	// AccessesThreshold: below this per-state access count, the chain
	// uses accumulator fallback for that row's predictions.
	AccessesThreshold int
	// ForecastLength is the number of single-step predictions summed
	// to form the eviction cost signal. Must be >= 1.
	ForecastLength int
}

// Cache is a variable-size object cache whose eviction policy is a
// forecast-derived probability of near-term re-access, weighted by item
// size, computed from an evolving per-key Markov chain. Constructed by
// [New]. Concurrent access must be guarded by the caller.
type Cache[Key comparable] struct {
	cfg   Config
	chain *chain.Chain
	sink  Sink[Key]

	resident    map[Key]float32
	nonResident map[Key]float32
	keyToState  map[Key]int
	stateToKey  []Key
	sizes       linalg.Vector

	totalResident float32
	prevState     *int
}

// New constructs a Cache. sink may be nil.
func New[Key comparable](cfg Config, sink Sink[Key]) (*Cache[Key], error) {
	if cfg.CacheCapacity <= 0 {
		return nil, invalidCapacityError(cfg.CacheCapacity)
	}
	if cfg.ForecastLength < 1 {
		return nil, invalidForecastLengthError(cfg.ForecastLength)
	}
	c, err := chain.New(cfg.StatsAccumulatorType, cfg.AccessesThreshold)
	if err != nil {
		return nil, unknownAccumulatorError(cfg.StatsAccumulatorType)
	}
	return &Cache[Key]{
		cfg:         cfg,
		chain:       c,
		sink:        sink,
		resident:    make(map[Key]float32),
		nonResident: make(map[Key]float32),
		keyToState:  make(map[Key]int),
		sizes:       linalg.NewVector(0),
	}, nil
}

// Len returns the number of resident keys.
func (c *Cache[Key]) Len() int { return len(c.resident) }

// ResidentSize returns the current resident total size.
func (c *Cache[Key]) ResidentSize() float32 { return c.totalResident }

// Keys iterates the resident keys, in no particular order.
func (c *Cache[Key]) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for k := range c.resident {
			if !yield(k) {
				return
			}
		}
	}
}

// Set registers a new key at the given size (SET, §4.3). key must not
// have been seen before; size must be positive and no larger than the
// configured capacity — both are precondition violations, not
// recoverable errors, and panic on failure.
func (c *Cache[Key]) Set(key Key, size float32) {
	assertf(size > 0 && size <= c.cfg.CacheCapacity,
		"markovcache: SET %v: size %v must be >0 and <= capacity %v",
		key, size, c.cfg.CacheCapacity)
	assertf(!c.isRegistered(key),
		"markovcache: SET %v: key already registered", key)

	newState := c.registerState(key, size)
	need := c.totalResident + size - c.cfg.CacheCapacity
	if need <= 0 {
		c.admit(key, size)
		return
	}

	current := 0
	if c.prevState != nil {
		current = *c.prevState
	}
	costs := c.forecastCosts(current, true)
	order := c.costOrder(costs, newState)

	var residentBeforeNew float32
	for _, s := range order {
		if sz, ok := c.resident[c.stateToKey[s]]; ok {
			residentBeforeNew += sz
		}
		if s == newState {
			break
		}
	}
	if residentBeforeNew <= need {
		// Cheaper-than-or-equal-to-new resident bytes can't clear
		// enough space; never admit the freshly registered item.
		c.nonResident[key] = size
		if debugging {
			assertInvariant(c.everyRegisteredKeyIsTracked(), "markovcache: I3 violated: registered key missing from both resident and non-resident sets")
		}
		return
	}

	c.evict(need, order)
	c.admit(key, size)
}

// Get processes a GET request (§4.3) and returns hit (true) or miss
// (false). key must already have been registered via Set.
func (c *Cache[Key]) Get(key Key) bool {
	assertf(c.isRegistered(key),
		"markovcache: GET %v: key was never registered", key)

	if _, ok := c.resident[key]; ok {
		c.registerTransitionStats(key)
		return true
	}

	size := c.nonResident[key]
	need := c.totalResident + size - c.cfg.CacheCapacity
	if need > 0 {
		state := c.keyToState[key]
		costs := c.forecastCosts(state, false)
		order := c.costOrder(costs, -1)
		c.evict(need, order)
	}
	delete(c.nonResident, key)
	c.admit(key, size)
	c.registerTransitionStats(key)
	return false
}

// Flush moves every resident entry to the non-resident side. No chain
// mutation and no sink notifications occur.
func (c *Cache[Key]) Flush() {
	for k, sz := range c.resident {
		c.nonResident[k] = sz
	}
	clear(c.resident)
	c.totalResident = 0
}

func (c *Cache[Key]) isRegistered(key Key) bool {
	_, ok := c.keyToState[key]
	return ok
}

func (c *Cache[Key]) registerState(key Key, size float32) int {
	state := c.chain.AddState()
	c.keyToState[key] = state
	c.stateToKey = append(c.stateToKey, key)
	c.sizes = c.sizes.Resize(state+1, linalg.Preserve)
	c.sizes.Set(state, size)
	return state
}

// forecastCosts builds the cost vector (probability × size) used to
// rank eviction candidates, starting the forecast from currentState.
// When forecast_length == 1 and patchNewest is set (the SET path), the
// freshly-added final state's column (which T always reports as zero)
// is patched from the fallback accumulator, so a brand-new item can
// still outrank cheap-but-unproven residents on prior belief alone.
func (c *Cache[Key]) forecastCosts(currentState int, patchNewest bool) linalg.Vector {
	n := c.chain.NumStates()
	costs := linalg.NewVector(n)
	if c.cfg.ForecastLength == 1 {
		c.chain.PredictNextState(currentState, costs)
		if patchNewest {
			lastState := n - 1
			costs.Set(lastState, c.chain.TransitionProbabilityFromAccumulator(currentState, lastState))
		}
	} else {
		state := linalg.NewVector(n)
		state.Set(currentState, 1)
		for i := 0; i < c.cfg.ForecastLength; i++ {
			state = c.chain.PredictNextStateVec(state)
			costs.AddElements(state)
		}
	}
	costs.MulElements(c.sizes)
	return costs
}

// costOrder returns state indices sorted ascending by costs. When two
// states tie, preferFirst (if present among them) sorts first; pass -1
// to disable the tie-break preference.
func (c *Cache[Key]) costOrder(costs linalg.Vector, preferFirst int) []int {
	order := make([]int, costs.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		si, sj := order[i], order[j]
		ci, cj := costs.At(si), costs.At(sj)
		if ci != cj {
			return ci < cj
		}
		if si == preferFirst {
			return true
		}
		if sj == preferFirst {
			return false
		}
		return false
	})
	return order
}

// evict walks order, moving resident items to non-resident until at
// least need bytes have been freed.
func (c *Cache[Key]) evict(need float32, order []int) {
	var freed float32
	for _, s := range order {
		key := c.stateToKey[s]
		size, ok := c.resident[key]
		if !ok {
			continue
		}
		c.nonResident[key] = size
		freed += size
		if c.sink != nil {
			c.sink.EvictItem(key)
		}
		delete(c.resident, key)
		if freed >= need {
			break
		}
	}
	c.totalResident -= freed

	if debugging {
		assertInvariant(c.residentSizeMatches(), "markovcache: I1 violated: totalResident diverged from resident sizes")
		assertInvariant(c.totalResident <= c.cfg.CacheCapacity, "markovcache: I1 violated: totalResident exceeds capacity")
		assertInvariant(c.residentDisjointFromNonResident(), "markovcache: I2 violated: key present in both resident and non-resident sets")
	}
}

func (c *Cache[Key]) admit(key Key, size float32) {
	if c.sink != nil {
		c.sink.AdmitItem(key)
	}
	c.resident[key] = size
	c.totalResident += size

	if debugging {
		assertInvariant(c.residentSizeMatches(), "markovcache: I1 violated: totalResident diverged from resident sizes")
		assertInvariant(c.totalResident <= c.cfg.CacheCapacity, "markovcache: I1 violated: totalResident exceeds capacity")
		assertInvariant(c.residentDisjointFromNonResident(), "markovcache: I2 violated: key present in both resident and non-resident sets")
		assertInvariant(c.everyRegisteredKeyIsTracked(), "markovcache: I3 violated: registered key missing from both resident and non-resident sets")
	}
}

func (c *Cache[Key]) residentSizeMatches() bool {
	var sum float32
	for _, size := range c.resident {
		sum += size
	}
	return sum == c.totalResident
}

func (c *Cache[Key]) residentDisjointFromNonResident() bool {
	for key := range c.resident {
		if _, ok := c.nonResident[key]; ok {
			return false
		}
	}
	return true
}

func (c *Cache[Key]) everyRegisteredKeyIsTracked() bool {
	for key := range c.keyToState {
		_, inResident := c.resident[key]
		_, inNonResident := c.nonResident[key]
		if !inResident && !inNonResident {
			return false
		}
	}
	return true
}

// registerTransitionStats updates the chain and previous-state marker
// for a completed GET. The very first call has no previous state; per
// the reference behavior this registers a phantom transition from state
// 0 rather than skipping registration — preserved verbatim (see §4.4 of
// the design notes).
func (c *Cache[Key]) registerTransitionStats(key Key) {
	state := c.keyToState[key]
	if c.prevState == nil {
		c.chain.RegisterTransition(0, state)
		s := state
		c.prevState = &s
		return
	}
	c.chain.RegisterTransition(*c.prevState, state)
	*c.prevState = state
}
