// Package markovcache implements a [Cache] whose eviction policy is
// driven by a per-key first-order Markov chain over the observed access
// sequence, rather than recency or frequency alone.
//
// Every distinct key is assigned a state in the chain on first SET. Each
// GET that follows a prior access registers a transition between the
// two states; over time the chain's transition-count matrix converges
// on the empirical access pattern. On admission pressure, candidates are
// ranked by a forecast-derived probability of near-term re-access,
// weighted by item size, and the cheapest-to-miss candidates are evicted
// first. Rows with too few direct observations fall back to a smoothed,
// chain-wide distribution instead of their own sparse counts.
//
// Glossary and invariants:
//
//   - State
//
//     An integer index assigned to each distinct key the first time it
//     is SET. The mapping is a stable bijection for the cache's lifetime.
//
//   - Transition
//
//     An ordered pair (source state, destination state) observed when
//     one GET follows another.
//
//   - Accumulator
//
//     A sketched summary of every transition ever seen, used as a
//     smoothing prior for rows with too few direct observations. See
//     the internal/stats package.
//
//   - Stochastic matrix
//
//     The row-normalized, accumulator-patched view of the transition
//     matrix; each row is a probability distribution over next states.
//     Lazily recomputed — see internal/chain.
//
//   - Forecast length
//
//     The number of single-step propagations summed to form the
//     expected-re-access signal used for ranking eviction candidates.
//
//   - Cost
//
//     re-access probability × item size. Eviction prefers low cost.
//
//   - Never-admit
//
//     The decision to route a newly SET item directly to the
//     non-resident side rather than evicting residents to make room
//     for it.
//
//   - Resident / non-resident
//
//     The two disjoint sets partitioning every registered key.
//     Residency implies the key's size counts toward capacity.
//
// Concurrent access must be guarded by the caller; Cache holds no locks.
package markovcache
