// Package paircount implements PairCountMap (spec §4.2): a mapping from
// ordered symbol pairs to u64 frequency counts, with a multi-way merge that
// sums values for identical keys. Go's built-in map already rehashes and
// grows on its own (the spec explicitly allows a standard hash table here:
// "target language standard hash tables already do this and are
// acceptable"), so Map is a thin, purpose-built wrapper rather than a
// reimplementation of open chaining.
package paircount

import "github.com/bytepair/bpec/internal/symbol"

// PerWorkerBuckets and MergedBuckets are the capacity hints spec §4.2
// recommends for the frequency counter's private per-worker maps and its
// final reduced map, respectively.
const (
	PerWorkerBuckets = 4096
	MergedBuckets    = 256 * 1024
)

// Map is a mapping from symbol.Pair to uint64 frequency counts.
type Map struct {
	m map[symbol.Pair]uint64
}

// New creates an empty Map sized for roughly capacityHint distinct pairs.
func New(capacityHint int) *Map {
	return &Map{m: make(map[symbol.Pair]uint64, capacityHint)}
}

// GetOrZero returns the count for pair, or 0 if absent. It never fails.
func (mp *Map) GetOrZero(pair symbol.Pair) uint64 {
	return mp.m[pair]
}

// Put inserts or overwrites the count for pair.
func (mp *Map) Put(pair symbol.Pair, count uint64) {
	mp.m[pair] = count
}

// Inc increments the count for pair by one, inserting it at 1 if absent.
func (mp *Map) Inc(pair symbol.Pair) {
	mp.m[pair]++
}

// Dec decrements the count for pair by one, removing the key once it
// reaches zero so Len and ForEach never observe a zero-count entry. Dec on
// an absent pair is a no-op: the training loop only decrements pairs it
// knows are present from a prior count, but a defensive no-op keeps Map's
// contract total.
func (mp *Map) Dec(pair symbol.Pair) {
	c, ok := mp.m[pair]
	if !ok {
		return
	}
	if c <= 1 {
		delete(mp.m, pair)
		return
	}
	mp.m[pair] = c - 1
}

// Delete removes pair entirely, regardless of its count.
func (mp *Map) Delete(pair symbol.Pair) {
	delete(mp.m, pair)
}

// Len returns the number of distinct pairs with a non-zero count.
func (mp *Map) Len() int {
	return len(mp.m)
}

// ForEach visits every (pair, count) entry exactly once. Iteration order is
// unspecified and must not be relied on for anything beyond the
// commutative, associative reductions this package performs; the only
// order-sensitive consumer in the system is max-by-frequency selection,
// whose tie-break is handled explicitly by the caller (see
// internal/train.argmax).
func (mp *Map) ForEach(fn func(pair symbol.Pair, count uint64)) {
	for k, v := range mp.m {
		fn(k, v)
	}
}

// Destroy drops the map's backing storage.
func (mp *Map) Destroy() {
	mp.m = nil
}

// Merge creates a new Map whose keys are the union of every input map's
// keys, combining values for identical keys with combine. A key missing
// from one input is treated as combine-with-zero for that input, which
// GetOrZero already gives for free. Merge visits every key in every input
// exactly once; the order in which maps are combined does not affect the
// result because combine (always addition, in this system) is commutative
// and associative.
func Merge(maps []*Map, combine func(a, b uint64) uint64) *Map {
	out := New(MergedBuckets)
	for _, in := range maps {
		if in == nil {
			continue
		}
		in.ForEach(func(pair symbol.Pair, count uint64) {
			out.m[pair] = combine(out.m[pair], count)
		})
	}
	return out
}

// Sum is the addition combiner every caller in this system uses.
func Sum(a, b uint64) uint64 { return a + b }
