// Package freqcount implements the parallel FrequencyCounter (spec §4.4):
// given a token sequence, produce a PairCountMap of adjacent-pair
// frequencies, counted by a fixed worker pool and reduced with
// paircount.Merge.
//
// Scheduling follows spec §5's hybrid model: a single start barrier
// releases every worker at once (so the merge step's timing reflects
// genuinely parallel work), each worker counts into a private
// paircount.Map with no synchronization on the hot path, and a finish
// barrier gates the sequential reduction. The only other shared, mutable
// state is the work-stealing cursor, guarded by a plain mutex exactly as
// spec §5 describes ("the next_chunk_index cursor is guarded by a mutex").
package freqcount

import (
	"sync"
	"sync/atomic"

	"github.com/bytepair/bpec/internal/bpeerr"
	"github.com/bytepair/bpec/internal/paircount"
	"github.com/bytepair/bpec/internal/symbol"
)

// Tuning parameters. Both are explicitly called out by spec §4.4 as
// non-semantic: changing them changes performance, never the resulting
// PairCountMap.
const (
	DefaultWorkers   = 16
	DefaultChunkSize = 64 * 1024
)

// Options configures the counting pass. A field left at zero (or negative)
// falls back to its default from DefaultOptions.
type Options struct {
	Workers   int
	ChunkSize int
}

// DefaultOptions returns the tuning parameters spec §4.4 uses.
func DefaultOptions() Options {
	return Options{Workers: DefaultWorkers, ChunkSize: DefaultChunkSize}
}

func (o Options) normalized() Options {
	if o.Workers < 1 {
		o.Workers = DefaultWorkers
	}
	if o.ChunkSize < 1 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}

// chunkCursor is the shared, mutex-guarded "next_chunk_index" of spec §4.4's
// dynamic work-stealing policy. It hands out [start, end) token ranges of
// length at most ChunkSize until the sequence is exhausted.
type chunkCursor struct {
	mu        sync.Mutex
	next      int
	n         int
	chunkSize int
}

// take returns the next chunk's [start, end) range and ok == true, or
// ok == false once every token has been claimed.
func (c *chunkCursor) take() (start, end int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next >= c.n {
		return 0, 0, false
	}
	start = c.next
	end = start + c.chunkSize
	if end > c.n {
		end = c.n
	}
	c.next = end
	return start, end, true
}

// Count produces a PairCountMap whose entry for each pair (x, y) equals the
// number of positions i in [0, n-2] with t[i] == x and t[i+1] == y. Up to
// opts.Workers workers run (never more than n-1); which partitioning policy
// they use (static vs.
// work-stealing) is chosen by the hybrid rule in spec §4.4 and is an
// implementation detail invisible in the result (see the parallel
// equivalence property, spec §8).
func Count(t []symbol.Symbol, opts Options) (*paircount.Map, error) {
	opts = opts.normalized()
	n := len(t)
	if n < 2 {
		return paircount.New(0), nil
	}

	workers := opts.Workers
	if workers > n-1 {
		// No point spinning up more workers than there are pair positions.
		workers = n - 1
	}
	if workers < 1 {
		workers = 1
	}

	var abort atomic.Bool
	results := make([]*paircount.Map, workers)

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	if n < opts.ChunkSize*opts.Workers {
		runStaticPartition(t, workers, start, &wg, results, &abort)
	} else {
		runWorkStealing(t, workers, opts.ChunkSize, start, &wg, results, &abort)
	}

	// Release every worker simultaneously: the start barrier.
	close(start)
	// Finish barrier: wait for every worker to terminate before reducing.
	wg.Wait()

	if abort.Load() {
		return nil, bpeerr.Wrap(bpeerr.ErrOutOfMemory, "frequency counter aborted")
	}

	merged := paircount.Merge(results, paircount.Sum)
	return merged, nil
}

// runStaticPartition implements spec §4.4's static partitioning: worker k
// owns t[k*floor(n/W) .. (k+1)*floor(n/W)), with the last worker also
// taking the n mod W tail.
func runStaticPartition(t []symbol.Symbol, workers int, start chan struct{}, wg *sync.WaitGroup, results []*paircount.Map, abort *atomic.Bool) {
	n := len(t)
	chunkLen := n / workers
	for k := 0; k < workers; k++ {
		a := k * chunkLen
		b := a + chunkLen
		if k == workers-1 {
			b = n
		}
		go func(k, a, b int) {
			defer wg.Done()
			<-start
			results[k] = countRangeSafely(t, a, b, abort)
		}(k, a, b)
	}
}

// runWorkStealing implements spec §4.4's dynamic policy: a shared cursor
// hands out ChunkSize-token ranges; idle workers pull the next one until
// the cursor exceeds n.
func runWorkStealing(t []symbol.Symbol, workers, chunkSize int, start chan struct{}, wg *sync.WaitGroup, results []*paircount.Map, abort *atomic.Bool) {
	cursor := &chunkCursor{n: len(t), chunkSize: chunkSize}
	for k := 0; k < workers; k++ {
		go func(k int) {
			defer wg.Done()
			<-start
			local := paircount.New(paircount.PerWorkerBuckets)
			for {
				if abort.Load() {
					break
				}
				a, b, ok := cursor.take()
				if !ok {
					break
				}
				countRangeInto(t, a, b, local)
			}
			results[k] = local
		}(k)
	}
}

// countRangeSafely wraps countRangeInto with the panic-as-allocation-
// failure policy spec §4.4 describes for the static partition (each worker
// owns a fixed range up front, so there is no chunk-fetch point to observe
// abort at; a panic during counting is the only failure this pass can
// suffer, and we treat it as the OutOfMemory case).
func countRangeSafely(t []symbol.Symbol, a, b int, abort *atomic.Bool) (result *paircount.Map) {
	local := paircount.New(paircount.PerWorkerBuckets)
	defer func() {
		if r := recover(); r != nil {
			abort.Store(true)
			result = local
		}
	}()
	countRangeInto(t, a, b, local)
	return local
}

// countRangeInto counts every pair whose left index lies in [a, b), which
// requires reading t[i+1] for the last such index -- so it is only valid
// while i+1 < n. Clamping the upper bound to n-1 gives a complete,
// non-overlapping partition of pair positions {0 .. n-2} when ranges
// [a, b) tile [0, n) with no gaps (spec §4.4, "boundary correctness").
func countRangeInto(t []symbol.Symbol, a, b int, into *paircount.Map) {
	n := len(t)
	upper := b
	if upper > n-1 {
		upper = n - 1
	}
	for i := a; i < upper; i++ {
		into.Inc(symbol.Pair{A: t[i], B: t[i+1]})
	}
}
