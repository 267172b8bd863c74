// Package train implements the TrainingLoop (spec §4.5): the outer
// iteration that drives frequency counting, merge selection, and sequence
// rewriting to convergence.
package train

import (
	"context"

	"github.com/bytepair/bpec/internal/bpeerr"
	"github.com/bytepair/bpec/internal/dict"
	"github.com/bytepair/bpec/internal/freqcount"
	"github.com/bytepair/bpec/internal/paircount"
	"github.com/bytepair/bpec/internal/symbol"
)

// Options configures a training run. Recount selects between the two
// variants spec §4.5's design note allows: incremental frequency
// maintenance (the default, O(matches) per iteration) or a full recount
// from scratch every iteration (O(n) per iteration, simpler, identical
// output).
type Options struct {
	Counter freqcount.Options
	Recount RecountMode
}

// RecountMode selects how freq is rebuilt after each merge.
type RecountMode int

const (
	// Incremental maintains freq across iterations by patching only the
	// pairs touched by the merge just applied (spec §4.5 step 2f).
	Incremental RecountMode = iota
	// FullRecount recomputes freq from scratch over the rewritten sequence
	// every iteration (spec §4.5's "Design note on step 2f").
	FullRecount
)

// DefaultOptions returns incremental maintenance with the frequency
// counter's default worker pool.
func DefaultOptions() Options {
	return Options{Counter: freqcount.DefaultOptions(), Recount: Incremental}
}

// Result is the training loop's atomic output: either both fields are
// populated, or an error is returned and neither is touched (spec §7: "the
// training operation is atomic").
type Result struct {
	Tokens     []symbol.Symbol
	Dictionary *dict.Dictionary
}

// Train runs BPE training to convergence over input (spec §4.5). ctx is
// checked once per iteration, between merges -- cancellation is never
// observed inside a single frequency-counting pass (spec §5: "Cancellation
// ... must interrupt the outer loop between iterations and is not observed
// inside count()").
func Train(ctx context.Context, input []byte, opts Options) (*Result, error) {
	if len(input) < 2 {
		return nil, bpeerr.ErrInputTooShort
	}

	t := make([]symbol.Symbol, len(input))
	for i, b := range input {
		t[i] = symbol.Symbol(b)
	}

	d := dict.New()

	freq, err := freqcount.Count(t, opts.Counter)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if freq.Len() == 0 {
			break
		}

		best, freqBest, ok := argmax(freq)
		if !ok || freqBest <= 1 {
			break
		}

		s, err := d.Mint(best)
		if err != nil {
			return nil, err
		}

		t2, err := rewrite(t, best, s, freq, opts.Recount)
		if err != nil {
			return nil, err
		}

		if opts.Recount == FullRecount {
			freq, err = freqcount.Count(t2, opts.Counter)
			if err != nil {
				return nil, err
			}
		}

		t = t2
	}

	return &Result{Tokens: t, Dictionary: d}, nil
}

// argmax selects (p*, f*) = argmax over freq, breaking ties by
// lexicographic (A, B) order (spec §9: "an implementation may break ties
// by lexicographic (a, b) order; this does not change compression ratio,
// only the specific dictionary produced" -- the Open Question this
// repository resolves that way; see DESIGN.md).
func argmax(freq *paircount.Map) (best symbol.Pair, bestCount uint64, ok bool) {
	freq.ForEach(func(pair symbol.Pair, count uint64) {
		if !ok {
			best, bestCount, ok = pair, count, true
			return
		}
		if count > bestCount || (count == bestCount && pair.Less(best)) {
			best, bestCount = pair, count
		}
	})
	return best, bestCount, ok
}

// rewrite performs one left-to-right greedy merge pass (spec §4.5 step
// 2e): whenever t[i] == best.A and t[i+1] == best.B, it emits s and
// advances i by 2; otherwise it emits t[i] and advances by 1. The greedy
// policy is the specification: in "a a b" with merge (a, b), the output is
// "a s", not an error, because the scan never looks back once it has
// committed to emitting the first a unmerged.
//
// When mode == Incremental, freq is patched in place per spec §4.5 step 2f
// instead of being recomputed; the caller is responsible for swapping in
// the rewritten sequence once rewrite returns. Patching is done in two
// passes over the scan's own bookkeeping (consumed, merged) rather than
// inline during the scan, so that a run of adjacent merge occurrences --
// e.g. best = (a, a) over "aaaa" -- touches each original pair and each
// output pair exactly once: consumed[p] marks an original index absorbed
// into some merge, merged[k] marks an output index holding a newly-minted
// s, and a boundary is patched iff at least one of its two sides is
// marked, with no boundary visited twice.
func rewrite(t []symbol.Symbol, best symbol.Pair, s symbol.Symbol, freq *paircount.Map, mode RecountMode) ([]symbol.Symbol, error) {
	n := len(t)
	out := make([]symbol.Symbol, 0, n)

	var consumed []bool
	var merged []bool
	if mode == Incremental {
		consumed = make([]bool, n)
		merged = make([]bool, 0, n)
	}

	i := 0
	for i < n {
		if i+1 < n && t[i] == best.A && t[i+1] == best.B {
			if mode == Incremental {
				consumed[i] = true
				consumed[i+1] = true
				merged = append(merged, true)
			}
			out = append(out, s)
			i += 2
		} else {
			if mode == Incremental {
				merged = append(merged, false)
			}
			out = append(out, t[i])
			i++
		}
	}

	if mode == Incremental {
		for p := 0; p+1 < n; p++ {
			if consumed[p] || consumed[p+1] {
				freq.Dec(symbol.Pair{A: t[p], B: t[p+1]})
			}
		}
		for k := 0; k+1 < len(out); k++ {
			if merged[k] || merged[k+1] {
				freq.Inc(symbol.Pair{A: out[k], B: out[k+1]})
			}
		}
	}

	return out, nil
}
