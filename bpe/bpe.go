// Package bpe is the public facade over the compressor core: it wires
// internal/train and internal/decode into the two operations an external
// caller needs, Compress and Decompress, and re-exports the handful of
// types a caller needs to serialize or inspect a trained model.
package bpe

import (
	"context"
	"io"

	"github.com/bytepair/bpec/internal/decode"
	"github.com/bytepair/bpec/internal/dict"
	"github.com/bytepair/bpec/internal/freqcount"
	"github.com/bytepair/bpec/internal/symbol"
	"github.com/bytepair/bpec/internal/train"
)

// Re-exported so callers never need to import internal/symbol or
// internal/dict directly.
type (
	Symbol    = symbol.Symbol
	Pair      = symbol.Pair
	MergeRule = symbol.MergeRule
	Dictionary = dict.Dictionary
)

// Options configures a training run. See internal/train.Options for field
// semantics; this is a thin re-export so callers only ever import bpe.
type Options = train.Options

// DefaultOptions returns the tuning parameters spec.md recommends: 16
// counting workers, a 64Ki-token (65536) work-stealing chunk size, and incremental
// frequency maintenance between merges.
func DefaultOptions() Options { return train.DefaultOptions() }

// FrequencyCounterOptions re-exports internal/freqcount.Options, since
// Options.Counter is of that type and callers constructing Options from
// scratch need it in scope.
type FrequencyCounterOptions = freqcount.Options

// Result is the outcome of a Compress call: the rewritten token sequence
// and the dictionary of merge rules that produced it. Both fields are
// populated together or neither is, per spec.md §7's atomicity guarantee.
type Result struct {
	Tokens     []Symbol
	Dictionary *Dictionary
}

// Compress runs BPE training to convergence over input and returns the
// trained token sequence and dictionary. ctx cancellation is observed
// between merge iterations, never mid-pass (see internal/train.Train).
func Compress(ctx context.Context, input []byte, opts Options) (*Result, error) {
	res, err := train.Train(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	return &Result{Tokens: res.Tokens, Dictionary: res.Dictionary}, nil
}

// Decompress reconstructs the original byte sequence from tokens and d.
// sessionCacheSize controls the decoder's cross-call LRU cache (see
// internal/decode.New); pass 0 for a single one-shot decode with no cache.
func Decompress(tokens []Symbol, d *Dictionary, sessionCacheSize int) ([]byte, error) {
	dec, err := decode.New(d, sessionCacheSize)
	if err != nil {
		return nil, err
	}
	return dec.Decode(tokens)
}

// SaveDictionary atomically writes d to path (see internal/dict.SerializeToFile).
func SaveDictionary(d *Dictionary, path string) error {
	return d.SerializeToFile(path)
}

// LoadDictionary reads a dictionary previously written by SaveDictionary or
// Dictionary.Serialize.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	return dict.Deserialize(r)
}
