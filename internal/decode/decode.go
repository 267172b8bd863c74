// Package decode implements the Decoder (spec §4.6): given a token
// sequence and a dictionary, it reconstructs the original byte sequence by
// recursively expanding every token.
package decode

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bytepair/bpec/internal/bpeerr"
	"github.com/bytepair/bpec/internal/dict"
	"github.com/bytepair/bpec/internal/symbol"
)

// Decoder expands token sequences against a fixed Dictionary.
//
// Every call to Decode gets its own exhaustive, non-evicting memo table, as
// spec §4.6 requires ("the memo table owns its byte strings; expand returns
// a copy to the caller so the caller may free its result without
// invalidating the memo"). Decoder additionally keeps an LRU "session
// cache" shared *across* Decode calls -- this is a separate, purely
// performance-oriented layer: decoding many independent token streams
// with the same Decoder repeats the same top-level symbol expansions over
// and over, and the session
// cache amortizes that without affecting correctness, since Decode falls
// straight back to the dictionary's Expand when the session cache has
// nothing or has evicted an entry.
type Decoder struct {
	dict    *dict.Dictionary
	session *lru.Cache[symbol.Symbol, []byte]
}

// New creates a Decoder bound to d. sessionCacheSize is the capacity of the
// shared LRU session cache; pass 0 to disable it entirely (every call then
// relies solely on its own per-call memo table, exactly as spec §4.6
// describes with no embellishment).
func New(d *dict.Dictionary, sessionCacheSize int) (*Decoder, error) {
	dec := &Decoder{dict: d}
	if sessionCacheSize > 0 {
		cache, err := lru.New[symbol.Symbol, []byte](sessionCacheSize)
		if err != nil {
			return nil, bpeerr.Wrap(bpeerr.ErrOutOfMemory, "create decoder session cache")
		}
		dec.session = cache
	}
	return dec, nil
}

// Decode expands every token in tokens against the dictionary and
// concatenates the results. Every token must be a valid symbol ID already
// present in the dictionary (0 <= id < dict.Len()); any other value
// signals a corrupt encoded stream (spec §7: "an encoded stream references
// a symbol not present in the dictionary").
func (dec *Decoder) Decode(tokens []symbol.Symbol) ([]byte, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	memo := make(map[symbol.Symbol][]byte, len(tokens))
	if dec.session != nil {
		// Seed the per-call memo from the session cache so Dictionary.Expand
		// never has to re-walk a symbol this Decoder has already expanded on
		// a previous call.
		for _, s := range tokens {
			if v, ok := dec.session.Get(s); ok {
				memo[s] = v
			}
		}
	}

	total := 0
	expansions := make([][]byte, len(tokens))
	for i, s := range tokens {
		if int(s) >= dec.dict.Len() {
			return nil, bpeerr.Wrapf(bpeerr.ErrInvariantViolation, "token %d references unknown symbol %d", i, s)
		}
		b, err := dec.dict.Expand(s, memo)
		if err != nil {
			return nil, err
		}
		expansions[i] = b
		total += len(b)
	}

	if dec.session != nil {
		for _, s := range tokens {
			if v, ok := memo[s]; ok {
				dec.session.Add(s, v)
			}
		}
	}

	out := make([]byte, 0, total)
	for _, b := range expansions {
		out = append(out, b...)
	}
	return out, nil
}
