// Package dict implements Dictionary (spec §4.3): an ordered collection of
// merge rules indexed by minted-symbol ID, built directly on
// internal/seqarr.IndexedSequence the way spec §4.3 defines it
// ("Dictionary = IndexedSequence<MergeRule>").
package dict

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/bytepair/bpec/internal/bpeerr"
	"github.com/bytepair/bpec/internal/seqarr"
	"github.com/bytepair/bpec/internal/symbol"
)

// Dictionary is a forest of merge rules: every composite symbol points to
// strictly smaller children, so it is acyclic by construction (spec §3,
// §9 "cyclic references are impossible by construction").
type Dictionary struct {
	rules *seqarr.IndexedSequence[symbol.MergeRule]
	next  int // == Len(); the next symbol ID that Mint will assign
}

// New creates a Dictionary pre-populated with the 256 leaf identity rules
// (s -> {A: s, B: 0}), matching spec §4.3's "at creation, entries 0..=255
// are set to (i, 0)".
func New() *Dictionary {
	d := &Dictionary{
		rules: seqarr.New[symbol.MergeRule](int(symbol.FirstComposite)),
	}
	for i := 0; i < int(symbol.FirstComposite); i++ {
		d.rules.Set(i, symbol.MergeRule{A: symbol.Symbol(i), B: 0})
	}
	d.next = int(symbol.FirstComposite)
	return d
}

// Len returns next_symbol: the number of entries in the dictionary, i.e.
// the ID that the next Mint call will assign.
func (d *Dictionary) Len() int { return d.next }

// Mint appends pair as the rule for a new composite symbol and returns its
// assigned ID. Pre: pair.A < d.Len() and pair.B < d.Len(), enforced here as
// an InvariantViolation rather than trusted, since a caller that violates
// it would otherwise silently corrupt the forest invariant.
func (d *Dictionary) Mint(pair symbol.Pair) (symbol.Symbol, error) {
	if int(pair.A) >= d.next || int(pair.B) >= d.next {
		return 0, bpeerr.Wrapf(bpeerr.ErrInvariantViolation,
			"mint %v: children must be < %d", pair, d.next)
	}
	id := symbol.Symbol(d.next)
	d.rules.Set(d.next, symbol.MergeRule{A: pair.A, B: pair.B})
	d.next++
	return id, nil
}

// Rule returns the merge rule for id.
func (d *Dictionary) Rule(id symbol.Symbol) (symbol.MergeRule, error) {
	if int(id) >= d.next {
		return symbol.MergeRule{}, bpeerr.Wrapf(bpeerr.ErrInvariantViolation,
			"symbol %d not present (next=%d)", id, d.next)
	}
	r, ok := d.rules.Get(int(id))
	if !ok {
		return symbol.MergeRule{}, bpeerr.Wrapf(bpeerr.ErrInvariantViolation,
			"symbol %d never written", id)
	}
	return r, nil
}

// IsLeaf reports whether id is a leaf symbol: rule(id).A == id, per the
// invariant spec §3 describes. Any error from Rule (id out of range) is
// treated as "not a leaf"; callers that care about the distinction should
// call Rule directly.
func (d *Dictionary) IsLeaf(id symbol.Symbol) bool {
	r, err := d.Rule(id)
	return err == nil && r.A == id
}

// Serialize writes the dictionary's composite entries (spec §6): for each
// s in [256, Len()) in ascending order, an 8-byte little-endian record
// [A: u32][B: u32]. Leaf entries are never serialized; Deserialize
// reconstructs them.
func (d *Dictionary) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var rec [8]byte
	for s := int(symbol.FirstComposite); s < d.next; s++ {
		r, err := d.Rule(symbol.Symbol(s))
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(rec[0:4], r.A)
		binary.LittleEndian.PutUint32(rec[4:8], r.B)
		if _, err := bw.Write(rec[:]); err != nil {
			return bpeerr.Wrap(bpeerr.ErrIO, "write dictionary record")
		}
	}
	if err := bw.Flush(); err != nil {
		return bpeerr.Wrap(bpeerr.ErrIO, "flush dictionary")
	}
	return nil
}

// Deserialize reads records until EOF and rebuilds the dictionary, leaves
// included. Each record mints one composite symbol; Mint's bounds check
// means a record referencing a child >= its own index surfaces as
// ErrInvariantViolation, which is exactly the corrupt-dictionary case
// spec §7 calls out.
func Deserialize(r io.Reader) (*Dictionary, error) {
	d := New()
	br := bufio.NewReader(r)
	var rec [8]byte
	for {
		_, err := io.ReadFull(br, rec[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return nil, bpeerr.Wrap(bpeerr.ErrIO, "truncated dictionary record")
		}
		if err != nil {
			return nil, bpeerr.Wrap(bpeerr.ErrIO, "read dictionary record")
		}
		a := binary.LittleEndian.Uint32(rec[0:4])
		b := binary.LittleEndian.Uint32(rec[4:8])
		if _, err := d.Mint(symbol.Pair{A: a, B: b}); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Expand recursively substitutes id with its byte expansion, using memo as
// a cache of already-computed expansions so that a symbol of merge-depth d
// costs O(1) amortized instead of O(2^d) (spec §4.6). It is implemented
// iteratively with an explicit stack rather than language recursion, per
// spec §9's design note, so a pathological (but still well-formed, acyclic)
// dictionary cannot blow the goroutine stack.
//
// The returned slice is a fresh copy; memo retains ownership of its own
// copy, so callers may mutate or discard the result freely.
func (d *Dictionary) Expand(id symbol.Symbol, memo map[symbol.Symbol][]byte) ([]byte, error) {
	if v, ok := memo[id]; ok {
		return cloneBytes(v), nil
	}

	// Explicit work-stack of symbols still awaiting expansion. A symbol is
	// popped once both of its children (if any) are already in memo.
	stack := []symbol.Symbol{id}
	maxDepth := d.next + 1 // a cycle is impossible by construction; exceeding
	// this bound means the dictionary is corrupt.

	for len(stack) > 0 {
		if len(stack) > maxDepth {
			return nil, bpeerr.Wrap(bpeerr.ErrInvariantViolation, "expansion depth exceeds dictionary size")
		}

		top := stack[len(stack)-1]
		if _, ok := memo[top]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		rule, err := d.Rule(top)
		if err != nil {
			return nil, err
		}

		if rule.A == top {
			memo[top] = []byte{byte(top)}
			stack = stack[:len(stack)-1]
			continue
		}

		aVal, aOK := memo[rule.A]
		bVal, bOK := memo[rule.B]
		if !aOK {
			stack = append(stack, rule.A)
			continue
		}
		if !bOK {
			stack = append(stack, rule.B)
			continue
		}

		buf := make([]byte, 0, len(aVal)+len(bVal))
		buf = append(buf, aVal...)
		buf = append(buf, bVal...)
		memo[top] = buf
		stack = stack[:len(stack)-1]
	}

	return cloneBytes(memo[id]), nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
