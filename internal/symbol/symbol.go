// Package symbol defines the universal token type shared by every layer of
// the compressor: the dictionary, the parallel frequency counter, the
// training loop, and the decoder.
package symbol

// Symbol is the universal token type. Values 0..255 are leaf symbols
// identified with the corresponding byte; values >= 256 are composite
// symbols minted during training.
type Symbol = uint32

// FirstComposite is the first symbol ID available for minting; IDs below it
// are reserved for the 256 leaf bytes.
const FirstComposite Symbol = 256

// Pair is an ordered pair of symbols. Order is significant: Pair{A: x, B: y}
// is distinct from Pair{A: y, B: x} whenever x != y.
type Pair struct {
	A, B Symbol
}

// Less gives Pair a deterministic, total order used to break ties between
// equally-frequent pairs during merge selection (lexicographic on (A, B)).
func (p Pair) Less(o Pair) bool {
	if p.A != o.A {
		return p.A < o.A
	}
	return p.B < o.B
}

// MergeRule is the pair assigned to a composite symbol at mint time. For a
// leaf entry s < 256 the dictionary stores the identity rule {A: s, B: 0};
// the invariant "a MergeRule (a,b) describes a leaf iff a == s" (where s is
// the rule's own index) lets the decoder detect leaves without a separate
// flag.
type MergeRule struct {
	A, B Symbol
}
