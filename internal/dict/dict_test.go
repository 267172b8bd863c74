package dict_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytepair/bpec/internal/bpeerr"
	"github.com/bytepair/bpec/internal/dict"
	"github.com/bytepair/bpec/internal/symbol"
)

func Test_New_SeedsLeafIdentities(t *testing.T) {
	t.Parallel()

	d := dict.New()
	require.Equal(t, int(symbol.FirstComposite), d.Len())

	for i := 0; i < int(symbol.FirstComposite); i++ {
		require.True(t, d.IsLeaf(symbol.Symbol(i)))
		r, err := d.Rule(symbol.Symbol(i))
		require.NoError(t, err)
		require.Equal(t, symbol.Symbol(i), r.A)
	}
}

func Test_Mint_AssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	d := dict.New()
	s1, err := d.Mint(symbol.Pair{A: 'a', B: 'b'})
	require.NoError(t, err)
	require.Equal(t, symbol.FirstComposite, s1)

	s2, err := d.Mint(symbol.Pair{A: s1, B: 'c'})
	require.NoError(t, err)
	require.Equal(t, symbol.FirstComposite+1, s2)

	require.False(t, d.IsLeaf(s2))
}

func Test_Mint_RejectsForwardReference(t *testing.T) {
	t.Parallel()

	d := dict.New()
	_, err := d.Mint(symbol.Pair{A: symbol.FirstComposite, B: 0})
	require.Error(t, err)
	require.True(t, errors.Is(err, bpeerr.ErrInvariantViolation))
}

func Test_Rule_OutOfRange(t *testing.T) {
	t.Parallel()

	d := dict.New()
	_, err := d.Rule(symbol.FirstComposite)
	require.Error(t, err)
	require.True(t, errors.Is(err, bpeerr.ErrInvariantViolation))
}

func Test_Expand_Leaf(t *testing.T) {
	t.Parallel()

	d := dict.New()
	memo := map[symbol.Symbol][]byte{}
	b, err := d.Expand(symbol.Symbol('x'), memo)
	require.NoError(t, err)
	require.Equal(t, []byte{'x'}, b)
}

func Test_Expand_Composite(t *testing.T) {
	t.Parallel()

	d := dict.New()
	ab, err := d.Mint(symbol.Pair{A: 'a', B: 'b'})
	require.NoError(t, err)
	abc, err := d.Mint(symbol.Pair{A: ab, B: 'c'})
	require.NoError(t, err)

	memo := map[symbol.Symbol][]byte{}
	b, err := d.Expand(abc, memo)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), b)

	// The returned slice must be a private copy: mutating it must not
	// corrupt the memo table backing a later Expand call.
	b[0] = 'Z'
	b2, err := d.Expand(abc, memo)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), b2)
}

func Test_Expand_DeepChain_DoesNotBlowStack(t *testing.T) {
	t.Parallel()

	d := dict.New()
	cur := symbol.Symbol('a')
	var err error
	for i := 0; i < 5000; i++ {
		cur, err = d.Mint(symbol.Pair{A: cur, B: 'a'})
		require.NoError(t, err)
	}

	memo := map[symbol.Symbol][]byte{}
	b, err := d.Expand(cur, memo)
	require.NoError(t, err)
	require.Equal(t, 5001, len(b))
}

func Test_Serialize_Deserialize_RoundTrip(t *testing.T) {
	t.Parallel()

	d := dict.New()
	ab, err := d.Mint(symbol.Pair{A: 'a', B: 'b'})
	require.NoError(t, err)
	_, err = d.Mint(symbol.Pair{A: ab, B: 'c'})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, d.Serialize(&buf))

	d2, err := dict.Deserialize(&buf)
	require.NoError(t, err)
	require.Equal(t, d.Len(), d2.Len())

	for s := 0; s < d.Len(); s++ {
		r1, err := d.Rule(symbol.Symbol(s))
		require.NoError(t, err)
		r2, err := d2.Rule(symbol.Symbol(s))
		require.NoError(t, err)
		require.Equal(t, r1, r2)
	}
}

func Test_Deserialize_TruncatedRecord_IsIoError(t *testing.T) {
	t.Parallel()

	r := bytes.NewReader([]byte{1, 2, 3})
	_, err := dict.Deserialize(r)
	require.Error(t, err)
	require.True(t, errors.Is(err, bpeerr.ErrIO))
}

func Test_Deserialize_CorruptForwardReference_IsInvariantViolation(t *testing.T) {
	t.Parallel()

	d := dict.New()
	_, err := d.Mint(symbol.Pair{A: 'a', B: 'b'})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, d.Serialize(&buf))

	// Corrupt the lone record's B field to reference a symbol that does
	// not exist yet at deserialize time.
	raw := buf.Bytes()
	raw[4] = 0xFF
	raw[5] = 0xFF
	raw[6] = 0xFF
	raw[7] = 0xFF

	_, err = dict.Deserialize(bytes.NewReader(raw))
	require.Error(t, err)
	require.True(t, errors.Is(err, bpeerr.ErrInvariantViolation))
}
