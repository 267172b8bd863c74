package paircount_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bytepair/bpec/internal/paircount"
	"github.com/bytepair/bpec/internal/symbol"
)

func snapshot(mp *paircount.Map) map[symbol.Pair]uint64 {
	out := make(map[symbol.Pair]uint64)
	mp.ForEach(func(p symbol.Pair, c uint64) { out[p] = c })
	return out
}

func Test_Inc_Dec_RoundTrip(t *testing.T) {
	t.Parallel()

	mp := paircount.New(0)
	p := symbol.Pair{A: 1, B: 2}

	require.Equal(t, uint64(0), mp.GetOrZero(p))
	mp.Inc(p)
	mp.Inc(p)
	require.Equal(t, uint64(2), mp.GetOrZero(p))

	mp.Dec(p)
	require.Equal(t, uint64(1), mp.GetOrZero(p))
	require.Equal(t, 1, mp.Len())

	mp.Dec(p)
	require.Equal(t, uint64(0), mp.GetOrZero(p))
	require.Equal(t, 0, mp.Len(), "zero-count entries must not remain in the map")
}

func Test_Dec_OnAbsentPair_IsNoOp(t *testing.T) {
	t.Parallel()

	mp := paircount.New(0)
	mp.Dec(symbol.Pair{A: 1, B: 2})
	require.Equal(t, 0, mp.Len())
}

func Test_Put_Overwrites(t *testing.T) {
	t.Parallel()

	mp := paircount.New(0)
	p := symbol.Pair{A: 3, B: 4}
	mp.Put(p, 100)
	require.Equal(t, uint64(100), mp.GetOrZero(p))
	mp.Put(p, 1)
	require.Equal(t, uint64(1), mp.GetOrZero(p))
}

func Test_Merge_SumsAcrossMaps(t *testing.T) {
	t.Parallel()

	a := paircount.New(0)
	a.Put(symbol.Pair{A: 1, B: 2}, 3)
	a.Put(symbol.Pair{A: 9, B: 9}, 1)

	b := paircount.New(0)
	b.Put(symbol.Pair{A: 1, B: 2}, 4)
	b.Put(symbol.Pair{A: 5, B: 6}, 2)

	merged := paircount.Merge([]*paircount.Map{a, b, nil}, paircount.Sum)

	want := map[symbol.Pair]uint64{
		{A: 1, B: 2}: 7,
		{A: 9, B: 9}: 1,
		{A: 5, B: 6}: 2,
	}
	if diff := cmp.Diff(want, snapshot(merged)); diff != "" {
		t.Fatalf("merged map mismatch (-want +got):\n%s", diff)
	}
}

func Test_Destroy_ClearsMap(t *testing.T) {
	t.Parallel()

	mp := paircount.New(0)
	mp.Inc(symbol.Pair{A: 1, B: 1})
	mp.Destroy()
	require.Equal(t, 0, mp.Len())
}
