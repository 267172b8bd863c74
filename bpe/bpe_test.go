package bpe_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytepair/bpec/bpe"
	"github.com/bytepair/bpec/internal/bpeerr"
)

func Test_Compress_Decompress_RoundTrip(t *testing.T) {
	t.Parallel()

	input := []byte("the quick brown fox jumps over the lazy dog the quick brown fox")
	res, err := bpe.Compress(context.Background(), input, bpe.DefaultOptions())
	require.NoError(t, err)

	got, err := bpe.Decompress(res.Tokens, res.Dictionary, 0)
	require.NoError(t, err)
	require.Equal(t, input, got)
}

func Test_Compress_InputTooShort(t *testing.T) {
	t.Parallel()

	_, err := bpe.Compress(context.Background(), []byte("x"), bpe.DefaultOptions())
	require.True(t, errors.Is(err, bpeerr.ErrInputTooShort))
}

func Test_SaveDictionary_LoadDictionary_RoundTrip(t *testing.T) {
	t.Parallel()

	input := []byte("aaabdaaabac aaabdaaabac aaabdaaabac")
	res, err := bpe.Compress(context.Background(), input, bpe.DefaultOptions())
	require.NoError(t, err)

	dir := t.TempDir()
	path := dir + "/dict.bpdict"
	require.NoError(t, bpe.SaveDictionary(res.Dictionary, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	loaded, err := bpe.LoadDictionary(f)
	require.NoError(t, err)
	require.Equal(t, res.Dictionary.Len(), loaded.Len())

	got, err := bpe.Decompress(res.Tokens, loaded, 0)
	require.NoError(t, err)
	require.Equal(t, input, got)
}

// FuzzRoundTrip asserts the universal round-trip property from spec.md §8:
// for every non-empty input, decompress(compress(input)) == input.
func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("hello"))
	f.Add([]byte("aaabdaaabac"))
	f.Add([]byte("abcabc"))
	f.Add([]byte("ab"))
	f.Add([]byte{0x00, 0x00, 0x00})
	f.Add(bytes.Repeat([]byte{0x41}, 300))

	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) < 2 {
			t.Skip("spec.md §4.5 requires at least two bytes to train")
		}

		res, err := bpe.Compress(context.Background(), input, bpe.DefaultOptions())
		if err != nil {
			t.Fatalf("Compress(%q): %v", input, err)
		}

		got, err := bpe.Decompress(res.Tokens, res.Dictionary, 0)
		if err != nil {
			t.Fatalf("Decompress(%q): %v", input, err)
		}
		if !bytes.Equal(got, input) {
			t.Fatalf("round trip mismatch: input %q, got %q", input, got)
		}
	})
}
