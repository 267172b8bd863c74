// Package tokenfile reads and writes the on-disk token-stream format that
// cmd/bpec writes: a flat sequence of 4-byte little-endian symbol IDs.
package tokenfile

import (
	"encoding/binary"
	"os"

	"github.com/bytepair/bpec/internal/bpeerr"
	"github.com/bytepair/bpec/internal/symbol"
)

// Write serializes tokens to path.
func Write(path string, tokens []symbol.Symbol) error {
	buf := make([]byte, 4*len(tokens))
	for i, s := range tokens {
		binary.LittleEndian.PutUint32(buf[i*4:], s)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return bpeerr.Wrapf(bpeerr.ErrIO, "write token stream %s", path)
	}
	return nil
}

// Read deserializes a token stream previously written by Write.
func Read(path string) ([]symbol.Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bpeerr.Wrapf(bpeerr.ErrIO, "read token stream %s", path)
	}
	if len(data)%4 != 0 {
		return nil, bpeerr.Wrapf(bpeerr.ErrInvariantViolation, "token stream %s has trailing bytes", path)
	}
	tokens := make([]symbol.Symbol, len(data)/4)
	for i := range tokens {
		tokens[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return tokens, nil
}
