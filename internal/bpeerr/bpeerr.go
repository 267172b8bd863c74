// Package bpeerr defines the error kinds the compressor surfaces to its
// callers. All four are fatal for the operation that produced them; none is
// recovered internally (see spec §7: propagation is strict, no retries).
package bpeerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInputTooShort means the input has fewer than 2 bytes; no training
	// is possible.
	ErrInputTooShort = errors.New("bpe: input has fewer than 2 bytes")

	// ErrOutOfMemory means an allocation failed somewhere in the pipeline.
	// Training and decoding are atomic: on this error no partial state is
	// returned to the caller.
	ErrOutOfMemory = errors.New("bpe: allocation failed")

	// ErrInvariantViolation means the dictionary references a symbol ID
	// greater than or equal to its own index, or an encoded stream
	// references a symbol absent from the dictionary. This signals data
	// corruption, not a programming error in the caller.
	ErrInvariantViolation = errors.New("bpe: dictionary or token stream invariant violated")

	// ErrIO wraps a failure at the serialization boundary. The core
	// components never perform I/O themselves; this is only returned by
	// Dictionary.Serialize/Deserialize/SerializeToFile, internal/tokenfile,
	// internal/config, and the cmd/ tools built on them.
	ErrIO = errors.New("bpe: io error")
)

// Wrap attaches msg as context to sentinel using the %w verb, so that
// errors.Is(err, sentinel) keeps working after wrapping. Mirrors the
// teacher's fmt.Errorf("...: %w", err) wrapping style.
func Wrap(sentinel error, msg string) error {
	return fmt.Errorf("%s: %w", msg, sentinel)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
