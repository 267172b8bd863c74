package dict

import (
	"bytes"

	atomicfile "github.com/natefinch/atomic"

	"github.com/bytepair/bpec/internal/bpeerr"
)

// SerializeToFile writes the dictionary to path atomically: the full
// serialized form is staged in memory, then published via a temp-file +
// rename so a crash or a concurrent reader never observes a truncated
// dictionary file. Grounded in calvinalkan-agent-task's
// internal/fs/real.go, which calls this same natefinch/atomic primitive
// (atomic.WriteFile(path, bytes.NewReader(data))) at its own IO boundary.
func (d *Dictionary) SerializeToFile(path string) error {
	var buf bytes.Buffer
	if err := d.Serialize(&buf); err != nil {
		return err
	}
	if err := atomicfile.WriteFile(path, &buf); err != nil {
		return bpeerr.Wrapf(bpeerr.ErrIO, "atomically write dictionary to %s", path)
	}
	return nil
}
