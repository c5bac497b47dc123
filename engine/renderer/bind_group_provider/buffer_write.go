package bind_group_provider

import (
	"errors"
	"fmt"
)

// ErrWriteOutOfRange is returned by BufferWrite.Fits for a write that runs past the end of
// its buffer.
var ErrWriteOutOfRange = errors.New("buffer write out of range")

// BufferWrite is one queued upload of Data into the buffer at Binding of Provider, starting
// Offset bytes in. Writes are collected per pass and flushed before the pass begins.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Fits reports whether the write lands inside a buffer of size bytes.
//
// Parameters:
//   - size: the byte size of the target buffer
//
// Returns:
//   - error: ErrWriteOutOfRange naming the write, or nil
func (w BufferWrite) Fits(size uint64) error {
	n := uint64(len(w.Data))
	if w.Offset > size || n > size-w.Offset {
		return fmt.Errorf("%w: %s into %d bytes", ErrWriteOutOfRange, w, size)
	}
	return nil
}

// String names the write as provider/binding+offset with its length, as used in logs.
func (w BufferWrite) String() string {
	label := "<nil>"
	if w.Provider != nil {
		label = w.Provider.Label()
	}
	return fmt.Sprintf("%s/%d+%d (%d B)", label, w.Binding, w.Offset, len(w.Data))
}
