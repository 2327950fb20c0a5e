package bsdiff

import (
	"encoding/binary"
	"fmt"
)

// ControlEntrySize is the size of one control entry in the
// decompressed control stream: three little-endian uint64 fields.
const ControlEntrySize = 24

// ControlEntry is one step of the patch script.
type ControlEntry struct {
	// DiffLen is the number of bytes to copy from the source combined
	// with the diff stream.
	DiffLen uint64
	// ExtraLen is the number of bytes to copy from the extra stream.
	ExtraLen uint64
	// OffsetDelta is the value to add to the source pointer after the
	// diff copy, decoded from its sign-magnitude form.
	OffsetDelta int64
}

// checkControl validates that buf holds a whole number of entries.
func checkControl(buf []byte) error {
	if len(buf)%ControlEntrySize != 0 {
		return fmt.Errorf("%w: decompressed length %d is not a multiple of %d",
			ErrTruncatedControl, len(buf), ControlEntrySize)
	}
	return nil
}

// ControlIter is a forward-only cursor over a decompressed control
// stream. The buffer is shared and read-only, so any number of
// iterators can walk the same stream, and abandoning one early needs
// no cleanup.
type ControlIter struct {
	buf []byte
	off int
}

// Len returns the total number of entries in the stream, independent
// of the cursor position.
func (it *ControlIter) Len() int {
	return len(it.buf) / ControlEntrySize
}

// Next decodes the entry under the cursor and advances. It returns
// false once every entry has been yielded. The length of the buffer is
// validated up front, so there is never a partial trailing entry.
func (it *ControlIter) Next() (ControlEntry, bool) {
	if it.off >= len(it.buf) {
		return ControlEntry{}, false
	}
	e := it.buf[it.off : it.off+ControlEntrySize]
	it.off += ControlEntrySize
	return ControlEntry{
		DiffLen:     binary.LittleEndian.Uint64(e[0:8]),
		ExtraLen:    binary.LittleEndian.Uint64(e[8:16]),
		OffsetDelta: DecodeOffset(binary.LittleEndian.Uint64(e[16:24])),
	}, true
}
