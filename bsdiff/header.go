package bsdiff

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of the container header: the 8-byte
// magic followed by three little-endian uint64 size fields.
const HeaderSize = 32

// Header is the fixed 32-byte container header. The magic is stored
// big-endian on disk, the size fields little-endian.
type Header struct {
	Magic    Magic
	CtrlSize uint64 // compressed control stream size
	DiffSize uint64 // compressed diff stream size
	NewSize  uint64 // size of the reconstructed file
}

// ParseHeader reads the container header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, need %d", ErrHeaderTooShort, len(data), HeaderSize)
	}
	var raw [8]byte
	copy(raw[:], data[:8])
	magic, err := DecodeMagic(raw)
	if err != nil {
		return Header{}, err
	}
	return Header{
		Magic:    magic,
		CtrlSize: binary.LittleEndian.Uint64(data[8:16]),
		DiffSize: binary.LittleEndian.Uint64(data[16:24]),
		NewSize:  binary.LittleEndian.Uint64(data[24:32]),
	}, nil
}
