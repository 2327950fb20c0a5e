// Package bsdiff decodes the bsdiff patch container family: the legacy
// "BSDIFF40" layout and its "BSDF2" successor, which packs per-stream
// compressor ids into the magic. The "BDF3" mask-stream layout is
// recognized but deliberately not decoded.
//
// A patch holds three compressed streams behind a fixed 32-byte
// header: a control stream of fixed-width entries driving the patch
// script, a diff stream of byte adjustments, and an extra stream of
// literal insertions. This package parses the container and decodes
// the control stream; applying a patch is the delta package's job.
package bsdiff

import (
	"encoding/binary"
	"fmt"
)

// Observer receives decoding telemetry. All methods are optional in
// spirit: a caller that does not care passes no observer and the
// reader stays silent.
type Observer interface {
	// DiffStats reports the zero-byte count of the decompressed diff
	// stream. Long zero runs are what make diff streams compressible,
	// so the ratio is the quickest health check on a patch.
	DiffStats(zeros, total int)
	// MaskStats reports compressed and decompressed sizes of the mask
	// and diff streams of a BDF3 container, gathered on the way to the
	// unsupported-variant failure.
	MaskStats(maskCompressed, maskDecompressed, diffCompressed, diffDecompressed int)
}

// Segment is a byte range of the original patch buffer.
type Segment struct {
	Offset int
	Len    int
}

// Reader is a decoded patch container. The control and diff streams
// are decompressed once, when the reader is built; the extra stream is
// left compressed for whoever applies the patch.
type Reader struct {
	header Header
	data   []byte
	ctrl   []byte
	diff   []byte

	ctrlSeg  Segment
	diffSeg  Segment
	extraSeg Segment
}

// NewReader parses a full patch buffer. See NewReaderObserver.
func NewReader(data []byte) (*Reader, error) {
	return NewReaderObserver(data, nil)
}

// NewReaderObserver parses a full patch buffer, reporting telemetry to
// obs when it is non-nil. The buffer must stay immutable for the life
// of the reader. BDF3 containers fail with ErrUnsupportedVariant after
// their mask statistics have been reported; every other failure means
// the input is malformed.
func NewReaderObserver(data []byte, obs Observer) (*Reader, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if hdr.Magic.Variant == V3 {
		return nil, maskStats(data, hdr, obs)
	}

	ctrlSeg, err := slice(data, HeaderSize, hdr.CtrlSize)
	if err != nil {
		return nil, fmt.Errorf("control stream: %w", err)
	}
	diffSeg, err := slice(data, ctrlSeg.Offset+ctrlSeg.Len, hdr.DiffSize)
	if err != nil {
		return nil, fmt.Errorf("diff stream: %w", err)
	}
	extraSeg := Segment{diffSeg.Offset + diffSeg.Len, len(data) - diffSeg.Offset - diffSeg.Len}

	ctrl, err := decompress(data[ctrlSeg.Offset:ctrlSeg.Offset+ctrlSeg.Len], hdr.Magic.Ctrl)
	if err != nil {
		return nil, fmt.Errorf("control stream: %w", err)
	}
	if err := checkControl(ctrl); err != nil {
		return nil, err
	}
	diff, err := decompress(data[diffSeg.Offset:diffSeg.Offset+diffSeg.Len], hdr.Magic.Diff)
	if err != nil {
		return nil, fmt.Errorf("diff stream: %w", err)
	}
	if obs != nil {
		zeros := 0
		for _, b := range diff {
			if b == 0 {
				zeros++
			}
		}
		obs.DiffStats(zeros, len(diff))
	}

	return &Reader{
		header:   hdr,
		data:     data,
		ctrl:     ctrl,
		diff:     diff,
		ctrlSeg:  ctrlSeg,
		diffSeg:  diffSeg,
		extraSeg: extraSeg,
	}, nil
}

// slice bounds-checks a segment of length size starting at off.
func slice(data []byte, off int, size uint64) (Segment, error) {
	if off > len(data) || size > uint64(len(data)-off) {
		return Segment{}, fmt.Errorf("%w: segment [%d, %d+%d) past end of %d-byte input",
			ErrTruncatedInput, off, off, size, len(data))
	}
	return Segment{off, int(size)}, nil
}

// maskStats gathers the diagnostic statistics the reference dumper
// prints for BDF3 containers, then reports the variant unsupported.
// BDF3 inserts a little-endian mask-stream size right after the common
// header and appends the brotli-compressed mask at the end of the
// file.
func maskStats(data []byte, hdr Header, obs Observer) error {
	unsupported := fmt.Errorf("%w: %s mask stream not implemented", ErrUnsupportedVariant, hdr.Magic.Variant)
	if len(data) < HeaderSize+8 {
		return fmt.Errorf("%w: missing mask size field", ErrTruncatedInput)
	}
	maskSize := binary.LittleEndian.Uint64(data[HeaderSize : HeaderSize+8])
	if hdr.CtrlSize > uint64(len(data)) {
		return fmt.Errorf("%w: control segment of %d bytes past end of %d-byte input",
			ErrTruncatedInput, hdr.CtrlSize, len(data))
	}
	diffSeg, err := slice(data, HeaderSize+8+int(hdr.CtrlSize), hdr.DiffSize)
	if err != nil {
		return fmt.Errorf("diff stream: %w", err)
	}
	if maskSize > uint64(len(data)) {
		return fmt.Errorf("%w: mask segment of %d bytes past start of %d-byte input",
			ErrTruncatedInput, maskSize, len(data))
	}
	if obs != nil {
		diff, err := decompress(data[diffSeg.Offset:diffSeg.Offset+diffSeg.Len], hdr.Magic.Diff)
		if err != nil {
			return fmt.Errorf("diff stream: %w", err)
		}
		// The mask stream is always brotli, whatever the magic says.
		mask, err := decompress(data[len(data)-int(maskSize):], Brotli)
		if err != nil {
			return fmt.Errorf("mask stream: %w", err)
		}
		obs.MaskStats(int(maskSize), len(mask), diffSeg.Len, len(diff))
	}
	return unsupported
}

// Header returns the parsed container header.
func (r *Reader) Header() Header {
	return r.header
}

// NewSize returns the size of the file the patch reconstructs.
func (r *Reader) NewSize() uint64 {
	return r.header.NewSize
}

// ControlEntries returns a fresh cursor over the decoded control
// stream. The stream was decompressed when the reader was built, so
// restarting is free.
func (r *Reader) ControlEntries() *ControlIter {
	return &ControlIter{buf: r.ctrl}
}

// Diff returns the decompressed diff stream.
func (r *Reader) Diff() []byte {
	return r.diff
}

// Extra returns the still-compressed extra stream: everything after
// the diff segment, including any variant-specific trailer. Callers
// decompress it with Header().Magic.Extra when they apply the patch.
func (r *Reader) Extra() []byte {
	return r.data[r.extraSeg.Offset:]
}

// Segments returns the byte ranges of the three compressed streams
// within the patch buffer.
func (r *Reader) Segments() (ctrl, diff, extra Segment) {
	return r.ctrlSeg, r.diffSeg, r.extraSeg
}
