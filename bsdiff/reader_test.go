package bsdiff

import (
	"bytes"
	"encoding/binary"
	"testing"

	gobsdiff "github.com/gabstv/go-bsdiff/pkg/bsdiff"
	"github.com/patchtools/bsdump/testutils"
)

type recordingObserver struct {
	zeros, total             int
	maskC, maskD, difC, difD int
	diffCalls, maskCalls     int
}

func (o *recordingObserver) DiffStats(zeros, total int) {
	o.zeros, o.total = zeros, total
	o.diffCalls++
}

func (o *recordingObserver) MaskStats(maskC, maskD, difC, difD int) {
	o.maskC, o.maskD, o.difC, o.difD = maskC, maskD, difC, difD
	o.maskCalls++
}

// A patch produced by a real bsdiff implementation must decode: header
// sizes consistent, legacy compressors, and control entries that add
// up to the size of the new file.
func TestReaderLegacy(t *testing.T) {
	old := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 64)
	new := append(bytes.Repeat([]byte("the quick brown cat jumps over the lazy dog\n"), 64), "trailer"...)
	patch, err := gobsdiff.Bytes(old, new)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewReader(patch)
	if err != nil {
		t.Fatal(err)
	}
	hdr := r.Header()
	testutils.AssertSame(t, Magic{Legacy, Bzip2, Bzip2, Bzip2}, hdr.Magic, "magic")
	testutils.AssertSame(t, uint64(len(new)), r.NewSize(), "new size")

	it := r.ControlEntries()
	var total uint64
	count := 0
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		total += e.DiffLen + e.ExtraLen
		count++
	}
	testutils.AssertSame(t, it.Len(), count, "entry count")
	testutils.AssertSame(t, uint64(len(new)), total, "bytes covered by control entries")

	ctrlSeg, diffSeg, extraSeg := r.Segments()
	testutils.AssertSame(t, Segment{HeaderSize, int(hdr.CtrlSize)}, ctrlSeg, "ctrl segment")
	testutils.AssertSame(t, Segment{HeaderSize + int(hdr.CtrlSize), int(hdr.DiffSize)}, diffSeg, "diff segment")
	testutils.AssertSame(t, len(patch)-extraSeg.Offset, extraSeg.Len, "extra segment")
}

func TestReaderV2(t *testing.T) {
	ctrl := controlBytes(
		[3]uint64{5, 3, 1<<63 | 7},
		[3]uint64{2, 0, 11},
	)
	diff := []byte{0, 0, 1, 0, 2, 0, 3}
	extra := []byte("raw extra bytes")
	patch := container("BSDF2\x01\x02\x01", bz2(t, ctrl), br(t, diff), extra, 10)

	obs := &recordingObserver{}
	r, err := NewReaderObserver(patch, obs)
	if err != nil {
		t.Fatal(err)
	}
	testutils.AssertSame(t, Magic{V2, Bzip2, Brotli, Bzip2}, r.Header().Magic, "magic")
	testutils.AssertSame(t, diff, r.Diff(), "decompressed diff")
	testutils.AssertSame(t, extra, r.Extra(), "compressed extra")

	it := r.ControlEntries()
	testutils.AssertSame(t, 2, it.Len(), "entry count")
	e, _ := it.Next()
	testutils.AssertSame(t, ControlEntry{5, 3, -7}, e, "first entry")
	e, _ = it.Next()
	testutils.AssertSame(t, ControlEntry{2, 0, 11}, e, "second entry")
	if _, ok := it.Next(); ok {
		t.Fatal("expected two entries")
	}
	// Restart does not re-decompress, it just hands out a new cursor.
	e, _ = r.ControlEntries().Next()
	testutils.AssertSame(t, ControlEntry{5, 3, -7}, e, "restarted first entry")

	testutils.AssertSame(t, 4, obs.zeros, "diff zeros")
	testutils.AssertSame(t, len(diff), obs.total, "diff total")
	testutils.AssertSame(t, 1, obs.diffCalls, "single stats call")
}

func TestReaderTruncatedInput(t *testing.T) {
	ctrl := bz2(t, controlBytes([3]uint64{1, 0, 0}))
	diff := bz2(t, []byte{42})
	patch := container("BSDIFF40", ctrl, diff, nil, 1)

	// Cut into the diff segment.
	_, err := NewReader(patch[:len(patch)-1])
	testutils.AssertErrorIs(t, err, ErrTruncatedInput, "short diff")

	// Cut into the control segment.
	_, err = NewReader(patch[:HeaderSize+len(ctrl)-1])
	testutils.AssertErrorIs(t, err, ErrTruncatedInput, "short ctrl")

	// Header lies about the control size.
	binary.LittleEndian.PutUint64(patch[8:], uint64(len(patch)))
	_, err = NewReader(patch)
	testutils.AssertErrorIs(t, err, ErrTruncatedInput, "oversized ctrl")
}

func TestReaderTruncatedControl(t *testing.T) {
	ctrl := bz2(t, make([]byte, 23))
	diff := bz2(t, nil)
	_, err := NewReader(container("BSDIFF40", ctrl, diff, nil, 0))
	testutils.AssertErrorIs(t, err, ErrTruncatedControl, "23-byte control stream")
}

func TestReaderBadStream(t *testing.T) {
	diff := bz2(t, nil)
	_, err := NewReader(container("BSDIFF40", []byte("not bzip2 data here"), diff, nil, 0))
	testutils.AssertErrorIs(t, err, ErrDecompress, "garbage control stream")
}

// BDF3 containers are recognized, measured, and rejected.
func TestReaderV3Unsupported(t *testing.T) {
	ctrlC := bz2(t, controlBytes([3]uint64{0, 0, 0}))
	diff := []byte("mask format diff bytes")
	diffC := br(t, diff)
	mask := bytes.Repeat([]byte{0xff, 0x00}, 32)
	maskC := br(t, mask)

	var buf bytes.Buffer
	buf.WriteString("BDF3\x00\x01\x02\x01")
	var sizes [24]byte
	binary.LittleEndian.PutUint64(sizes[0:], uint64(len(ctrlC)))
	binary.LittleEndian.PutUint64(sizes[8:], uint64(len(diffC)))
	binary.LittleEndian.PutUint64(sizes[16:], 64)
	buf.Write(sizes[:])
	var maskSize [8]byte
	binary.LittleEndian.PutUint64(maskSize[:], uint64(len(maskC)))
	buf.Write(maskSize[:])
	buf.Write(ctrlC)
	buf.Write(diffC)
	buf.Write(maskC)

	obs := &recordingObserver{}
	_, err := NewReaderObserver(buf.Bytes(), obs)
	testutils.AssertErrorIs(t, err, ErrUnsupportedVariant, "v3 container")
	testutils.AssertSame(t, 1, obs.maskCalls, "mask stats reported")
	testutils.AssertSame(t, len(maskC), obs.maskC, "compressed mask size")
	testutils.AssertSame(t, len(mask), obs.maskD, "decompressed mask size")
	testutils.AssertSame(t, len(diffC), obs.difC, "compressed diff size")
	testutils.AssertSame(t, len(diff), obs.difD, "decompressed diff size")
}
