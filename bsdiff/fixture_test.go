package bsdiff

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
)

// bz2 compresses b with the real bzip2 writer.
func bz2(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// br compresses b with the real brotli writer.
func br(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// controlBytes lays out entries as they appear in a decompressed
// control stream: three little-endian uint64 per entry, the offset
// already in raw sign-magnitude form.
func controlBytes(entries ...[3]uint64) []byte {
	buf := make([]byte, len(entries)*ControlEntrySize)
	for i, e := range entries {
		binary.LittleEndian.PutUint64(buf[i*24:], e[0])
		binary.LittleEndian.PutUint64(buf[i*24+8:], e[1])
		binary.LittleEndian.PutUint64(buf[i*24+16:], e[2])
	}
	return buf
}

// container assembles a patch buffer from already-compressed streams.
func container(magic string, ctrl, diff, extra []byte, newSize uint64) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	var sizes [24]byte
	binary.LittleEndian.PutUint64(sizes[0:], uint64(len(ctrl)))
	binary.LittleEndian.PutUint64(sizes[8:], uint64(len(diff)))
	binary.LittleEndian.PutUint64(sizes[16:], newSize)
	buf.Write(sizes[:])
	buf.Write(ctrl)
	buf.Write(diff)
	buf.Write(extra)
	return buf.Bytes()
}
