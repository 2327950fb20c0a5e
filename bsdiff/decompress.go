package bsdiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
)

// decompress inflates one embedded stream in full. Compressor ids are
// validated when the magic is decoded, so an unknown id here is a
// programming error, not bad input.
func decompress(data []byte, c Compressor) ([]byte, error) {
	var r io.Reader
	switch c {
	case Bzip2:
		br, err := bzip2.NewReader(bytes.NewReader(data), nil)
		if err != nil {
			return nil, fmt.Errorf("%w: bzip2: %s", ErrDecompress, err)
		}
		r = br
	case Brotli:
		r = brotli.NewReader(bytes.NewReader(data))
	default:
		panic(fmt.Sprintf("bsdiff: unreachable compressor id %d", byte(c)))
	}
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrDecompress, c, err)
	}
	return buf, nil
}
