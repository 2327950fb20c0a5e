package bsdiff

import "fmt"

// Variant identifies which of the three container layouts a magic field
// names. It is computed once from the magic and never changes.
type Variant int

const (
	// Legacy is the original "BSDIFF40" container: all three streams
	// are bzip2 compressed.
	Legacy Variant = iota
	// V2 is the "BSDF2" container: per-stream compressor ids packed
	// into the last three bytes of the magic.
	V2
	// V3 is the "BDF3" container: like V2 plus an auxiliary mask
	// stream. Recognized but not decoded, see Open.
	V3
)

func (v Variant) String() string {
	switch v {
	case Legacy:
		return "BSDIFF40"
	case V2:
		return "BSDF2"
	case V3:
		return "BDF3"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Compressor identifies the algorithm used for one embedded stream.
type Compressor byte

const (
	Bzip2  Compressor = 1
	Brotli Compressor = 2
)

func (c Compressor) String() string {
	switch c {
	case Bzip2:
		return "bzip2"
	case Brotli:
		return "brotli"
	}
	return fmt.Sprintf("Compressor(%d)", byte(c))
}

func (c Compressor) valid() bool {
	return c == Bzip2 || c == Brotli
}

const (
	legacyMagic = "BSDIFF40"
	v2Prefix    = "BSDF2"
	v3Prefix    = "BDF3"
)

// Magic is the decoded form of the 8-byte magic field: the container
// variant plus the compressor selected for each embedded stream. The
// ids are extracted once at validation time so later stages never go
// back to the raw bytes.
type Magic struct {
	Variant Variant
	Ctrl    Compressor
	Diff    Compressor
	Extra   Compressor
}

// DecodeMagic validates an 8-byte magic field. The legacy pattern is an
// exact match and implies bzip2 for every stream. The BSDF2 and BDF3
// patterns are matched on their ASCII prefix, with bytes 5, 6 and 7
// holding the control, diff and extra stream compressor ids.
//
// Byte 4 of the BDF3 pattern is not constrained: the reference
// validation has that check commented out, and without real BDF3
// samples we match what it actually accepts.
func DecodeMagic(magic [8]byte) (Magic, error) {
	if string(magic[:]) == legacyMagic {
		return Magic{Legacy, Bzip2, Bzip2, Bzip2}, nil
	}
	var variant Variant
	switch {
	case string(magic[:len(v2Prefix)]) == v2Prefix:
		variant = V2
	case string(magic[:len(v3Prefix)]) == v3Prefix:
		variant = V3
	default:
		return Magic{}, fmt.Errorf("%w: % x", ErrMalformedMagic, magic)
	}
	m := Magic{
		Variant: variant,
		Ctrl:    Compressor(magic[5]),
		Diff:    Compressor(magic[6]),
		Extra:   Compressor(magic[7]),
	}
	for _, c := range []Compressor{m.Ctrl, m.Diff, m.Extra} {
		if !c.valid() {
			return Magic{}, fmt.Errorf("%w: %d in magic % x", ErrInvalidCompressor, byte(c), magic)
		}
	}
	return m, nil
}
