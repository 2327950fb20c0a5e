package bsdiff

import "errors"

// Errors returned while decoding a patch container. All of them are
// wrapped with context, match with errors.Is.
var (
	// ErrHeaderTooShort is returned when the input holds fewer than the
	// 32 bytes of the fixed header.
	ErrHeaderTooShort = errors.New("bsdiff: header too short")

	// ErrMalformedMagic is returned when the magic field matches none of
	// the known container variants.
	ErrMalformedMagic = errors.New("bsdiff: malformed magic")

	// ErrInvalidCompressor is returned when a compressor-id byte embedded
	// in the magic does not name a known compressor.
	ErrInvalidCompressor = errors.New("bsdiff: invalid compressor id")

	// ErrUnsupportedVariant is returned for containers that are
	// recognized but deliberately not decoded (the BDF3 mask-stream
	// format). Distinguishable from corruption: the input may be
	// perfectly valid.
	ErrUnsupportedVariant = errors.New("bsdiff: unsupported format variant")

	// ErrTruncatedInput is returned when a segment declared by the
	// header extends past the end of the input.
	ErrTruncatedInput = errors.New("bsdiff: truncated input")

	// ErrTruncatedControl is returned when the decompressed control
	// stream is not a whole number of control entries.
	ErrTruncatedControl = errors.New("bsdiff: truncated control stream")

	// ErrDecompress is returned when a compressed stream is rejected by
	// its decompressor.
	ErrDecompress = errors.New("bsdiff: decompression failed")

	// ErrIntegerOverflow is returned when a signed offset cannot be
	// represented in the sign-magnitude encoding.
	ErrIntegerOverflow = errors.New("bsdiff: integer overflow")
)
