package bsdiff

import (
	"fmt"
	"math"
)

const signBit = uint64(1) << 63

// DecodeOffset decodes the non-standard signed integer used in control
// entries. The top bit is a sign flag (1 = negative), the low 63 bits
// hold the magnitude. This is sign-magnitude, not two's complement, so
// both 0 and 1<<63 decode to 0.
func DecodeOffset(raw uint64) int64 {
	if raw&signBit == 0 {
		return int64(raw)
	}
	return -int64(raw &^ signBit)
}

// EncodeOffset is the inverse of DecodeOffset. It fails for
// math.MinInt64, whose magnitude does not fit in 63 bits. Since -0
// and +0 share an encoding, EncodeOffset(0) yields the all-zero form.
func EncodeOffset(v int64) (uint64, error) {
	if v >= 0 {
		return uint64(v), nil
	}
	if v == math.MinInt64 {
		return 0, fmt.Errorf("%w: offset %d has no sign-magnitude form", ErrIntegerOverflow, v)
	}
	return signBit | uint64(-v), nil
}
