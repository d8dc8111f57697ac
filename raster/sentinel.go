package raster

import "math"

// The upstream producer marks samples outside its measurable range with the
// largest finite float32 of either sign. This is a domain convention: the
// decoder passes these values through untouched and the mapper special-cases
// them.
const (
	Overflow  float32 = math.MaxFloat32
	Underflow float32 = -math.MaxFloat32
)

// IsOverflow reports whether v carries the overflow sentinel.
func IsOverflow(v float32) bool { return v == Overflow }

// IsUnderflow reports whether v carries the underflow sentinel.
func IsUnderflow(v float32) bool { return v == Underflow }

// IsSentinel reports whether v carries either sentinel.
func IsSentinel(v float32) bool { return v == Overflow || v == Underflow }
