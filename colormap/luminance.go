package colormap

import (
	"image"
	"image/color"
	"math"

	"github.com/bodgit/lumimap/raster"
	"github.com/pkg/errors"
)

// Substituted for exact zeros so the logarithm stays finite.
const zeroFloor = 1e-6

// LogScale maps luminance onto [0, 1] logarithmically between Min and Max.
type LogScale struct {
	Min, Max float64

	logMin, logRange float64
}

// NewLogScale validates the range and returns a ready scale.
func NewLogScale(min, max float64) (LogScale, error) {
	if !positive(min) || !positive(max) || min >= max {
		return LogScale{}, errors.Wrapf(ErrInvalidParameter, "luminance range [%g, %g]", min, max)
	}
	return LogScale{
		Min:      min,
		Max:      max,
		logMin:   math.Log10(min),
		logRange: math.Log10(max) - math.Log10(min),
	}, nil
}

// Ratio returns the position of v within the scale, clamped to [0, 1].
func (s LogScale) Ratio(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v == 0:
		v = zeroFloor
	}
	v = clamp(v, s.Min, s.Max)
	return (math.Log10(v) - s.logMin) / s.logRange
}

// Ticks returns n+1 values evenly spaced in log space from Min to Max.
func (s LogScale) Ticks(n int) []float64 {
	if n < 1 {
		n = 1
	}
	ticks := make([]float64, 0, n+1)
	ticks = append(ticks, s.Min)
	step := s.logRange / float64(n)
	for i := 1; i < n; i++ {
		ticks = append(ticks, math.Pow(10, s.logMin+step*float64(i)))
	}
	return append(ticks, s.Max)
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0.15, 0.85) * 255))
}

// Ramp returns the blue-green-red color for a ratio in [0, 1] along the
// scale.
func Ramp(ratio float64) color.NRGBA {
	t := 1 - 2*ratio
	return color.NRGBA{
		R: channel(1.5 - math.Abs(2*t+1)),
		G: channel(1.5 - math.Abs(2*t)),
		B: channel(1.5 - math.Abs(2*t-1)),
		A: 255,
	}
}

// Color maps a single sample. Sentinels become fully transparent.
func (s LogScale) Color(v float32) color.NRGBA {
	if raster.IsSentinel(v) {
		return Transparent
	}
	return Ramp(s.Ratio(float64(v)))
}

// Luminance renders the absolute-luminance map of r over [min, max].
func Luminance(r *raster.Raster, min, max float64) (*image.NRGBA, error) {
	s, err := NewLogScale(min, max)
	if err != nil {
		return nil, err
	}
	return fill(r, s.Color), nil
}

// Grayscale renders r as an opaque gray tone-map over the same log scale.
// It stands in for the reference photograph when none is available.
func Grayscale(r *raster.Raster, min, max float64) (*image.NRGBA, error) {
	s, err := NewLogScale(min, max)
	if err != nil {
		return nil, err
	}
	return fill(r, func(v float32) color.NRGBA {
		switch {
		case raster.IsOverflow(v):
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		case raster.IsUnderflow(v):
			return color.NRGBA{A: 255}
		}
		g := uint8(math.Round(s.Ratio(float64(v)) * 255))
		return color.NRGBA{R: g, G: g, B: g, A: 255}
	}), nil
}
