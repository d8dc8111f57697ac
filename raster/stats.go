package raster

import (
	"math"

	"github.com/pkg/errors"
)

// Stats summarises the samples selected by a mask. Sentinel samples are
// counted separately and excluded from Min, Max and Mean.
type Stats struct {
	Count     int
	Min       float64
	Max       float64
	Mean      float64
	Overflow  int
	Underflow int
}

// Stats computes statistics over the samples where mask is true. A nil mask
// selects every sample.
func (r *Raster) Stats(mask []bool) (Stats, error) {
	if mask != nil && len(mask) != len(r.pix) {
		return Stats{}, errors.Errorf("raster: mask has %d entries, want %d", len(mask), len(r.pix))
	}

	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for i, v := range r.pix {
		if mask != nil && !mask[i] {
			continue
		}
		switch {
		case IsOverflow(v):
			s.Overflow++
			continue
		case IsUnderflow(v):
			s.Underflow++
			continue
		}
		f := float64(v)
		s.Min = math.Min(s.Min, f)
		s.Max = math.Max(s.Max, f)
		sum += f
		s.Count++
	}
	if s.Count == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s, nil
	}
	s.Mean = sum / float64(s.Count)
	return s, nil
}
