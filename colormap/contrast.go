package colormap

import (
	"image"
	"image/color"

	"github.com/bodgit/lumimap/raster"
	"github.com/pkg/errors"
)

// Band is one luminance-ratio bucket. A ratio belongs to the first band,
// in table order, whose Threshold it reaches.
type Band struct {
	Threshold float64
	Color     color.NRGBA
	Label     string
}

// Bands is ordered by descending threshold. The last band has no lower
// bound and catches everything else, NaN included.
var Bands = []Band{
	{Threshold: 10.0, Color: Red, Label: "10"},
	{Threshold: 3.0, Color: Orange, Label: "3"},
	{Threshold: 2.0, Color: Yellow, Label: "2"},
	{Threshold: 0.5, Color: WhiteSmoke, Label: "1/2"},
	{Threshold: 0.3333, Color: LightBlue, Label: "1/3"},
	{Threshold: 0.1, Color: Blue, Label: "1/10"},
	{Threshold: 0, Color: DeepPurple, Label: "0"},
}

// BandIndex returns the index into Bands for a luminance ratio.
func BandIndex(ratio float64) int {
	last := len(Bands) - 1
	for i, b := range Bands[:last] {
		if ratio >= b.Threshold {
			return i
		}
	}
	return last
}

// CheckBaseLuminance validates a contrast reference luminance.
func CheckBaseLuminance(base float64) error {
	if !positive(base) {
		return errors.Wrapf(ErrInvalidParameter, "base luminance %g", base)
	}
	return nil
}

// Contrast renders the luminance-ratio map of r relative to base.
func Contrast(r *raster.Raster, base float64) (*image.NRGBA, error) {
	if err := CheckBaseLuminance(base); err != nil {
		return nil, err
	}
	return fill(r, func(v float32) color.NRGBA {
		return Bands[BandIndex(float64(v)/base)].Color
	}), nil
}
