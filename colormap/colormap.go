/*
Package colormap turns luminance rasters into 8-bit RGBA false-color images.

Every mapping visits each sample exactly once and depends on nothing but the
sample and its parameters, so the output is identical regardless of the
order pixels are processed in. Results are *image.NRGBA values of the same
size as the input raster; ownership passes to the caller.
*/
package colormap

import (
	"image"
	"image/color"
	"math"

	"github.com/bodgit/lumimap/raster"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// ErrInvalidParameter is returned for non-finite or out-of-range mapping
// parameters.
var ErrInvalidParameter = errors.New("colormap: invalid parameter")

// Fixed palette. These are visual choices, not derived values.
var (
	Red         = color.NRGBA{R: 255, A: 255}
	Orange      = color.NRGBA{R: 255, G: 127, A: 255}
	Yellow      = color.NRGBA{R: 255, G: 255, A: 255}
	WhiteSmoke  = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	LightBlue   = color.NRGBA{G: 255, B: 255, A: 255}
	Blue        = color.NRGBA{B: 255, A: 255}
	DeepPurple  = color.NRGBA{R: 97, G: 77, B: 157, A: 255}
	Transparent = color.NRGBA{}
)

func clamp[T constraints.Ordered](v, lower, upper T) T {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// fill allocates the output image and sets every pixel from fn.
func fill(r *raster.Raster, fn func(v float32) color.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(r.Bounds())
	for i := 0; i < r.Len(); i++ {
		c := fn(r.Sample(i))
		o := i * 4
		dst.Pix[o+0] = c.R
		dst.Pix[o+1] = c.G
		dst.Pix[o+2] = c.B
		dst.Pix[o+3] = c.A
	}
	return dst
}
