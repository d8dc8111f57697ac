package colormap

import (
	"image"
	"image/color"

	"github.com/bodgit/lumimap/raster"
)

// Overflow marks sentinel samples, red for overflow and blue for underflow,
// and leaves everything else transparent so it can sit over a photograph.
func Overflow(r *raster.Raster) *image.NRGBA {
	return fill(r, func(v float32) color.NRGBA {
		switch {
		case raster.IsOverflow(v):
			return Red
		case raster.IsUnderflow(v):
			return Blue
		}
		return Transparent
	})
}
