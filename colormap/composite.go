package colormap

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Composite draws base and then top over it using alpha-over. The result has
// the dimensions of top; base is rescaled to match when its size differs.
func Composite(base, top image.Image) *image.NRGBA {
	b := top.Bounds()
	if base.Bounds().Size() != b.Size() {
		base = resize.Resize(uint(b.Dx()), uint(b.Dy()), base, resize.Bilinear)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)
	draw.Draw(dst, dst.Bounds(), top, b.Min, draw.Over)
	return dst
}
