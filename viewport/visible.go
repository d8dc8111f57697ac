package viewport

import (
	"image"
	"math"
)

// Visible returns the whole-pixel part of the image that falls on the
// display and the display rectangle it occupies. The destination may spill
// past the display edges by less than one image pixel.
func (v *Viewport) Visible() (image.Rectangle, Rect, bool) {
	if !v.bound || v.rect.W <= 0 || v.rect.H <= 0 {
		return image.Rectangle{}, Rect{}, false
	}

	x0, y0 := math.Max(v.rect.X, 0), math.Max(v.rect.Y, 0)
	x1, y1 := math.Min(v.rect.Right(), v.width), math.Min(v.rect.Bottom(), v.height)
	if x1 <= x0 || y1 <= y0 {
		return image.Rectangle{}, Rect{}, false
	}

	sx := float64(v.imageW) / v.rect.W
	sy := float64(v.imageH) / v.rect.H

	src := image.Rect(
		int(math.Floor((x0-v.rect.X)*sx)),
		int(math.Floor((y0-v.rect.Y)*sy)),
		int(math.Ceil((x1-v.rect.X)*sx)),
		int(math.Ceil((y1-v.rect.Y)*sy)),
	).Intersect(image.Rect(0, 0, v.imageW, v.imageH))
	if src.Empty() {
		return image.Rectangle{}, Rect{}, false
	}

	return src, Rect{
		X: v.rect.X + float64(src.Min.X)/sx,
		Y: v.rect.Y + float64(src.Min.Y)/sy,
		W: float64(src.Dx()) / sx,
		H: float64(src.Dy()) / sy,
	}, true
}
