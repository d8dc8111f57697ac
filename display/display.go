/*
Package display is an in-memory display surface. It supports the two
operations a presenter needs: clearing itself and scaling a sub-region of a
source buffer into a destination rectangle.
*/
package display

import (
	"image"
	"image/color"
	"math"

	"github.com/bodgit/lumimap/viewport"
	"golang.org/x/image/draw"
)

// Surface is anything a rendered view can be presented on.
type Surface interface {
	Clear()
	Blit(src image.Image, sr image.Rectangle, dr viewport.Rect)
}

// Canvas is a Surface backed by an RGBA image.
type Canvas struct {
	img        *image.RGBA
	background color.Color
	scaler     draw.Scaler
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithBackground sets the color Clear fills with. The default is
// transparent.
func WithBackground(c color.Color) Option {
	return func(cv *Canvas) {
		cv.background = c
	}
}

// WithScaler replaces the default nearest-neighbor scaler, which keeps
// individual raster pixels sharp at high zoom.
func WithScaler(s draw.Scaler) Option {
	return func(cv *Canvas) {
		cv.scaler = s
	}
}

// NewCanvas returns a cleared canvas of the given size.
func NewCanvas(width, height int, options ...Option) *Canvas {
	c := &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		background: color.Transparent,
		scaler:     draw.NearestNeighbor,
	}
	for _, o := range options {
		o(c)
	}
	c.Clear()
	return c
}

// Size returns the canvas dimensions as display coordinates.
func (c *Canvas) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Clear fills the canvas with the background color.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
}

// Blit scales sr of src into dr, clipped to the canvas. dr is snapped to
// whole display pixels.
func (c *Canvas) Blit(src image.Image, sr image.Rectangle, dr viewport.Rect) {
	dst := image.Rect(
		int(math.Round(dr.X)),
		int(math.Round(dr.Y)),
		int(math.Round(dr.Right())),
		int(math.Round(dr.Bottom())),
	)
	if dst.Empty() || sr.Empty() {
		return
	}
	c.scaler.Scale(c.img, dst, src, sr, draw.Over, nil)
}
