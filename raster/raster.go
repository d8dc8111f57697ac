/*
Package raster holds the floating-point luminance grid shared by the decoder
and the color mapper.

Samples are stored row-major with the origin at the top-left corner. A Raster
is immutable once constructed; every accessor returns copies or scalars.
*/
package raster

import (
	"image"

	"github.com/pkg/errors"
)

// ErrSize is returned when the sample count does not match the dimensions.
var ErrSize = errors.New("raster: sample count does not match dimensions")

// Raster is an immutable width by height grid of float32 samples.
type Raster struct {
	width  int
	height int
	pix    []float32
}

// New returns a Raster backed by pix. The caller must not modify pix
// afterwards.
func New(width, height int, pix []float32) (*Raster, error) {
	if width < 1 || height < 1 {
		return nil, errors.Wrapf(ErrSize, "invalid dimensions %dx%d", width, height)
	}
	if len(pix) != width*height {
		return nil, errors.Wrapf(ErrSize, "got %d samples for %dx%d", len(pix), width, height)
	}
	return &Raster{width: width, height: height, pix: pix}, nil
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// Bounds returns the raster extent as an image rectangle anchored at (0, 0).
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// Len returns the total number of samples.
func (r *Raster) Len() int { return len(r.pix) }

// Sample returns the i'th sample in row-major order.
func (r *Raster) Sample(i int) float32 { return r.pix[i] }

// At returns the sample at column x, row y.
func (r *Raster) At(x, y int) float32 {
	return r.pix[y*r.width+x]
}

// In reports whether p addresses a sample inside the raster.
func (r *Raster) In(p image.Point) bool {
	return p.In(r.Bounds())
}

// Values returns a copy of the samples.
func (r *Raster) Values() []float32 {
	return append([]float32(nil), r.pix...)
}
