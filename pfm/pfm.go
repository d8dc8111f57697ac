/*
Package pfm implements a Portable FloatMap decoder and encoder.

The file starts with three LF-terminated ASCII lines followed by a binary
payload:

	Pf or PF        single-channel (grayscale) or three-channel (color)
	width height    two positive decimal integers
	scale           a signed decimal number

The sign of the scale line selects the byte order of the payload, negative
meaning little-endian, and its absolute value multiplies every sample. The
payload holds width*height*channels IEEE-754 32-bit floats with color samples
interleaved as R, G, B. Rows are stored bottom-to-top; decoded rasters have row
0 at the top.
*/
package pfm

import (
	"encoding/binary"

	"github.com/bodgit/lumimap/raster"
	"github.com/pkg/errors"
)

// Extension is the conventional file name extension.
const Extension = ".pfm"

const (
	magicGray  = "Pf"
	magicColor = "PF"

	sampleBytes = 4
)

// Decoding errors. Decode never returns a partial image.
var (
	ErrUnsupportedFormat = errors.New("pfm: unsupported format")
	ErrInvalidDimensions = errors.New("pfm: invalid dimensions")
	ErrTruncatedData     = errors.New("pfm: truncated data")
)

// Config describes a PFM header.
type Config struct {
	Width     int
	Height    int
	Channels  int
	Scale     float64
	ByteOrder binary.ByteOrder
}

// Color reports whether the file has three channels.
func (c Config) Color() bool { return c.Channels == 3 }

// Image is a decoded PFM file. Exactly one of Gray or RGB is populated
// depending on the channel count.
type Image struct {
	Config
	Gray *raster.Raster
	RGB  [3]*raster.Raster
}

// Luminance returns the grayscale raster, or nil for color images.
func (m *Image) Luminance() *raster.Raster {
	return m.Gray
}
