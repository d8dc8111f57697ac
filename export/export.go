/*
Package export writes rendered buffers to image files. PNG output is
lossless; GIF output is reduced to a median-cut palette, with a reserved
transparent entry when the buffer has any see-through pixels.
*/
package export

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Format selects the output encoding.
type Format int

const (
	PNG Format = iota + 1
	GIF
)

const maxColors = 256

// ErrUnknownFormat is returned for unsupported names and extensions.
var ErrUnknownFormat = errors.New("export: unknown format")

var formats = map[string]Format{
	"png": PNG,
	"gif": GIF,
}

func (f Format) String() string {
	for k, v := range formats {
		if v == f {
			return k
		}
	}
	return "unknown"
}

// Ext returns the file extension including the leading dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat maps a format name such as "png" to a Format.
func ParseFormat(s string) (Format, error) {
	if f, ok := formats[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// FormatFromPath picks the Format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Encode writes m to w in the given format.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, m)
	case GIF:
		return gif.Encode(w, Paletted(m), nil)
	}
	return ErrUnknownFormat
}

func transparent(m image.Image) bool {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := m.At(x, y).RGBA(); a == 0 {
				return true
			}
		}
	}
	return false
}

// Paletted converts m to at most 256 colors. Images that already carry a
// small enough palette are converted without quantizing.
func Paletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok && len(cp) <= maxColors {
			pm = image.NewPaletted(b, cp)
			draw.Draw(pm, b, m, b.Min, draw.Src)
		}
	}
	if pm == nil || len(pm.Palette) > maxColors {
		p := make(color.Palette, 0, maxColors)
		if transparent(m) {
			p = append(p, color.Transparent)
		}
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(p, m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	return pm
}

// WriteFile encodes m into a new file at path.
func WriteFile(path string, m image.Image, f Format) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := Encode(w, m, f); err != nil {
		return err
	}

	return w.Close()
}
