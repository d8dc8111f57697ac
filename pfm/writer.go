package pfm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/bodgit/lumimap/raster"
	"github.com/pkg/errors"
)

// Options controls encoding. The zero value writes little-endian samples
// with a scale of 1.
type Options struct {
	ByteOrder binary.ByteOrder
	Scale     float64
}

type encoder struct {
	w   *bufio.Writer
	opt Options
}

func (e *encoder) encode(planes []*raster.Raster) error {
	w, h := planes[0].Width(), planes[0].Height()
	for _, p := range planes[1:] {
		if p.Width() != w || p.Height() != h {
			return errors.New("pfm: channel dimensions differ")
		}
	}

	magic := magicGray
	if len(planes) == 3 {
		magic = magicColor
	}

	scale := e.opt.Scale
	if e.opt.ByteOrder == binary.LittleEndian {
		scale = -scale
	}
	if _, err := fmt.Fprintf(e.w, "%s\n%d %d\n%s\n", magic, w, h, formatScale(scale)); err != nil {
		return err
	}

	var tmp [sampleBytes]byte
	for y := h - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			for _, p := range planes {
				v := p.At(x, y)
				if !raster.IsSentinel(v) {
					v = float32(float64(v) / e.opt.Scale)
				}
				e.opt.ByteOrder.PutUint32(tmp[:], math.Float32bits(v))
				if _, err := e.w.Write(tmp[:]); err != nil {
					return err
				}
			}
		}
	}

	return e.w.Flush()
}

func formatScale(s float64) string {
	if s == math.Trunc(s) {
		return fmt.Sprintf("%.1f", s)
	}
	return fmt.Sprintf("%g", s)
}

func (o *Options) defaults() {
	if o.ByteOrder == nil {
		o.ByteOrder = binary.LittleEndian
	}
	if o.Scale <= 0 || math.IsInf(o.Scale, 0) || math.IsNaN(o.Scale) {
		o.Scale = 1
	}
}

// Encode writes a single-channel raster to w in PFM format. Samples are
// divided by the scale so that decoding restores them.
func Encode(w io.Writer, r *raster.Raster, opt *Options) error {
	var o Options
	if opt != nil {
		o = *opt
	}
	o.defaults()

	e := encoder{w: bufio.NewWriter(w), opt: o}
	return e.encode([]*raster.Raster{r})
}

// EncodeColor writes three rasters as an interleaved three-channel PFM.
func EncodeColor(w io.Writer, red, green, blue *raster.Raster, opt *Options) error {
	var o Options
	if opt != nil {
		o = *opt
	}
	o.defaults()

	e := encoder{w: bufio.NewWriter(w), opt: o}
	return e.encode([]*raster.Raster{red, green, blue})
}
