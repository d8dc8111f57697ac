package pfm

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bodgit/lumimap/raster"
	"github.com/pkg/errors"
)

// Guards against absurd headers before anything is allocated.
const maxSamples = 1 << 30

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r *bufio.Reader

	config Config
	image  *Image
}

func (d *decoder) readLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", errors.Wrap(ErrTruncatedData, "header")
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d *decoder) readHeader() error {
	magic, err := d.readLine()
	if err != nil {
		return err
	}
	switch magic {
	case magicGray:
		d.config.Channels = 1
	case magicColor:
		d.config.Channels = 3
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "identifier %q", magic)
	}

	size, err := d.readLine()
	if err != nil {
		return err
	}
	fields := strings.Fields(size)
	if len(fields) != 2 {
		return errors.Wrapf(ErrInvalidDimensions, "size line %q", size)
	}
	if d.config.Width, err = strconv.Atoi(fields[0]); err != nil || d.config.Width < 1 {
		return errors.Wrapf(ErrInvalidDimensions, "width %q", fields[0])
	}
	if d.config.Height, err = strconv.Atoi(fields[1]); err != nil || d.config.Height < 1 {
		return errors.Wrapf(ErrInvalidDimensions, "height %q", fields[1])
	}
	if uint64(d.config.Width)*uint64(d.config.Height)*uint64(d.config.Channels) > maxSamples {
		return errors.Wrapf(ErrInvalidDimensions, "%dx%d is too large", d.config.Width, d.config.Height)
	}

	scale, err := d.readLine()
	if err != nil {
		return err
	}
	s, err := strconv.ParseFloat(scale, 64)
	if err != nil || math.IsNaN(s) || math.IsInf(s, 0) {
		return errors.Wrapf(ErrUnsupportedFormat, "scale %q", scale)
	}
	d.config.ByteOrder = binary.BigEndian
	if math.Signbit(s) {
		d.config.ByteOrder = binary.LittleEndian
	}
	d.config.Scale = math.Abs(s)

	return nil
}

func (d *decoder) readPayload() error {
	w, h, c := d.config.Width, d.config.Height, d.config.Channels
	n := w * h

	buf := make([]byte, n*c*sampleBytes)
	if err := readFull(d.r, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return errors.Wrapf(ErrTruncatedData, "want %d payload bytes", len(buf))
		}
		return err
	}

	planes := make([][]float32, c)
	for i := range planes {
		planes[i] = make([]float32, n)
	}

	// Source row y lands in destination row h-1-y.
	for y := 0; y < h; y++ {
		dst := (h - 1 - y) * w
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				off := ((y*w+x)*c + ch) * sampleBytes
				v := math.Float32frombits(d.config.ByteOrder.Uint32(buf[off : off+sampleBytes]))
				planes[ch][dst+x] = float32(float64(v) * d.config.Scale)
			}
		}
	}

	d.image = &Image{Config: d.config}
	if c == 1 {
		r, err := raster.New(w, h, planes[0])
		if err != nil {
			return err
		}
		d.image.Gray = r
		return nil
	}
	for ch := range planes {
		r, err := raster.New(w, h, planes[ch])
		if err != nil {
			return err
		}
		d.image.RGB[ch] = r
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = bufio.NewReader(r)

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	return d.readPayload()
}

// Decode reads a PFM image from r. Trailing bytes after the payload are
// ignored.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the header of a PFM image without reading the
// payload.
func DecodeConfig(r io.Reader) (Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Config{}, err
	}
	return d.config, nil
}

// Sniff reports whether b starts with a PFM identifier line.
func Sniff(b []byte) bool {
	if len(b) < 3 || b[0] != 'P' || (b[1] != 'f' && b[1] != 'F') {
		return false
	}
	switch b[2] {
	case '\n', '\r', ' ', '\t':
		return true
	}
	return false
}
