package colormap

import (
	"image"

	"github.com/bodgit/lumimap/raster"
	"github.com/pkg/errors"
)

// Kind selects one of the display encodings.
type Kind int

// Encodings, in display order.
const (
	KindPicture Kind = iota + 1
	KindLuminance
	KindContrast
	KindOverflow
)

// Kinds lists every encoding in display order.
var Kinds = []Kind{KindPicture, KindLuminance, KindContrast, KindOverflow}

var kindNames = map[Kind][2]string{
	KindPicture:   {"picture", "Reference photograph"},
	KindLuminance: {"lm", "Luminance"},
	KindContrast:  {"lmc", "Luminance ratio"},
	KindOverflow:  {"cof", "Measurement overflow"},
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n[0]
	}
	return "unknown"
}

// Title returns a human readable name.
func (k Kind) Title() string {
	if n, ok := kindNames[k]; ok {
		return n[1]
	}
	return "Unknown"
}

// Valid reports whether k is one of the defined encodings.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("colormap: unknown encoding %q", s)
}

// Params carries the inputs shared by all encodings.
type Params struct {
	Min, Max      float64
	BaseLuminance float64
	// Photo is the reference photograph. When nil a grayscale tone-map of
	// the raster is used instead.
	Photo image.Image
}

type renderFunc func(r *raster.Raster, p Params) (*image.NRGBA, error)

var renderers = map[Kind]renderFunc{
	KindPicture:   renderPicture,
	KindLuminance: renderLuminance,
	KindContrast:  renderContrast,
	KindOverflow:  renderOverflow,
}

func picture(r *raster.Raster, p Params) (image.Image, error) {
	if p.Photo != nil {
		return p.Photo, nil
	}
	return Grayscale(r, p.Min, p.Max)
}

func renderPicture(r *raster.Raster, p Params) (*image.NRGBA, error) {
	photo, err := picture(r, p)
	if err != nil {
		return nil, err
	}
	return Composite(photo, image.NewNRGBA(r.Bounds())), nil
}

func renderLuminance(r *raster.Raster, p Params) (*image.NRGBA, error) {
	photo, err := picture(r, p)
	if err != nil {
		return nil, err
	}
	lm, err := Luminance(r, p.Min, p.Max)
	if err != nil {
		return nil, err
	}
	return Composite(photo, lm), nil
}

func renderContrast(r *raster.Raster, p Params) (*image.NRGBA, error) {
	return Contrast(r, p.BaseLuminance)
}

func renderOverflow(r *raster.Raster, p Params) (*image.NRGBA, error) {
	photo, err := picture(r, p)
	if err != nil {
		return nil, err
	}
	return Composite(photo, Overflow(r)), nil
}

// Render produces the display buffer for kind k: the luminance and overflow
// maps are composited over the photograph, the ratio map is shown bare.
func Render(k Kind, r *raster.Raster, p Params) (*image.NRGBA, error) {
	fn, ok := renderers[k]
	if !ok {
		return nil, errors.Errorf("colormap: unknown encoding %d", int(k))
	}
	return fn(r, p)
}
