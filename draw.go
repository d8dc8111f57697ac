package lumimap

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/bodgit/lumimap/colormap"
	"github.com/bodgit/lumimap/display"
)

// LegendSteps is the number of log intervals on the luminance legend.
const LegendSteps = 5

// Draw presents the selected encoding on surface through the viewport. The
// surface is always cleared; with nothing loaded it is left blank.
func (s *Session) Draw(surface display.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()

	surface.Clear()

	b, ok := s.buffers[s.selected]
	if !ok {
		return
	}
	if sr, dr, ok := s.viewport.Visible(); ok {
		surface.Blit(b, sr, dr)
	}
}

// Tick is one labelled legend position.
type Tick struct {
	Value float64
	Label string
	Color color.NRGBA
}

// Legend describes the scale bar for an encoding, ordered bottom to top.
type Legend struct {
	Kind  colormap.Kind
	Ticks []Tick
	// Bands is only set for the contrast encoding.
	Bands []colormap.Band
}

// FormatTick prints a luminance tick with just enough decimals to show its
// leading digit.
func FormatTick(v float64) string {
	prec := 0
	if v < 1 && v > 0 {
		prec = int(math.Ceil(-math.Log10(v) - 1e-9))
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// NewLegend returns the legend for k. The photograph and overflow encodings
// have none.
func NewLegend(k colormap.Kind, settings Settings) (Legend, bool) {
	switch k {
	case colormap.KindLuminance:
		scale, err := colormap.NewLogScale(settings.Luminance.Min, settings.Luminance.Max)
		if err != nil {
			return Legend{}, false
		}
		l := Legend{Kind: k}
		for i, v := range scale.Ticks(LegendSteps) {
			l.Ticks = append(l.Ticks, Tick{
				Value: v,
				Label: FormatTick(v),
				Color: colormap.Ramp(float64(i) / LegendSteps),
			})
		}
		return l, true
	case colormap.KindContrast:
		l := Legend{Kind: k}
		for i := len(colormap.Bands) - 1; i >= 0; i-- {
			b := colormap.Bands[i]
			l.Bands = append(l.Bands, b)
			l.Ticks = append(l.Ticks, Tick{Value: b.Threshold, Label: b.Label, Color: b.Color})
		}
		l.Ticks = append(l.Ticks, Tick{Value: math.Inf(1), Label: "∞"})
		return l, true
	}
	return Legend{}, false
}

// Legend returns the legend for the selected encoding.
func (s *Session) Legend() (Legend, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewLegend(s.selected, s.settings)
}

// Image renders the legend as a vertical bar with the low end at the
// bottom.
func (l Legend) Image(width, height int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	if height <= 0 {
		return m
	}
	for y := 0; y < height; y++ {
		pos := 1 - (float64(y)+0.5)/float64(height)

		var c color.NRGBA
		if len(l.Bands) > 0 {
			i := int(pos * float64(len(l.Bands)))
			if i >= len(l.Bands) {
				i = len(l.Bands) - 1
			}
			c = l.Bands[i].Color
		} else {
			c = colormap.Ramp(pos)
		}

		for x := 0; x < width; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}
