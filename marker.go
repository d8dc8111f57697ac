package lumimap

import (
	"fmt"
	"image"

	"github.com/bodgit/lumimap/colormap"
	"github.com/bodgit/lumimap/overlay"
	"github.com/bodgit/lumimap/raster"
	"github.com/bodgit/lumimap/viewport"
	"github.com/pkg/errors"
)

// Label formats sample v for display under encoding k. Only the luminance
// and contrast encodings show labels.
func Label(k colormap.Kind, v float32, base float64) (string, bool) {
	switch {
	case k != colormap.KindLuminance && k != colormap.KindContrast:
		return "", false
	case v >= raster.Overflow:
		return "+overflow", true
	case v <= raster.Underflow:
		return "-overflow", true
	case k == colormap.KindContrast:
		return fmt.Sprintf("%.2f", float64(v)/base), true
	}
	return fmt.Sprintf("%.2f", v), true
}

func (s *Session) label(m overlay.Marker) (string, bool) {
	return Label(s.selected, s.raster.At(m.Image.X, m.Image.Y), s.settings.Contrast.BaseLuminance)
}

// relabel refreshes every marker label. Callers hold s.mu.
func (s *Session) relabel() {
	if s.raster == nil {
		return
	}
	s.overlay.Relabel(s.label)
}

// Click removes the marker under p, or places a new marker on the pixel
// under p. Clicks off the image are ignored.
func (s *Session) Click(p viewport.Point) (overlay.Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raster == nil {
		return overlay.Marker{}, false
	}

	if m, ok := s.overlay.HitTest(p, MarkerRadius); ok {
		s.overlay.Remove(m.ID)
		s.logger.Debug("marker removed", "x", m.Image.X, "y", m.Image.Y)
		return overlay.Marker{}, false
	}

	ip, ok := s.viewport.DisplayToImage(p)
	if !ok || !s.raster.In(ip) {
		return overlay.Marker{}, false
	}

	return s.addMarker(ip), true
}

// AddMarker pins a marker to image pixel p.
func (s *Session) AddMarker(p image.Point) (overlay.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raster == nil {
		return overlay.Marker{}, ErrNoImage
	}
	if !s.raster.In(p) {
		return overlay.Marker{}, errors.Errorf("lumimap: %v outside image", p)
	}

	return s.addMarker(p), nil
}

func (s *Session) addMarker(p image.Point) overlay.Marker {
	m := s.overlay.Add(p, s.viewport)
	label, visible := s.label(m)
	s.overlay.SetLabel(m.ID, label, visible)
	m, _ = s.overlay.Get(m.ID)

	s.logger.Debug("marker added", "x", p.X, "y", p.Y, "label", label)

	return m
}
