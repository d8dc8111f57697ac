/*
Package lumimap visualizes luminance rasters. A Session owns one decoded
raster at a time together with its four display encodings, a viewport for
pan and zoom, and the markers the user has placed.
*/
package lumimap

import (
	"context"
	"image"
	"io"
	"sync"

	"github.com/bodgit/lumimap/colormap"
	"github.com/bodgit/lumimap/overlay"
	"github.com/bodgit/lumimap/raster"
	"github.com/bodgit/lumimap/viewport"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slog"
)

// MarkerRadius is how close, in display pixels, a click must land to an
// existing marker to remove it.
const MarkerRadius = 8

var (
	// ErrNoImage is returned by operations that need a loaded raster.
	ErrNoImage = errors.New("lumimap: no image loaded")
	// ErrUnknownEncoding is returned when selecting an encoding that is not
	// available.
	ErrUnknownEncoding = errors.New("lumimap: unknown encoding")
	// ErrNoService is returned when a photograph is loaded without an
	// analysis service to convert it.
	ErrNoService = errors.New("lumimap: no analysis service configured")
)

// Fetcher converts a photograph into raster bytes. *artifact.Client
// satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, name string, photo []byte) ([]byte, string, error)
}

// PhotoDecoder turns reference photograph bytes into an image.
type PhotoDecoder func([]byte) (image.Image, error)

// Session is a single visualization session.
type Session struct {
	logger   *slog.Logger
	defaults Settings
	reg      prometheus.Registerer
	fetcher  Fetcher
	decode   PhotoDecoder
	metrics  *metrics

	// loading serializes Load so a new load waits for one in flight.
	loading sync.Mutex

	mu       sync.Mutex
	settings Settings
	name     string
	raster   *raster.Raster
	photo    image.Image
	buffers  map[colormap.Kind]*image.NRGBA
	selected colormap.Kind

	viewport *viewport.Viewport
	overlay  *overlay.Overlay
}

// Option configures a Session.
type Option func(*Session) error

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		s.logger = logger
		return nil
	}
}

// WithSettings replaces the default settings. Reset returns to these.
func WithSettings(settings Settings) Option {
	return func(s *Session) error {
		if err := settings.Validate(); err != nil {
			return err
		}
		s.defaults = settings
		return nil
	}
}

// WithRegisterer registers the session metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Session) error {
		s.reg = reg
		return nil
	}
}

// WithFetcher sets the analysis service used for photograph inputs.
func WithFetcher(f Fetcher) Option {
	return func(s *Session) error {
		s.fetcher = f
		return nil
	}
}

// WithPhotoDecoder replaces the reference photograph decoder.
func WithPhotoDecoder(fn PhotoDecoder) Option {
	return func(s *Session) error {
		s.decode = fn
		return nil
	}
}

// New returns a Session with an empty display of the given size.
func New(width, height float64, options ...Option) (*Session, error) {
	s := &Session{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaults: DefaultSettings(),
		decode:   DecodePhoto,
		metrics:  newMetrics(),
		selected: colormap.KindLuminance,
		viewport: viewport.New(width, height),
		overlay:  overlay.New(),
	}

	for _, o := range options {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if s.reg != nil {
		if err := s.metrics.register(s.reg); err != nil {
			return nil, err
		}
	}

	s.settings = s.defaults

	s.viewport.Subscribe(func(e viewport.Event) {
		switch e.Type {
		case viewport.Changed:
			s.overlay.Reproject(s.viewport)
		case viewport.Click:
			s.Click(e.At)
		}
	})

	return s, nil
}

// Viewport returns the session viewport. Pointer, wheel and resize input is
// fed to it directly.
func (s *Session) Viewport() *viewport.Viewport {
	return s.viewport
}

// Overlay returns the session markers.
func (s *Session) Overlay() *overlay.Overlay {
	return s.overlay
}

// Settings returns the current parameters.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Name returns the name of the loaded source.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Raster returns the loaded raster or nil.
func (s *Session) Raster() *raster.Raster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raster
}

// Reset discards the loaded raster, its buffers and markers and restores
// the initial settings.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.name = ""
	s.raster = nil
	s.photo = nil
	s.buffers = nil
	s.selected = colormap.KindLuminance
	s.settings = s.defaults

	s.overlay.Clear()
	s.viewport.Unbind()

	s.logger.Debug("session reset")
}

// Selected returns the encoding currently shown.
func (s *Session) Selected() colormap.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select switches the displayed encoding and refreshes marker labels.
func (s *Session) Select(k colormap.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raster == nil {
		return ErrNoImage
	}
	if _, ok := s.buffers[k]; !ok {
		s.logger.Warn("encoding not available", "kind", k.String())
		return errors.Wrapf(ErrUnknownEncoding, "%q", k.String())
	}

	s.selected = k
	s.relabel()

	return nil
}

// Buffer returns the rendered buffer for k.
func (s *Session) Buffer(k colormap.Kind) (*image.NRGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buffers[k]
	return b, ok
}

// SetBaseLuminance changes the contrast reference and re-renders only the
// contrast buffer. An invalid value is rejected and the previous one kept.
func (s *Session) SetBaseLuminance(base float64) error {
	if err := colormap.CheckBaseLuminance(base); err != nil {
		s.logger.Warn("rejected base luminance", "value", base, "err", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Contrast.BaseLuminance = base
	if s.raster == nil {
		return nil
	}

	if err := s.rerender(colormap.KindContrast); err != nil {
		return err
	}
	s.relabel()

	return nil
}

// SetLuminanceRange changes the absolute-luminance log range and re-renders
// the buffers that depend on it.
func (s *Session) SetLuminanceRange(min, max float64) error {
	if _, err := colormap.NewLogScale(min, max); err != nil {
		s.logger.Warn("rejected luminance range", "min", min, "max", max, "err", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Luminance = LuminanceSettings{Min: min, Max: max}
	if s.raster == nil {
		return nil
	}

	kinds := []colormap.Kind{colormap.KindLuminance}
	if s.photo == nil {
		kinds = colormap.Kinds
	}
	for _, k := range kinds {
		if k == colormap.KindContrast {
			continue
		}
		if err := s.rerender(k); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) params() colormap.Params {
	p := s.settings.params()
	p.Photo = s.photo
	return p
}

// rerender replaces a single buffer. Callers hold s.mu.
func (s *Session) rerender(k colormap.Kind) error {
	b, err := s.render(k, s.raster, s.params())
	if err != nil {
		s.logger.Error("unable to render", "kind", k.String(), "err", err)
		return err
	}
	s.buffers[k] = b
	return nil
}
