package lumimap

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"  // register GIF photographs
	_ "image/jpeg" // register JPEG photographs
	_ "image/png"  // register PNG photographs
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/lumimap/colormap"
	"github.com/bodgit/lumimap/pfm"
	"github.com/bodgit/lumimap/raster"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // register BMP photographs
	_ "golang.org/x/image/tiff" // register TIFF photographs
	"golang.org/x/sync/errgroup"
)

// Content types that identify a raster upload.
var rasterTypes = []string{
	"image/x-portable-floatmap",
	"image/x-pfm",
}

// Source is one load request.
type Source struct {
	// Name is the file name, used for type detection and logging.
	Name string
	// ContentType is optional and only used for type detection.
	ContentType string
	// Data is either a raster or a photograph for the analysis service.
	Data []byte
	// Photo optionally supplies the reference photograph for a raster
	// input. Photograph inputs are their own reference.
	Photo []byte
}

// IsRaster reports whether src is decoded directly rather than sent to the
// analysis service.
func (src Source) IsRaster() bool {
	for _, t := range rasterTypes {
		if src.ContentType == t {
			return true
		}
	}
	return strings.Contains(strings.ToLower(src.Name), pfm.Extension) || pfm.Sniff(src.Data)
}

// DecodePhoto decodes any registered image format.
func DecodePhoto(b []byte) (image.Image, error) {
	m, _, err := image.Decode(bytes.NewReader(b))
	return m, err
}

func decodeRaster(b []byte) (*raster.Raster, error) {
	m, err := pfm.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if m.Color() {
		return nil, errors.Wrap(pfm.ErrUnsupportedFormat, "color rasters cannot be visualized")
	}
	return m.Luminance(), nil
}

// fetch resolves src to raster bytes and optional photograph bytes.
func (s *Session) fetch(ctx context.Context, src Source) ([]byte, []byte, error) {
	if src.IsRaster() {
		return src.Data, src.Photo, nil
	}
	if s.fetcher == nil {
		return nil, nil, ErrNoService
	}

	b, entry, err := s.fetcher.Fetch(ctx, src.Name, src.Data)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("fetched raster", "source", src.Name, "entry", entry, "bytes", len(b))

	return b, src.Data, nil
}

func (s *Session) render(k colormap.Kind, r *raster.Raster, p colormap.Params) (*image.NRGBA, error) {
	defer s.metrics.observe(k, time.Now())
	return colormap.Render(k, r, p)
}

// renderAll builds every encoding concurrently. The passes share no mutable
// state and their order does not matter.
func (s *Session) renderAll(ctx context.Context, r *raster.Raster, p colormap.Params) (map[colormap.Kind]*image.NRGBA, error) {
	out := make([]*image.NRGBA, len(colormap.Kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, k := range colormap.Kinds {
		i, k := i, k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := s.render(k, r, p)
			if err != nil {
				return errors.Wrapf(err, "unable to render %s", k)
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buffers := make(map[colormap.Kind]*image.NRGBA, len(out))
	for i, k := range colormap.Kinds {
		buffers[k] = out[i]
	}
	return buffers, nil
}

// Load decodes src, renders every encoding and replaces the session
// contents. On any failure the previous contents are left untouched.
func (s *Session) Load(ctx context.Context, src Source) (err error) {
	s.loading.Lock()
	defer s.loading.Unlock()

	defer func() {
		s.metrics.load(err)
		if err != nil {
			s.logger.Error("load failed", "source", src.Name, "err", err)
		}
	}()

	rb, pb, err := s.fetch(ctx, src)
	if err != nil {
		return err
	}

	r, err := decodeRaster(rb)
	if err != nil {
		return err
	}

	var photo image.Image
	if pb != nil {
		if photo, err = s.decode(pb); err != nil {
			return errors.Wrap(err, "unable to decode photograph")
		}
	}

	s.mu.Lock()
	p := s.settings.params()
	s.mu.Unlock()
	p.Photo = photo

	buffers, err := s.renderAll(ctx, r, p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.name = src.Name
	s.raster = r
	s.photo = photo
	s.buffers = buffers
	s.selected = colormap.KindLuminance

	s.overlay.Clear()
	s.viewport.Bind(r.Width(), r.Height())

	s.logger.Info("loaded", "source", src.Name, "width", r.Width(), "height", r.Height(), "photo", photo != nil)

	return nil
}

// LoadFile loads a raster or photograph from disk. A photograph with the
// same base name as a raster file, such as lum.jpg beside lum.pfm, is used
// as its reference.
func (s *Session) LoadFile(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		s.metrics.load(err)
		s.logger.Error("load failed", "source", path, "err", err)
		return err
	}

	src := Source{Name: filepath.Base(path), Data: b}
	if src.IsRaster() {
		src.Photo = findPhoto(path)
	}

	return s.Load(ctx, src)
}

var photoExts = []string{".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp"}

func findPhoto(path string) []byte {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range photoExts {
		if b, err := os.ReadFile(base + ext); err == nil {
			return b
		}
	}
	return nil
}
