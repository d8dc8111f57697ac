package lumimap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/lumimap/colormap"
	"github.com/bodgit/lumimap/export"
	"github.com/bodgit/lumimap/pfm"
	"github.com/pkg/errors"
)

// DefaultWorkers is the size of the RenderTree worker pool.
const DefaultWorkers = 10

// OutputName returns the file name RenderFile uses for encoding k of the
// raster at path.
func OutputName(path string, k colormap.Kind, f export.Format) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return base + "_" + k.String() + f.Ext()
}

// RenderFile renders every encoding of the raster at path into outDir
// using the current settings. Session contents are not touched.
func (s *Session) RenderFile(ctx context.Context, path, outDir string, f export.Format) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	r, err := decodeRaster(b)
	if err != nil {
		return err
	}

	p := s.Settings().params()
	if pb := findPhoto(path); pb != nil {
		if p.Photo, err = s.decode(pb); err != nil {
			return err
		}
	}

	buffers, err := s.renderAll(ctx, r, p)
	if err != nil {
		return err
	}

	for _, k := range colormap.Kinds {
		if err := export.WriteFile(filepath.Join(outDir, OutputName(path, k, f)), buffers[k], f); err != nil {
			return err
		}
	}

	s.logger.Info("rendered", "source", path, "format", f.String())

	return nil
}

func hidden(info os.FileInfo) bool {
	return info.Name()[0] == '.'
}

func findRasters(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Skip hidden files and directories
			if hidden(info) && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), pfm.Extension) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (s *Session) renderWorker(ctx context.Context, in <-chan string, f export.Format) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := s.RenderFile(ctx, file, filepath.Dir(file), f); err != nil {
				s.logger.Error("render failed", "source", file, "err", err)
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			cancel()
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// RenderTree walks path and renders every raster file found beside itself
// with a pool of workers. The first error stops the walk.
func (s *Session) RenderTree(path string, f export.Format, workers int) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if workers < 1 {
		workers = DefaultWorkers
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := findRasters(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := s.renderWorker(ctx, files, f)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
