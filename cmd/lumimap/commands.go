package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/bodgit/lumimap/colormap"
	"github.com/bodgit/lumimap/display"
	"github.com/bodgit/lumimap/export"
	"github.com/bodgit/lumimap/pfm"
	"github.com/bodgit/lumimap/raster"
	"github.com/bodgit/lumimap/viewport"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func parsePoint(s string) (image.Point, error) {
	var p image.Point
	if _, err := fmt.Sscanf(s, "%d,%d", &p.X, &p.Y); err != nil {
		return p, errors.Wrapf(err, "invalid point %q", s)
	}
	return p, nil
}

func regionMask(r *raster.Raster, s string) ([]bool, error) {
	if s == "" {
		return nil, nil
	}

	var rect image.Rectangle
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &rect.Min.X, &rect.Min.Y, &rect.Max.X, &rect.Max.Y); err != nil {
		return nil, errors.Wrapf(err, "invalid region %q", s)
	}
	rect = rect.Canon().Intersect(r.Bounds())

	mask := make([]bool, r.Len())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			mask[y*r.Width()+x] = true
		}
	}
	return mask, nil
}

func probe(w io.Writer, file, region string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	m, err := pfm.Decode(bytes.NewReader(b))
	if err != nil {
		return err
	}

	order := "big-endian"
	if m.ByteOrder == binary.LittleEndian {
		order = "little-endian"
	}

	fmt.Fprintf(w, "Size:       %dx%d\n", m.Width, m.Height)
	fmt.Fprintf(w, "Channels:   %d\n", m.Channels)
	fmt.Fprintf(w, "Scale:      %g\n", m.Scale)
	fmt.Fprintf(w, "Byte order: %s\n", order)

	r := m.Luminance()
	if r == nil {
		return nil
	}

	mask, err := regionMask(r, region)
	if err != nil {
		return err
	}

	st, err := r.Stats(mask)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Samples:    %d\n", st.Count)
	fmt.Fprintf(w, "Min:        %.2f\n", st.Min)
	fmt.Fprintf(w, "Max:        %.2f\n", st.Max)
	fmt.Fprintf(w, "Mean:       %.2f\n", st.Mean)
	fmt.Fprintf(w, "Overflow:   %d\n", st.Overflow)
	fmt.Fprintf(w, "Underflow:  %d\n", st.Underflow)

	return nil
}

func view(c *cli.Context) error {
	width, height := c.Int("width"), c.Int("height")
	out := c.Args().Get(1)

	f, err := format(c, out)
	if err != nil {
		return err
	}

	k, err := colormap.ParseKind(c.String("kind"))
	if err != nil {
		return err
	}

	s, err := newSession(c, float64(width), float64(height))
	if err != nil {
		return err
	}

	if err := s.LoadFile(context.Background(), c.Args().First()); err != nil {
		return err
	}
	if err := s.Select(k); err != nil {
		return err
	}

	v := s.Viewport()

	anchor := viewport.Pt(float64(width)/2, float64(height)/2)
	if x := c.Float64("anchor-x"); x >= 0 {
		anchor.X = x
	}
	if y := c.Float64("anchor-y"); y >= 0 {
		anchor.Y = y
	}
	v.ScaleAt(c.Float64("zoom"), anchor)

	if dx, dy := c.Float64("pan-x"), c.Float64("pan-y"); dx != 0 || dy != 0 {
		v.PanBy(dx, dy)
	}

	for _, arg := range c.StringSlice("marker") {
		p, err := parsePoint(arg)
		if err != nil {
			return err
		}
		m, err := s.AddMarker(p)
		if err != nil {
			return err
		}
		state := "visible"
		if !m.Visible {
			state = "hidden"
		}
		if m.LabelVisible {
			fmt.Fprintf(c.App.Writer, "%d,%d %s (%s)\n", p.X, p.Y, m.Label, state)
		} else {
			fmt.Fprintf(c.App.Writer, "%d,%d (%s)\n", p.X, p.Y, state)
		}
	}

	canvas := display.NewCanvas(width, height)
	s.Draw(canvas)

	return export.WriteFile(out, canvas.Image(), f)
}
