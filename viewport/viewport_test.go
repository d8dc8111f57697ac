package viewport

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func assertRect(t *testing.T, want, got Rect) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("rect mismatch (-want +got):\n%s", diff)
	}
}

func bound(w, h float64, iw, ih int) *Viewport {
	v := New(w, h)
	v.Bind(iw, ih)
	return v
}

func TestRestingRect(t *testing.T) {
	v := bound(800, 600, 400, 300)
	assertRect(t, Rect{0, 0, 800, 600}, v.Rect())
	assert.Equal(t, 1.0, v.Scale())
	assert.Equal(t, Pt(0.5, 0.5), v.Focus())

	v = bound(800, 600, 400, 400)
	assertRect(t, Rect{100, 0, 600, 600}, v.Rect())
}

func TestUnboundViewport(t *testing.T) {
	v := New(800, 600)
	assert.True(t, v.Rect().Empty())

	v.ScaleAt(4, Pt(400, 300))
	assert.Equal(t, 1.0, v.Scale())

	_, ok := v.DisplayToImage(Pt(1, 1))
	assert.False(t, ok)
	_, ok = v.ImageToDisplay(image.Pt(1, 1))
	assert.False(t, ok)
	_, _, ok = v.Visible()
	assert.False(t, ok)

	v.Bind(10, 10)
	v.Unbind()
	assert.False(t, v.Bound())
	assert.True(t, v.Rect().Empty())
}

func TestComputeScaledRectFocus(t *testing.T) {
	v := New(800, 600)
	r := v.ComputeScaledRect(400, 300, 2, Pt(0.25, 0.75))
	assertRect(t, Rect{X: 400 - 1600*0.25, Y: 300 - 1200*0.75, W: 1600, H: 1200}, r)
	assert.True(t, v.ComputeScaledRect(0, 10, 1, Pt(0.5, 0.5)).Empty())
}

func TestCalibrate(t *testing.T) {
	v := New(800, 600)

	tables := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"gap on left and top", Rect{50, 20, 1600, 1200}, Rect{0, 0, 1600, 1200}},
		{"gap on right and bottom", Rect{-1000, -700, 1600, 1200}, Rect{-800, -600, 1600, 1200}},
		{"covering is untouched", Rect{-300, -200, 1600, 1200}, Rect{-300, -200, 1600, 1200}},
		{"smaller is centered", Rect{0, 0, 400, 300}, Rect{200, 150, 400, 300}},
		{"mixed axes", Rect{-50, 500, 720, 720}, Rect{40, 0, 720, 720}},
		{"exact fit", Rect{10, 0, 800, 600}, Rect{0, 0, 800, 600}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			got := v.Calibrate(table.in)
			assertRect(t, table.want, got)

			if got.W >= 800 {
				assert.LessOrEqual(t, got.X, 0.0)
				assert.GreaterOrEqual(t, got.Right(), 800.0)
			} else {
				assert.InDelta(t, 400, got.Center().X, 1e-9)
			}
			if got.H >= 600 {
				assert.LessOrEqual(t, got.Y, 0.0)
				assert.GreaterOrEqual(t, got.Bottom(), 600.0)
			} else {
				assert.InDelta(t, 300, got.Center().Y, 1e-9)
			}
		})
	}
}

func TestScaleAtKeepsAnchorPixel(t *testing.T) {
	anchors := []Point{{100, 100}, {700, 50}, {400, 300}, {10, 590}, {799, 599}, {0, 0}}

	for _, a := range anchors {
		v := bound(800, 600, 400, 300)
		for _, s := range []float64{2, 3.5, 7, 12.5, 20} {
			before, ok := v.DisplayToImage(a)
			require.True(t, ok)

			v.ScaleAt(s, a)
			require.Equal(t, s, v.Scale())

			after, ok := v.DisplayToImage(a)
			require.True(t, ok)
			assert.InDelta(t, before.X, after.X, 1, "anchor %v scale %v", a, s)
			assert.InDelta(t, before.Y, after.Y, 1, "anchor %v scale %v", a, s)
		}
	}
}

func TestScaleAtZoomOut(t *testing.T) {
	v := bound(800, 600, 400, 300)
	center := Pt(400, 300)

	v.ScaleAt(4, center)
	assertRect(t, Rect{-1200, -900, 3200, 2400}, v.Rect())
	p, _ := v.DisplayToImage(center)
	assert.Equal(t, image.Pt(200, 150), p)

	v.ScaleAt(3, center)
	assertRect(t, Rect{-800, -600, 2400, 1800}, v.Rect())
	p, _ = v.DisplayToImage(center)
	assert.Equal(t, image.Pt(200, 150), p)
}

func TestScaleAtClampsAndResets(t *testing.T) {
	v := bound(800, 600, 400, 300)

	v.ScaleAt(100, Pt(100, 100))
	assert.Equal(t, ScaleMax, v.Scale())

	v.ScaleAt(0.25, Pt(100, 100))
	assert.Equal(t, ScaleMin, v.Scale())
	assert.Equal(t, Pt(0.5, 0.5), v.Focus())
	assertRect(t, Rect{0, 0, 800, 600}, v.Rect())
}

func TestScaleAtOutsideRectIsNoop(t *testing.T) {
	v := bound(800, 600, 400, 400)
	var events int
	v.Subscribe(func(Event) { events++ })

	v.ScaleAt(2, Pt(50, 300))
	assert.Equal(t, 1.0, v.Scale())
	assert.Equal(t, 0, events)
}

func TestScaleAtCentersSmallAxis(t *testing.T) {
	v := bound(800, 600, 400, 400)

	v.ScaleAt(1.2, Pt(400, 300))
	assertRect(t, Rect{40, -60, 720, 720}, v.Rect())
	assert.InDelta(t, 0.5, v.Focus().X, 1e-9)
	assert.InDelta(t, 0.5, v.Focus().Y, 1e-9)
}

func TestScaleAtOffCenterOnNarrowAxis(t *testing.T) {
	tables := []struct {
		name   string
		anchor Point
	}{
		{"left of center", Pt(150, 300)},
		{"right of center", Pt(650, 120)},
		{"near top", Pt(300, 10)},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			v := bound(800, 600, 400, 400)
			before, ok := v.DisplayToImage(table.anchor)
			require.True(t, ok)

			v.ScaleAt(1.2, table.anchor)
			require.Equal(t, 1.2, v.Scale())

			// 720x720: the height covers the display and keeps the anchor
			// pixel, the width does not and is centered instead.
			r := v.Rect()
			assert.InDelta(t, 720, r.W, 1e-9)
			assert.InDelta(t, 400, r.Center().X, 1e-9)
			assert.LessOrEqual(t, r.Y, 0.0)
			assert.GreaterOrEqual(t, r.Bottom(), 600.0)

			after, ok := v.DisplayToImage(table.anchor)
			require.True(t, ok)
			assert.InDelta(t, before.Y, after.Y, 1)
		})
	}

	v := bound(800, 600, 400, 400)
	v.ScaleAt(1.2, Pt(150, 300))
	assertRect(t, Rect{40, -60, 720, 720}, v.Rect())
	p, _ := v.DisplayToImage(Pt(150, 300))
	assert.Equal(t, image.Pt(61, 200), p)
}

func TestWheel(t *testing.T) {
	v := bound(800, 600, 400, 300)

	v.Wheel(-120, Pt(400, 300))
	assert.Equal(t, 1.5, v.Scale())
	v.Wheel(-120, Pt(400, 300))
	assert.Equal(t, 2.0, v.Scale())
	v.Wheel(120, Pt(400, 300))
	v.Wheel(120, Pt(400, 300))
	assert.Equal(t, 1.0, v.Scale())
	assertRect(t, Rect{0, 0, 800, 600}, v.Rect())
}

func TestDragPansAndCalibrates(t *testing.T) {
	v := bound(800, 600, 400, 300)
	v.ScaleAt(2, Pt(400, 300))
	assertRect(t, Rect{-400, -300, 1600, 1200}, v.Rect())

	var types []EventType
	v.Subscribe(func(e Event) { types = append(types, e.Type) })

	v.PointerDown(Pt(100, 100))
	assert.True(t, v.Dragging())

	v.PointerMove(Pt(150, 130))
	assertRect(t, Rect{-350, -270, 1600, 1200}, v.Rect())
	assert.InDelta(t, 0.46875, v.Focus().X, 1e-9)
	assert.InDelta(t, 0.475, v.Focus().Y, 1e-9)
	assert.Equal(t, 2.0, v.Scale())

	v.PointerMove(Pt(1000, 1000))
	assertRect(t, Rect{0, 0, 1600, 1200}, v.Rect())

	v.PointerMove(Pt(-2000, -2000))
	assertRect(t, Rect{-800, -600, 1600, 1200}, v.Rect())

	v.PointerUp(Pt(-2000, -2000))
	assert.False(t, v.Dragging())
	assert.Equal(t, []EventType{PointerDown, Changed, Changed, Changed}, types)

	// Moves after release are ignored.
	v.PointerMove(Pt(0, 0))
	assertRect(t, Rect{-800, -600, 1600, 1200}, v.Rect())
}

func TestDragAtRestingScaleCannotMove(t *testing.T) {
	v := bound(800, 600, 400, 300)
	v.PointerDown(Pt(0, 0))
	v.PointerMove(Pt(50, -40))
	v.PointerUp(Pt(50, -40))
	assertRect(t, Rect{0, 0, 800, 600}, v.Rect())
}

func TestClickWithoutMovement(t *testing.T) {
	v := bound(800, 600, 400, 300)

	var clicks []Point
	h := v.Subscribe(func(e Event) {
		if e.Type == Click {
			clicks = append(clicks, e.At)
		}
	})

	v.PointerDown(Pt(10, 20))
	v.PointerUp(Pt(10, 20))
	assert.Equal(t, []Point{{10, 20}}, clicks)

	v.PointerDown(Pt(10, 20))
	v.PointerMove(Pt(11, 20))
	v.PointerUp(Pt(11, 20))
	assert.Len(t, clicks, 1)

	v.PointerUp(Pt(11, 20))
	assert.Len(t, clicks, 1)

	assert.True(t, v.Unsubscribe(h))
	v.PointerDown(Pt(5, 5))
	v.PointerUp(Pt(5, 5))
	assert.Len(t, clicks, 1)
}

func TestPointerDownOutsideDisplay(t *testing.T) {
	v := bound(800, 600, 400, 300)
	v.ScaleAt(2, Pt(400, 300))

	var events int
	v.Subscribe(func(Event) { events++ })

	for _, p := range []Point{{-1, 10}, {10, 601}, {801, 300}} {
		v.PointerDown(p)
		assert.False(t, v.Dragging())

		v.PointerMove(Pt(p.X+50, p.Y+50))
		v.PointerUp(p)
	}
	assert.Equal(t, 0, events)
	assertRect(t, Rect{-400, -300, 1600, 1200}, v.Rect())

	v.PointerDown(Pt(800, 600))
	assert.True(t, v.Dragging())
}

func TestSetDisplaySizeKeepsFocus(t *testing.T) {
	v := bound(800, 600, 400, 300)
	v.ScaleAt(2, Pt(400, 300))
	v.PanBy(50, 30)
	assertRect(t, Rect{-350, -270, 1600, 1200}, v.Rect())

	v.SetDisplaySize(800, 600)
	assertRect(t, Rect{-350, -270, 1600, 1200}, v.Rect())

	v.SetDisplaySize(400, 300)
	assertRect(t, Rect{-175, -135, 800, 600}, v.Rect())
}

func TestImageDisplayRoundTrip(t *testing.T) {
	v := bound(800, 600, 400, 300)

	d, ok := v.ImageToDisplay(image.Pt(10, 20))
	require.True(t, ok)
	assert.Equal(t, Pt(21, 41), d)

	p, ok := v.DisplayToImage(d)
	require.True(t, ok)
	assert.Equal(t, image.Pt(10, 20), p)

	p, _ = v.DisplayToImage(Pt(-1, 0))
	assert.Equal(t, image.Pt(-1, 0), p)

	v.ScaleAt(7, Pt(123, 456))
	for _, ip := range []image.Point{{0, 0}, {399, 299}, {200, 100}} {
		d, _ := v.ImageToDisplay(ip)
		back, _ := v.DisplayToImage(d)
		assert.Equal(t, ip, back)
	}
}

func TestVisible(t *testing.T) {
	v := bound(800, 600, 400, 300)

	src, dst, ok := v.Visible()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 400, 300), src)
	assertRect(t, Rect{0, 0, 800, 600}, dst)

	v.ScaleAt(2, Pt(400, 300))
	src, dst, ok = v.Visible()
	require.True(t, ok)
	assert.Equal(t, image.Rect(100, 75, 300, 225), src)
	assertRect(t, Rect{0, 0, 800, 600}, dst)

	v = bound(800, 600, 400, 400)
	src, dst, ok = v.Visible()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 400, 400), src)
	assertRect(t, Rect{100, 0, 600, 600}, dst)
}
