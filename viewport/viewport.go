/*
Package viewport maps between image space and display space for an image
shown inside a fixed-size display surface under pan and zoom.

The image is drawn into a rectangle computed from a fit-to-display base
factor, a user scale in [ScaleMin, ScaleMax] and a focus point, the
normalized image location held at the display center. After every change the
rectangle is calibrated per axis: larger than the display it may not leave a
gap at either edge, smaller it is centered.
*/
package viewport

import (
	"image"
	"math"

	"github.com/bodgit/lumimap/internal/notify"
)

// Scale bounds and the change applied per wheel tick.
const (
	ScaleMin  = 1.0
	ScaleMax  = 20.0
	WheelStep = 0.5
)

// EventType distinguishes viewport notifications.
type EventType int

const (
	// Changed follows any pan, zoom, resize, bind or reset.
	Changed EventType = iota + 1
	// PointerDown is sent when a drag starts.
	PointerDown
	// Click is sent on pointer-up without any pointer movement.
	Click
)

// Event is delivered to subscribers. At is the pointer location for
// PointerDown and Click.
type Event struct {
	Type EventType
	At   Point
}

type state int

const (
	idle state = iota
	dragging
)

// Viewport is the transform engine. It is driven synchronously by input
// events and is not safe for concurrent use.
type Viewport struct {
	width, height float64

	bound         bool
	imageW, imageH int

	scale float64
	focus Point
	rect  Rect

	state      state
	down       Point
	dragOrigin Point

	events notify.Hub[Event]
}

// New returns an unbound viewport for a display of the given size.
func New(width, height float64) *Viewport {
	return &Viewport{
		width:  width,
		height: height,
		scale:  ScaleMin,
		focus:  Point{X: 0.5, Y: 0.5},
	}
}

// Subscribe registers fn for viewport events.
func (v *Viewport) Subscribe(fn func(Event)) notify.Handle {
	return v.events.Subscribe(fn)
}

// Unsubscribe removes a subscription.
func (v *Viewport) Unsubscribe(h notify.Handle) bool {
	return v.events.Unsubscribe(h)
}

func (v *Viewport) changed() {
	v.events.Emit(Event{Type: Changed})
}

// DisplaySize returns the display dimensions.
func (v *Viewport) DisplaySize() (float64, float64) { return v.width, v.height }

// ImageSize returns the bound image dimensions, or zeros when unbound.
func (v *Viewport) ImageSize() (int, int) { return v.imageW, v.imageH }

// Bound reports whether an image is bound.
func (v *Viewport) Bound() bool { return v.bound }

// Scale returns the current user scale.
func (v *Viewport) Scale() float64 { return v.scale }

// Focus returns the normalized image point at the display center.
func (v *Viewport) Focus() Point { return v.focus }

// Rect returns where the image is drawn in display space.
func (v *Viewport) Rect() Rect { return v.rect }

// Dragging reports whether a pointer drag is in progress.
func (v *Viewport) Dragging() bool { return v.state == dragging }

// SetDisplaySize updates the display dimensions and, with an image bound,
// recomputes the rectangle from the current scale and focus.
func (v *Viewport) SetDisplaySize(width, height float64) {
	v.width, v.height = width, height
	if !v.bound {
		return
	}
	v.rect = v.Calibrate(v.ComputeScaledRect(v.imageW, v.imageH, v.scale, v.focus))
	v.changed()
}

// Bind attaches an image of the given dimensions and resets the view.
func (v *Viewport) Bind(width, height int) {
	v.bound = width > 0 && height > 0
	v.imageW, v.imageH = width, height
	if !v.bound {
		v.imageW, v.imageH = 0, 0
	}
	v.state = idle
	v.Reset()
}

// Unbind detaches the image and resets the view.
func (v *Viewport) Unbind() {
	v.Bind(0, 0)
}

// Reset returns to the resting position: scale 1 with the image centered.
func (v *Viewport) Reset() {
	v.scale = ScaleMin
	v.focus = Point{X: 0.5, Y: 0.5}
	v.rect = Rect{}
	if v.bound {
		v.rect = v.ComputeScaledRect(v.imageW, v.imageH, v.scale, v.focus)
	}
	v.changed()
}

// ComputeScaledRect sizes an imageW by imageH image at scale relative to the
// fit-to-display factor and positions it so the normalized image point focus
// lands on the display center.
func (v *Viewport) ComputeScaledRect(imageW, imageH int, scale float64, focus Point) Rect {
	if imageW <= 0 || imageH <= 0 {
		return Rect{}
	}
	base := math.Min(v.width/float64(imageW), v.height/float64(imageH))
	s := base * scale

	w, h := float64(imageW)*s, float64(imageH)*s
	return Rect{
		X: v.width/2 - w*focus.X,
		Y: v.height/2 - h*focus.Y,
		W: w,
		H: h,
	}
}

func calibrateAxis(pos, size, display float64) float64 {
	if display <= math.Round(size) {
		switch {
		case pos > 0:
			return 0
		case pos+size < display:
			return display - size
		}
		return pos
	}
	return display/2 - size/2
}

// Calibrate returns r moved so that on each axis it either covers the display
// without a gap or, when smaller than the display, is centered.
func (v *Viewport) Calibrate(r Rect) Rect {
	r.X = calibrateAxis(r.X, r.W, v.width)
	r.Y = calibrateAxis(r.Y, r.H, v.height)
	return r
}

func (v *Viewport) focusOf(r Rect) Point {
	if r.W == 0 || r.H == 0 {
		return Point{X: 0.5, Y: 0.5}
	}
	return Point{
		X: (v.width/2 - r.X) / r.W,
		Y: (v.height/2 - r.Y) / r.H,
	}
}

// PanBy moves the rectangle by (dx, dy) from the drag-start position, or
// from the current position when no drag is in progress, then calibrates.
func (v *Viewport) PanBy(dx, dy float64) {
	if !v.bound {
		return
	}
	origin := v.rect.Origin()
	if v.state == dragging {
		origin = v.dragOrigin
	}
	v.rect = v.Calibrate(v.rect.Moved(Point{X: origin.X + dx, Y: origin.Y + dy}))
	v.focus = v.focusOf(v.rect)
	v.changed()
}

// ScaleAt zooms to scale keeping the image pixel under anchor in place. It
// does nothing when no image is bound or anchor is outside the image
// rectangle. Reaching ScaleMin returns to the resting position. On an axis
// where the zoomed image is narrower than the display it is centered, so the
// anchor only stays put along axes the image covers.
func (v *Viewport) ScaleAt(scale float64, anchor Point) {
	if !v.bound || v.rect.W == 0 || v.rect.H == 0 || !v.rect.Contains(anchor) {
		return
	}

	scale = math.Max(ScaleMin, math.Min(scale, ScaleMax))
	if scale == ScaleMin {
		v.Reset()
		return
	}

	ratio := Point{
		X: (anchor.X - v.rect.X) / v.rect.W,
		Y: (anchor.Y - v.rect.Y) / v.rect.H,
	}

	r := v.ComputeScaledRect(v.imageW, v.imageH, scale, v.focus)
	r = v.Calibrate(r.Moved(Point{
		X: anchor.X - r.W*ratio.X,
		Y: anchor.Y - r.H*ratio.Y,
	}))

	v.rect = r
	v.scale = scale
	v.focus = v.focusOf(r)
	v.changed()
}

// Wheel applies one wheel tick at the pointer location. Negative deltaY
// zooms in.
func (v *Viewport) Wheel(deltaY float64, at Point) {
	if deltaY < 0 {
		v.ScaleAt(v.scale+WheelStep, at)
		return
	}
	v.ScaleAt(v.scale-WheelStep, at)
}

// PointerDown starts a drag at p. Presses outside the display are ignored.
func (v *Viewport) PointerDown(p Point) {
	if !v.InDisplay(p) {
		return
	}
	v.state = dragging
	v.down = p
	v.dragOrigin = v.rect.Origin()
	v.events.Emit(Event{Type: PointerDown, At: p})
}

// PointerMove pans while dragging.
func (v *Viewport) PointerMove(p Point) {
	if v.state != dragging {
		return
	}
	v.PanBy(p.X-v.down.X, p.Y-v.down.Y)
}

// PointerUp ends a drag. If the pointer did not move since PointerDown a
// Click event is emitted at p.
func (v *Viewport) PointerUp(p Point) {
	if v.state != dragging {
		return
	}
	v.state = idle
	if p == v.down {
		v.events.Emit(Event{Type: Click, At: p})
	}
}

// ImageToDisplay returns the display location of the center of image pixel
// p.
func (v *Viewport) ImageToDisplay(p image.Point) (Point, bool) {
	if !v.bound {
		return Point{}, false
	}
	return Point{
		X: v.rect.X + v.rect.W*(float64(p.X)+0.5)/float64(v.imageW),
		Y: v.rect.Y + v.rect.H*(float64(p.Y)+0.5)/float64(v.imageH),
	}, true
}

// DisplayToImage returns the image pixel containing display location p. The
// result may lie outside the image; callers check it against the bounds.
func (v *Viewport) DisplayToImage(p Point) (image.Point, bool) {
	if !v.bound || v.rect.W == 0 || v.rect.H == 0 {
		return image.Point{}, false
	}
	return image.Point{
		X: int(math.Floor((p.X - v.rect.X) / v.rect.W * float64(v.imageW))),
		Y: int(math.Floor((p.Y - v.rect.Y) / v.rect.H * float64(v.imageH))),
	}, true
}

// InDisplay reports whether p lies on the display surface, edges included.
func (v *Viewport) InDisplay(p Point) bool {
	return Rect{W: v.width, H: v.height}.Contains(p)
}
