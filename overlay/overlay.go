/*
Package overlay holds the user-placed markers drawn on top of a raster. Each
marker is pinned to an image pixel; its display location is derived from that
pixel through a Projector whenever the view changes.
*/
package overlay

import (
	"image"
	"math"

	"github.com/bodgit/lumimap/internal/notify"
	"github.com/bodgit/lumimap/viewport"
)

// ID identifies a marker for the lifetime of an Overlay.
type ID uint64

// Marker is a single annotation.
type Marker struct {
	ID ID
	// Image is the pinned pixel. It never changes after Add.
	Image image.Point
	// Display is the last projected location.
	Display viewport.Point
	// Visible is false when Display falls outside the display surface.
	Visible bool

	Label        string
	LabelVisible bool
}

// Projector maps image pixels onto the display. *viewport.Viewport
// satisfies it.
type Projector interface {
	ImageToDisplay(image.Point) (viewport.Point, bool)
	InDisplay(viewport.Point) bool
}

// EventType distinguishes overlay notifications.
type EventType int

const (
	Added EventType = iota + 1
	Removed
	Cleared
	// Updated follows a label change or a re-projection.
	Updated
)

// Event is delivered to subscribers. Marker is the zero value for Cleared
// and for re-projection.
type Event struct {
	Type   EventType
	Marker Marker
}

// Overlay is an ordered collection of markers. It is not safe for concurrent
// use.
type Overlay struct {
	next    ID
	markers []Marker
	events  notify.Hub[Event]
}

// New returns an empty overlay.
func New() *Overlay {
	return &Overlay{}
}

// Subscribe registers fn for overlay events.
func (o *Overlay) Subscribe(fn func(Event)) notify.Handle {
	return o.events.Subscribe(fn)
}

// Unsubscribe removes a subscription.
func (o *Overlay) Unsubscribe(h notify.Handle) bool {
	return o.events.Unsubscribe(h)
}

func (o *Overlay) index(id ID) int {
	for i := range o.markers {
		if o.markers[i].ID == id {
			return i
		}
	}
	return -1
}

func project(p Projector, m *Marker) {
	d, ok := p.ImageToDisplay(m.Image)
	m.Display = d
	m.Visible = ok && p.InDisplay(d)
}

// Add pins a new marker to pixel at and projects it through p, which may be
// nil to defer projection until the next Reproject.
func (o *Overlay) Add(at image.Point, p Projector) Marker {
	o.next++
	m := Marker{ID: o.next, Image: at}
	if p != nil {
		project(p, &m)
	}
	o.markers = append(o.markers, m)
	o.events.Emit(Event{Type: Added, Marker: m})
	return m
}

// Remove deletes the marker and reports whether it existed.
func (o *Overlay) Remove(id ID) bool {
	i := o.index(id)
	if i < 0 {
		return false
	}
	m := o.markers[i]
	o.markers = append(o.markers[:i], o.markers[i+1:]...)
	o.events.Emit(Event{Type: Removed, Marker: m})
	return true
}

// Clear deletes every marker.
func (o *Overlay) Clear() {
	if len(o.markers) == 0 {
		return
	}
	o.markers = nil
	o.events.Emit(Event{Type: Cleared})
}

// Len returns the number of markers.
func (o *Overlay) Len() int { return len(o.markers) }

// Markers returns a copy of the markers in the order they were added.
func (o *Overlay) Markers() []Marker {
	return append([]Marker(nil), o.markers...)
}

// Get returns the marker with the given ID.
func (o *Overlay) Get(id ID) (Marker, bool) {
	if i := o.index(id); i >= 0 {
		return o.markers[i], true
	}
	return Marker{}, false
}

// SetLabel replaces the label of a single marker.
func (o *Overlay) SetLabel(id ID, label string, visible bool) bool {
	i := o.index(id)
	if i < 0 {
		return false
	}
	o.markers[i].Label, o.markers[i].LabelVisible = label, visible
	o.events.Emit(Event{Type: Updated, Marker: o.markers[i]})
	return true
}

// Relabel recomputes every label with fn.
func (o *Overlay) Relabel(fn func(Marker) (string, bool)) {
	for i := range o.markers {
		o.markers[i].Label, o.markers[i].LabelVisible = fn(o.markers[i])
	}
	if len(o.markers) > 0 {
		o.events.Emit(Event{Type: Updated})
	}
}

// Reproject recomputes every display location from the pinned pixel.
// Markers that land off the display are hidden, not removed.
func (o *Overlay) Reproject(p Projector) {
	for i := range o.markers {
		project(p, &o.markers[i])
	}
	if len(o.markers) > 0 {
		o.events.Emit(Event{Type: Updated})
	}
}

// HitTest returns the visible marker nearest to at within radius display
// pixels.
func (o *Overlay) HitTest(at viewport.Point, radius float64) (Marker, bool) {
	var (
		best  Marker
		found bool
		dist  = radius
	)
	for _, m := range o.markers {
		if !m.Visible {
			continue
		}
		if d := math.Hypot(m.Display.X-at.X, m.Display.Y-at.Y); d <= dist {
			best, found, dist = m, true, d
		}
	}
	return best, found
}
