package display

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/lumimap/viewport"
	"github.com/stretchr/testify/assert"
)

func checker() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	m.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	m.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	m.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	m.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	return m
}

func TestClear(t *testing.T) {
	c := NewCanvas(4, 3, WithBackground(color.Black))
	w, h := c.Size()
	assert.Equal(t, 4.0, w)
	assert.Equal(t, 3.0, h)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c.Image().RGBAAt(3, 2))

	c.Image().SetRGBA(1, 1, color.RGBA{9, 9, 9, 255})
	c.Clear()
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c.Image().RGBAAt(1, 1))
}

func TestBlitScalesSubRegion(t *testing.T) {
	c := NewCanvas(8, 8)

	// Right column only, doubled.
	c.Blit(checker(), image.Rect(1, 0, 2, 2), viewport.Rect{X: 2, Y: 0, W: 2, H: 4})

	assert.Equal(t, color.RGBA{0, 255, 0, 255}, c.Image().RGBAAt(2, 0))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, c.Image().RGBAAt(3, 1))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Image().RGBAAt(2, 3))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(4, 0))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(2, 4))
}

func TestBlitClipsAndIgnoresEmpty(t *testing.T) {
	c := NewCanvas(2, 2)

	c.Blit(checker(), image.Rect(0, 0, 2, 2), viewport.Rect{X: -2, Y: -2, W: 4, H: 4})
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Image().RGBAAt(0, 0))

	c.Clear()
	c.Blit(checker(), image.Rect(0, 0, 2, 2), viewport.Rect{X: 0, Y: 0, W: 0.2, H: 0.2})
	c.Blit(checker(), image.Rectangle{}, viewport.Rect{W: 2, H: 2})
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(0, 0))
}
