package main

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/lumimap/pfm"
	"github.com/bodgit/lumimap/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("12,34")
	require.Nil(t, err)
	assert.Equal(t, image.Pt(12, 34), p)

	_, err = parsePoint("12")
	assert.NotNil(t, err)
}

func TestRegionMask(t *testing.T) {
	r, err := raster.New(4, 2, make([]float32, 8))
	require.Nil(t, err)

	mask, err := regionMask(r, "")
	require.Nil(t, err)
	assert.Nil(t, mask)

	mask, err = regionMask(r, "3,2,1,0")
	require.Nil(t, err)
	assert.Equal(t, []bool{false, true, true, false, false, true, true, false}, mask)

	mask, err = regionMask(r, "-5,-5,100,1")
	require.Nil(t, err)
	assert.Equal(t, []bool{true, true, true, true, false, false, false, false}, mask)

	_, err = regionMask(r, "a,b")
	assert.NotNil(t, err)
}

func TestProbe(t *testing.T) {
	r, err := raster.New(2, 1, []float32{10, raster.Overflow})
	require.Nil(t, err)

	file := filepath.Join(t.TempDir(), "lum.pfm")
	buf := new(bytes.Buffer)
	require.Nil(t, pfm.Encode(buf, r, nil))
	require.Nil(t, os.WriteFile(file, buf.Bytes(), 0o644))

	out := new(bytes.Buffer)
	require.Nil(t, probe(out, file, ""))
	assert.Contains(t, out.String(), "Size:       2x1\n")
	assert.Contains(t, out.String(), "Byte order: little-endian\n")
	assert.Contains(t, out.String(), "Mean:       10.00\n")
	assert.Contains(t, out.String(), "Overflow:   1\n")
}
