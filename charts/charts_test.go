package charts

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var small = Size{Width: 320, Height: 240}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

// inked reports whether any pixel differs from the white background.
func inked(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || bl != 0xffff {
				return true
			}
		}
	}
	return false
}

func TestHorizontalBar(t *testing.T) {
	data, err := HorizontalBar("Top words", []string{"loan", "bank", "interest"}, []float64{5, 3, 1}, small)
	require.NoError(t, err)

	img := decode(t, data)
	assert.Equal(t, small.Width, img.Bounds().Dx())
	assert.Equal(t, small.Height, img.Bounds().Dy())
	assert.True(t, inked(img))
}

func TestPie(t *testing.T) {
	data, err := Pie("Distribution", []string{"a", "b"}, []float64{1, 3}, small)
	require.NoError(t, err)
	assert.True(t, inked(decode(t, data)))

	_, err = Pie("zero", []string{"a"}, []float64{0}, small)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Pie("negative", []string{"a", "b"}, []float64{1, -1}, small)
	assert.Error(t, err)
}

func TestLine(t *testing.T) {
	data, err := Line("Close", "Date", "Price ($)", []string{"11-13", "11-14", "11-15"}, []float64{185.5, 187.9, 186.1}, small)
	require.NoError(t, err)
	assert.True(t, inked(decode(t, data)))

	data, err = Line("Flat", "Date", "Price", []string{"d"}, []float64{10}, small)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestScatter(t *testing.T) {
	data, err := Scatter("KMeans", "x", "y", []float64{1, 2, 10}, []float64{1, 2, 10}, []int{0, 0, 1}, small)
	require.NoError(t, err)
	assert.True(t, inked(decode(t, data)))

	_, err = Scatter("bad", "x", "y", []float64{1}, []float64{1, 2}, []int{0}, small)
	assert.Error(t, err)
}

func TestEmptySeries(t *testing.T) {
	_, err := HorizontalBar("empty", nil, nil, small)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Scatter("empty", "x", "y", nil, nil, nil, small)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Line("mismatch", "x", "y", []string{"a"}, []float64{1, 2}, small)
	assert.Error(t, err)
}
