// Package charts renders the bar, pie, line and scatter charts shown on the
// analysis screens as PNG images.
package charts

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Size is a chart size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize fits the content column of the screens.
var DefaultSize = Size{Width: 800, Height: 500}

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ink   = color.RGBA{0x2c, 0x3e, 0x50, 0xff}
	grid  = color.RGBA{0xdd, 0xe1, 0xe6, 0xff}
)

// pastel follows the matplotlib Pastel1 colors.
var pastel = []color.RGBA{
	{0xfb, 0xb4, 0xae, 0xff},
	{0xb3, 0xcd, 0xe3, 0xff},
	{0xcc, 0xeb, 0xc5, 0xff},
	{0xde, 0xcb, 0xe4, 0xff},
	{0xfe, 0xd9, 0xa6, 0xff},
	{0xff, 0xff, 0xcc, 0xff},
	{0xe5, 0xd8, 0xbd, 0xff},
	{0xfd, 0xda, 0xec, 0xff},
	{0xf2, 0xf2, 0xf2, 0xff},
}

// viridis samples ten stops of the viridis colormap.
var viridis = []color.RGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x48, 0x28, 0x78, 0xff},
	{0x3e, 0x4a, 0x89, 0xff},
	{0x31, 0x68, 0x8e, 0xff},
	{0x26, 0x82, 0x8e, 0xff},
	{0x1f, 0x9e, 0x89, 0xff},
	{0x35, 0xb7, 0x79, 0xff},
	{0x6d, 0xcd, 0x59, 0xff},
	{0xb4, 0xde, 0x2c, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}

type canvas struct {
	img    *image.RGBA
	filler *rasterx.Filler
}

func newCanvas(s Size) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: white}, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(s.Width, s.Height, img, img.Bounds())
	return &canvas{img: img, filler: rasterx.NewFiller(s.Width, s.Height, scanner)}
}

func (c *canvas) fill(clr color.Color) {
	c.filler.SetColor(clr)
	c.filler.Draw()
	c.filler.Clear()
}

func (c *canvas) rect(x0, y0, x1, y1 float64, clr color.Color) {
	rasterx.AddRect(x0, y0, x1, y1, 0, c.filler)
	c.fill(clr)
}

func (c *canvas) circle(cx, cy, r float64, clr color.Color) {
	rasterx.AddCircle(cx, cy, r, c.filler)
	c.fill(clr)
}

func (c *canvas) polygon(pts [][2]float64, clr color.Color) {
	if len(pts) < 3 {
		return
	}
	c.filler.Start(rasterx.ToFixedP(pts[0][0], pts[0][1]))
	for _, p := range pts[1:] {
		c.filler.Line(rasterx.ToFixedP(p[0], p[1]))
	}
	c.filler.Stop(true)
	c.fill(clr)
}

// line draws a segment as a thin quad.
func (c *canvas) line(x0, y0, x1, y1, width float64, clr color.Color) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	c.polygon([][2]float64{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	}, clr)
}

// text draws s with its baseline at y. align is 0 left, 1 center, 2 right.
func (c *canvas) text(x, y float64, s string, align int, clr color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(clr), Face: face}
	w := d.MeasureString(s).Round()
	switch align {
	case 1:
		x -= float64(w) / 2
	case 2:
		x -= float64(w)
	}
	d.Dot = fixed.P(int(math.Round(x)), int(math.Round(y)))
	d.DrawString(s)
}

func (c *canvas) title(s string) {
	c.text(float64(c.img.Bounds().Dx())/2, 24, s, 1, ink)
}

func (c *canvas) png() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
