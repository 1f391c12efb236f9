package views

import (
	"bytes"
	_ "embed"
	"image"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// LogoSize is the edge of the square sidebar logo in pixels.
const LogoSize = 128

//go:embed assets/logo.svg
var logoSVG []byte

// Logo rasterizes the embedded SVG logo to a size x size PNG.
func Logo(size int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(logoSVG))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
