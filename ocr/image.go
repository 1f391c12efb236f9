package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// MaxPixels caps decoded image dimensions to keep Tesseract memory bounded.
const MaxPixels = 40_000_000

// Sniff validates that data is a decodable image and returns its format and
// dimensions. Only the header is decoded.
func Sniff(data []byte) (ImageFormat, image.Config, error) {
	if len(data) == 0 {
		return "", image.Config{}, fmt.Errorf("empty image")
	}
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Config{}, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", image.Config{}, fmt.Errorf("image has no pixels")
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return "", image.Config{}, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}

	switch name {
	case "png":
		return ImageFormatPNG, cfg, nil
	case "jpeg":
		return ImageFormatJPEG, cfg, nil
	case "tiff":
		return ImageFormatTIFF, cfg, nil
	case "bmp":
		return ImageFormatBMP, cfg, nil
	default:
		return "", image.Config{}, fmt.Errorf("unsupported image format %q", name)
	}
}
