package ocr

import "context"

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
	ImageFormatBMP  ImageFormat = "image/bmp"
)

// Input is a single image submitted for OCR.
type Input struct {
	// Image is the encoded image payload.
	Image []byte
	// Format declares the detected image content type.
	Format ImageFormat
	// Languages are Tesseract language hints such as "eng".
	Languages []string
}

// Result is the OCR output for one image. No structure is guaranteed.
type Result struct {
	PlainText string
	Language  string
}

// Engine is the OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
