// Package ocr defines the contract for text extraction engines. Engines are
// small and provider-agnostic so the document screen can run against
// Tesseract in production and a fake in tests.
package ocr
