package extract

import (
	"context"
	"fmt"
	"strings"
)

// PageImageFunc receives one rendered page as PNG bytes. Pages are 1-based.
type PageImageFunc func(page int, png []byte) error

// Rasterizer renders every page of a document to an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte, dpi float64, fn PageImageFunc) error
}

// Recognizer turns an image into text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, languages []string) (string, error)
}

// OCROptions tune page rendering and recognition.
type OCROptions struct {
	DPI       float64
	Languages []string
}

// PDFOCRExtractor renders each page and recognizes its text. Pages whose
// recognized text is blank are omitted.
type PDFOCRExtractor struct {
	raster Rasterizer
	recog  Recognizer
	opts   OCROptions
}

// NewPDFOCRExtractor constructs a PDFOCRExtractor.
func NewPDFOCRExtractor(raster Rasterizer, recog Recognizer, opts OCROptions) *PDFOCRExtractor {
	if opts.DPI <= 0 {
		opts.DPI = 300
	}
	return &PDFOCRExtractor{raster: raster, recog: recog, opts: opts}
}

// ExtractText returns the recognized text per page.
func (e *PDFOCRExtractor) ExtractText(ctx context.Context, data []byte) (out []TextExtract, err error) {
	defer RecoverParser(&err)

	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	out = []TextExtract{}
	err = e.raster.Rasterize(ctx, data, e.opts.DPI, func(page int, png []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := e.recog.Recognize(ctx, png, e.opts.Languages)
		if err != nil {
			return fmt.Errorf("ocr page %d: %w", page, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		out = append(out, TextExtract{Page: page, Text: text})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
