// Package mupdf renders pages and reads document properties through MuPDF
// (github.com/gen2brain/go-fitz).
package mupdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"

	"xtra/internal/extract"
)

var (
	_ extract.Rasterizer        = (*Rasterizer)(nil)
	_ extract.MetadataExtractor = (*MetadataExtractor)(nil)
)

func open(data []byte) (*fitz.Document, error) {
	if len(data) == 0 {
		return nil, extract.ErrEmptyDocument
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return doc, nil
}

// Rasterizer renders pages to PNG.
type Rasterizer struct{}

// NewRasterizer constructs a Rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Rasterize renders the pages in order and hands each PNG to fn. Rendering
// stops at the first error from fn or when ctx is done.
func (r *Rasterizer) Rasterize(ctx context.Context, data []byte, dpi float64, fn extract.PageImageFunc) (err error) {
	defer extract.RecoverParser(&err)

	doc, err := open(data)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, doc.Close())
	}()

	var buf bytes.Buffer
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return fmt.Errorf("render page %d: %w", i+1, err)
		}
		buf.Reset()
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		if err := fn(i+1, bytes.Clone(buf.Bytes())); err != nil {
			return err
		}
	}
	return nil
}

// MetadataExtractor reads the document information dictionary as MuPDF
// reports it (format, encryption, title, author, subject, keywords, creator,
// producer, creationDate, modDate) plus the page count.
type MetadataExtractor struct{}

// NewMetadataExtractor constructs a MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// ExtractMetadata returns a single mapping for the document. Blank values
// are dropped.
func (m *MetadataExtractor) ExtractMetadata(ctx context.Context, data []byte) (out []extract.Metadata, err error) {
	defer extract.RecoverParser(&err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := open(data)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, doc.Close())
	}()

	meta := extract.Metadata{}
	for k, v := range doc.Metadata() {
		// MuPDF fills fixed-size buffers, so values arrive NUL padded.
		if i := strings.IndexByte(v, 0); i >= 0 {
			v = v[:i]
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		meta[k] = v
	}
	meta["page_count"] = doc.NumPage()
	return []extract.Metadata{meta}, nil
}
