// Package extract holds the extractor capabilities the HTTP layer dispatches
// to. Every extractor takes the raw document bytes and returns a slice of
// results, which is empty rather than nil when nothing was found.
package extract

import "context"

// TextExtractor reads the embedded text layer.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) ([]TextExtract, error)
}

// OCRExtractor recognizes text from rendered page images.
type OCRExtractor interface {
	ExtractText(ctx context.Context, data []byte) ([]TextExtract, error)
}

// TableExtractor detects tabular structures.
type TableExtractor interface {
	ExtractTables(ctx context.Context, data []byte) ([]TableExtract, error)
}

// MetadataExtractor reads document-level properties.
type MetadataExtractor interface {
	ExtractMetadata(ctx context.Context, data []byte) ([]Metadata, error)
}

// Factories build a fresh extractor for every request.
type Factories struct {
	Text     func() TextExtractor
	OCR      func() OCRExtractor
	Table    func() TableExtractor
	Metadata func() MetadataExtractor
}
