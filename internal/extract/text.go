package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned when the upload has no bytes.
var ErrEmptyDocument = errors.New("empty document")

// PDFTextExtractor reads the text layer page by page using
// github.com/ledongthuc/pdf. Pages without text are omitted.
type PDFTextExtractor struct{}

// NewPDFTextExtractor constructs a PDFTextExtractor.
func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

// ExtractText returns one record per page that has text.
func (e *PDFTextExtractor) ExtractText(ctx context.Context, data []byte) (out []TextExtract, err error) {
	defer RecoverParser(&err)

	reader, err := openPDF(data)
	if err != nil {
		return nil, err
	}

	fonts := make(map[string]*pdf.Font)
	out = []TextExtract{}
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("extract text page %d: %w", i, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		out = append(out, TextExtract{Page: i, Text: text})
	}
	return out, nil
}

func openPDF(data []byte) (*pdf.Reader, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return reader, nil
}
