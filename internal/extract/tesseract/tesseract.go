// Package tesseract recognizes text with Tesseract via
// github.com/otiai10/gosseract/v2.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"xtra/internal/extract"
)

var _ extract.Recognizer = (*Recognizer)(nil)

// Recognizer opens one Tesseract client per image. Clients are not shared
// between goroutines.
type Recognizer struct {
	newClient func() *gosseract.Client
}

// NewRecognizer constructs a Recognizer.
func NewRecognizer() *Recognizer {
	return &Recognizer{newClient: gosseract.NewClient}
}

// Recognize returns the text Tesseract reads from image.
func (r *Recognizer) Recognize(ctx context.Context, image []byte, languages []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := r.newClient()
	defer client.Close()

	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}

// Version reports the linked Tesseract version.
func Version() string {
	return gosseract.Version()
}
