// Package upload reads a multipart file field fully into memory.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldName is the multipart field every upload route reads.
const FieldName = "file"

var (
	ErrMissingFile = errors.New("file is required")
	ErrTooLarge    = errors.New("file exceeds upload limit")
)

// File is an upload held in memory for the lifetime of one request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Read parses the multipart body and returns the contents of the file field.
// maxBytes <= 0 disables the body cap.
func Read(c *gin.Context, maxBytes int64) (File, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	header, err := c.FormFile(FieldName)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return File{}, ErrTooLarge
		}
		return File{}, ErrMissingFile
	}

	f, err := header.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return File{}, fmt.Errorf("read upload: %w", err)
	}

	return File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Status maps Read errors to the framework-level status code, or 0 when err
// belongs to the normal error taxonomy.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMissingFile):
		return http.StatusUnprocessableEntity
	default:
		return 0
	}
}
