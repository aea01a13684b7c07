package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Status is the health payload.
type Status struct {
	OK        bool   `json:"ok"`
	OCREngine string `json:"ocr_engine,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	ocrVersion func() string
}

// NewService constructs a new health service. ocrVersion reports the OCR
// engine version and may be nil.
func NewService(ocrVersion func() string) *Service {
	return &Service{ocrVersion: ocrVersion}
}

// Status returns the current health payload.
func (s *Service) Status() Status {
	st := Status{OK: true}
	if s.ocrVersion != nil {
		if v := s.ocrVersion(); v != "" {
			st.OCREngine = "tesseract " + v
		}
	}
	return st
}

// Handler serves Status as JSON.
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Status())
	}
}
