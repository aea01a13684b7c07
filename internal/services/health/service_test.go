package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusReportsOCREngine(t *testing.T) {
	svc := NewService(func() string { return "5.3.0" })
	assert.Equal(t, Status{OK: true, OCREngine: "tesseract 5.3.0"}, svc.Status())
}

func TestStatusWithoutOCREngine(t *testing.T) {
	assert.Equal(t, Status{OK: true}, NewService(nil).Status())
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewService(func() string { return "5.3.0" }).Handler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true,"ocr_engine":"tesseract 5.3.0"}`, resp.Body.String())
}
