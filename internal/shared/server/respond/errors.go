package respond

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"xtra/internal/shared/apperr"
	"xtra/internal/shared/telemetry"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "requestId"

// ErrorResponse is the only error body the API emits.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Fail translates err into a status code and message. Decode failures are
// client errors and are matched before the catch-all.
func Fail(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindDecode:
		Message(c, http.StatusBadRequest, fmt.Sprintf("bas46 error, %v", err))
	default:
		Message(c, http.StatusInternalServerError, fmt.Sprintf("%v", err))
	}
}

// Message sends {"message": msg} with the given status.
func Message(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"detail":     message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString(RequestIDKey),
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}
