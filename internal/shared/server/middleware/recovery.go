package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"xtra/internal/shared/server/respond"
	"xtra/internal/shared/telemetry"
)

// Recovery turns panics into the standard error body. Panics carrying a
// decode error are reported as such; everything else is a 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Fail(c, PanicError(rec))
			}
		}()
		c.Next()
	}
}

// PanicError converts a recovered value into an error, keeping the original
// error in the chain when there is one.
func PanicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}
