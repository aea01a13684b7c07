package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xtra/internal/encode"
	"xtra/internal/extraction"
	"xtra/internal/openapi"
	"xtra/internal/services/health"
	"xtra/internal/shared/config"
	"xtra/internal/shared/metrics"
	"xtra/internal/shared/server/middleware"
)

// RouterDeps are the handlers the router mounts.
type RouterDeps struct {
	Config            config.Config
	ExtractionHandler *extraction.Handler
	EncodeHandler     *encode.Handler
	Health            *health.Service
	OpenAPI           *openapi.Spec
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/openapi.json")
	})
	r.GET("/openapi.json", deps.OpenAPI.Handler())
	r.GET("/health", deps.Health.Handler())
	r.GET("/metrics", metrics.Handler())

	deps.ExtractionHandler.RegisterRoutes(r)
	deps.EncodeHandler.RegisterRoutes(r)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
