package server

import (
	"testing"

	"github.com/gin-gonic/gin"

	"xtra/internal/encode"
	"xtra/internal/extract"
	"xtra/internal/extraction"
	"xtra/internal/openapi"
	"xtra/internal/services/health"
	"xtra/internal/shared/config"
)

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9000":  ":9000",
		":7070": ":7070",
	}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRouterKeepsModeInTestEnv(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	NewRouter(testDeps(config.Config{Env: "test"}))
	if gin.Mode() != gin.TestMode {
		t.Fatalf("expected test mode to be kept, got %s", gin.Mode())
	}

	NewRouter(testDeps(config.Config{Env: "production"}))
	if gin.Mode() != gin.ReleaseMode {
		t.Fatalf("expected release mode, got %s", gin.Mode())
	}
}

func testDeps(cfg config.Config) RouterDeps {
	return RouterDeps{
		Config:            cfg,
		ExtractionHandler: extraction.NewHandler(extract.Factories{}, extraction.Options{}),
		EncodeHandler:     encode.NewHandler(0),
		Health:            health.NewService(nil),
		OpenAPI:           openapi.New(),
	}
}
