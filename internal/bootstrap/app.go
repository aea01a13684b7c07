package bootstrap

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"xtra/internal/encode"
	"xtra/internal/extract"
	"xtra/internal/extract/mupdf"
	"xtra/internal/extract/tesseract"
	"xtra/internal/extraction"
	"xtra/internal/openapi"
	"xtra/internal/services/health"
	"xtra/internal/shared/config"
	"xtra/internal/shared/server"
	"xtra/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	Factories         extract.Factories
	ExtractionHandler *extraction.Handler
	EncodeHandler     *encode.Handler
	Health            *health.Service
	OpenAPI           *openapi.Spec
}

// Build wires the service with the MuPDF and Tesseract backed extractors.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, DefaultFactories(cfg), tesseract.Version)
}

// BuildWith wires the service around the given extractor factories.
// ocrVersion may be nil when no OCR engine is linked.
func BuildWith(cfg config.Config, factories extract.Factories, ocrVersion func() string) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if factories.Text == nil || factories.OCR == nil || factories.Table == nil || factories.Metadata == nil {
		return nil, errors.New("bootstrap: every extractor factory is required")
	}

	app := &App{
		Config:    cfg,
		Factories: factories,
		ExtractionHandler: extraction.NewHandler(factories, extraction.Options{
			MaxUploadBytes: cfg.MaxUploadBytes,
			Timeout:        cfg.ExtractTimeout,
		}),
		EncodeHandler: encode.NewHandler(cfg.MaxUploadBytes),
		Health:        health.NewService(ocrVersion),
	}

	ops := append(app.ExtractionHandler.Operations(), app.EncodeHandler.Operations()...)
	app.OpenAPI = openapi.New(ops...)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		ExtractionHandler: app.ExtractionHandler,
		EncodeHandler:     app.EncodeHandler,
		Health:            app.Health,
		OpenAPI:           app.OpenAPI,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":              cfg.Env,
		"max_upload_bytes": cfg.MaxUploadBytes,
		"extract_timeout":  cfg.ExtractTimeout.String(),
		"ocr_languages":    cfg.OCRLanguages,
		"ocr_dpi":          cfg.OCRDPI,
	})
	return app, nil
}

// DefaultFactories builds extractors backed by ledongthuc/pdf for the text
// layer, MuPDF for rendering and metadata, and Tesseract for OCR.
func DefaultFactories(cfg config.Config) extract.Factories {
	ocrOpts := extract.OCROptions{DPI: cfg.OCRDPI, Languages: cfg.OCRLanguages}
	return extract.Factories{
		Text: func() extract.TextExtractor { return extract.NewPDFTextExtractor() },
		OCR: func() extract.OCRExtractor {
			return extract.NewPDFOCRExtractor(mupdf.NewRasterizer(), tesseract.NewRecognizer(), ocrOpts)
		},
		Table:    func() extract.TableExtractor { return extract.NewPDFTableExtractor() },
		Metadata: func() extract.MetadataExtractor { return mupdf.NewMetadataExtractor() },
	}
}
