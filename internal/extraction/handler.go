// Package extraction exposes the extractors over HTTP. Each route reads one
// uploaded document, builds a fresh extractor and returns its results as a
// JSON array.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"xtra/internal/extract"
	"xtra/internal/openapi"
	"xtra/internal/shared/metrics"
	"xtra/internal/shared/server/middleware"
	"xtra/internal/shared/server/respond"
	"xtra/internal/shared/telemetry"
	"xtra/internal/shared/upload"
	"xtra/internal/shared/util"
)

// EncodingField names the optional form value or query parameter that
// declares a transfer encoding for the upload.
const EncodingField = "encoding"

var log = telemetry.Named("xtra.api")

// Options bound a single extraction request.
type Options struct {
	// MaxUploadBytes caps the request body. Zero disables the cap.
	MaxUploadBytes int64
	// Timeout caps the extractor call. Zero disables the timeout.
	Timeout time.Duration
}

// Handler wires the extraction routes to extractor factories.
type Handler struct {
	factories extract.Factories
	opts      Options
}

// NewHandler constructs a Handler.
func NewHandler(factories extract.Factories, opts Options) *Handler {
	return &Handler{factories: factories, opts: opts}
}

// RegisterRoutes attaches the extraction routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/pdf/text", h.text)
	r.POST("/pdf/ocr", h.ocr)
	r.POST("/pdf/table", h.table)
	r.POST("/pdf/meta", h.meta)
}

// Operations describes the routes for the API document.
func (h *Handler) Operations() []openapi.Operation {
	textList := openapi.ArrayOf(openapi.Ref("TextExtract"))
	return []openapi.Operation{
		{Method: http.MethodPost, Path: "/pdf/text", OperationID: "extract_text_from_pdf", Summary: "Extract Text From Pdf", Tag: "pdf", Result: textList},
		{Method: http.MethodPost, Path: "/pdf/ocr", OperationID: "extract_text_with_ocr_from_pdf", Summary: "Extract Text With Ocr From Pdf", Tag: "pdf", Result: textList},
		{Method: http.MethodPost, Path: "/pdf/table", OperationID: "extract_table_from_pdf", Summary: "Extract Table From Pdf", Tag: "pdf", Result: openapi.ArrayOf(openapi.Ref("TableExtract"))},
		{Method: http.MethodPost, Path: "/pdf/meta", OperationID: "extract_meta_data_from_pdf", Summary: "Extract Meta Data From Pdf", Tag: "pdf", Result: openapi.ArrayOf(openapi.AnyObject())},
	}
}

func (h *Handler) text(c *gin.Context) {
	handle(c, h, "text", "extract text from pdf", func(ctx context.Context, data []byte) ([]extract.TextExtract, error) {
		return h.factories.Text().ExtractText(ctx, data)
	})
}

func (h *Handler) ocr(c *gin.Context) {
	handle(c, h, "ocr", "extract text with ocr from pdf", func(ctx context.Context, data []byte) ([]extract.TextExtract, error) {
		return h.factories.OCR().ExtractText(ctx, data)
	})
}

func (h *Handler) table(c *gin.Context) {
	handle(c, h, "table", "extract table from pdf", func(ctx context.Context, data []byte) ([]extract.TableExtract, error) {
		return h.factories.Table().ExtractTables(ctx, data)
	})
}

func (h *Handler) meta(c *gin.Context) {
	handle(c, h, "meta", "extract meta data from pdf", func(ctx context.Context, data []byte) ([]extract.Metadata, error) {
		return h.factories.Metadata().ExtractMetadata(ctx, data)
	})
}

type extractFunc[T any] func(ctx context.Context, data []byte) ([]T, error)

func handle[T any](c *gin.Context, h *Handler, route, action string, fn extractFunc[T]) {
	c.Set(middleware.RouteKey, route)

	file, err := upload.Read(c, h.opts.MaxUploadBytes)
	if err != nil {
		if status := upload.Status(err); status != 0 {
			respond.Message(c, status, err.Error())
			return
		}
		respond.Fail(c, err)
		return
	}
	c.Set(middleware.FileNameKey, file.Name)
	c.Set(middleware.FileSizeKey, len(file.Data))

	encoding := c.PostForm(EncodingField)
	if encoding == "" {
		encoding = c.Query(EncodingField)
	}

	log.Debug(fmt.Sprintf("%s file='%s'", action, displayName(file.Name)), map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"size":       len(file.Data),
		"sha256":     util.Fingerprint(file.Data),
		"encoding":   encoding,
	})

	data, err := extract.DecodePayload(file.Data, encoding)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedEncoding) {
			respond.Message(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respond.Fail(c, err)
		return
	}

	metrics.IncExtractStarted(route)
	start := time.Now()
	items, err := run(c.Request.Context(), h.opts.Timeout, data, fn)
	metrics.ObserveExtractDurationMs(route, float64(time.Since(start).Microseconds())/1000.0)
	if err != nil {
		metrics.IncExtractFailed(route)
		respond.Fail(c, err)
		return
	}
	respond.List(c, items)
}

type result[T any] struct {
	items []T
	err   error
}

// run calls fn on its own goroutine so an expired timeout can return while
// a non-interruptible extractor keeps running in the background.
func run[T any](parent context.Context, timeout time.Duration, data []byte, fn extractFunc[T]) ([]T, error) {
	ctx := parent
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, timeout)
		defer cancel()
	}

	done := make(chan result[T], 1)
	go func() {
		var res result[T]
		defer func() {
			if rec := recover(); rec != nil {
				res = result[T]{err: middleware.PanicError(rec)}
			}
			done <- res
		}()
		res.items, res.err = fn(ctx, data)
	}()

	select {
	case res := <-done:
		if res.err != nil && timeout > 0 && errors.Is(res.err, context.DeadlineExceeded) {
			return nil, timeoutError(timeout)
		}
		return res.items, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && timeout > 0 {
			return nil, timeoutError(timeout)
		}
		return nil, ctx.Err()
	}
}

func timeoutError(d time.Duration) error {
	return fmt.Errorf("extraction timed out after %s", d)
}

func displayName(name string) string {
	if clean, err := util.SanitizeFileName(name); err == nil {
		return clean
	}
	return name
}
