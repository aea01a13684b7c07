package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xtra/internal/extract"
	"xtra/internal/shared/apperr"
	"xtra/internal/shared/metrics"
)

type fakeText struct {
	out   []extract.TextExtract
	err   error
	panic any
	block chan struct{}
	mu    sync.Mutex
	seen  [][]byte
}

func (f *fakeText) ExtractText(ctx context.Context, data []byte) ([]extract.TextExtract, error) {
	f.mu.Lock()
	f.seen = append(f.seen, append([]byte(nil), data...))
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.panic != nil {
		panic(f.panic)
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]extract.TextExtract(nil), f.out...), nil
}

type fakeTable struct {
	out []extract.TableExtract
	err error
}

func (f *fakeTable) ExtractTables(context.Context, []byte) ([]extract.TableExtract, error) {
	return f.out, f.err
}

type fakeMeta struct {
	out []extract.Metadata
	err error
}

func (f *fakeMeta) ExtractMetadata(context.Context, []byte) ([]extract.Metadata, error) {
	return f.out, f.err
}

type fakes struct {
	text  *fakeText
	ocr   *fakeText
	table *fakeTable
	meta  *fakeMeta
	built int
}

func newFakes() *fakes {
	return &fakes{
		text:  &fakeText{out: []extract.TextExtract{{Page: 1, Text: "Invoice 42"}}},
		ocr:   &fakeText{out: []extract.TextExtract{{Page: 1, Text: "scanned"}}},
		table: &fakeTable{out: []extract.TableExtract{{Page: 1, Index: 0, Header: []string{"Item", "Qty"}, Rows: [][]string{{"Bolt", "4"}}}}},
		meta:  &fakeMeta{out: []extract.Metadata{{"title": "Q3 Report", "page_count": 3}}},
	}
}

func (f *fakes) factories() extract.Factories {
	return extract.Factories{
		Text:     func() extract.TextExtractor { f.built++; return f.text },
		OCR:      func() extract.OCRExtractor { f.built++; return f.ocr },
		Table:    func() extract.TableExtractor { f.built++; return f.table },
		Metadata: func() extract.MetadataExtractor { f.built++; return f.meta },
	}
}

func newRouter(f *fakes, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(f.factories(), opts).RegisterRoutes(router)
	return router
}

func uploadRequest(t *testing.T, path string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func message(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 1)
	msg, ok := body["message"].(string)
	require.True(t, ok)
	return msg
}

var routes = []string{"/pdf/text", "/pdf/ocr", "/pdf/table", "/pdf/meta"}

func TestRoutesReturnResults(t *testing.T) {
	f := newFakes()
	router := newRouter(f, Options{})

	cases := map[string]string{
		"/pdf/text":  `[{"page":1,"text":"Invoice 42"}]`,
		"/pdf/ocr":   `[{"page":1,"text":"scanned"}]`,
		"/pdf/table": `[{"page":1,"index":0,"header":["Item","Qty"],"rows":[["Bolt","4"]]}]`,
		"/pdf/meta":  `[{"title":"Q3 Report","page_count":3}]`,
	}
	for path, want := range cases {
		resp := serve(router, uploadRequest(t, path, []byte("%PDF-1.4"), nil))
		require.Equal(t, http.StatusOK, resp.Code, path)
		assert.JSONEq(t, want, resp.Body.String(), path)
	}
	assert.Equal(t, 4, f.built)
}

func TestEmptyResultsAreEmptyArrays(t *testing.T) {
	f := newFakes()
	f.text.out = nil
	f.ocr.out = nil
	f.table.out = nil
	f.meta.out = nil
	router := newRouter(f, Options{})

	for _, path := range routes {
		resp := serve(router, uploadRequest(t, path, []byte("%PDF-1.4"), nil))
		require.Equal(t, http.StatusOK, resp.Code, path)
		assert.Equal(t, "[]", resp.Body.String(), path)
	}
}

func TestDecodeErrorsAreBadRequest(t *testing.T) {
	decodeErr := apperr.Decode("decode stream", base64.CorruptInputError(7))
	f := newFakes()
	f.text.err = decodeErr
	f.ocr.err = decodeErr
	f.table.err = decodeErr
	f.meta.err = decodeErr
	router := newRouter(f, Options{})

	for _, path := range routes {
		resp := serve(router, uploadRequest(t, path, []byte("%PDF-1.4"), nil))
		assert.Equal(t, http.StatusBadRequest, resp.Code, path)
		assert.Equal(t, "bas46 error, decode stream: illegal base64 data at input byte 7", message(t, resp), path)
	}
}

func TestOtherErrorsAreInternal(t *testing.T) {
	other := errors.New("malformed PDF: missing trailer")
	f := newFakes()
	f.text.err = other
	f.ocr.err = other
	f.table.err = other
	f.meta.err = other
	router := newRouter(f, Options{})

	for _, path := range routes {
		resp := serve(router, uploadRequest(t, path, []byte("%PDF-1.4"), nil))
		assert.Equal(t, http.StatusInternalServerError, resp.Code, path)
		assert.Equal(t, "malformed PDF: missing trailer", message(t, resp), path)
	}
}

func TestDecodeTakesPrecedenceOverCatchAll(t *testing.T) {
	f := newFakes()
	// A generic failure wrapping a decode failure is still a decode failure.
	f.table.err = fmt.Errorf("page 2: %w", base64.CorruptInputError(0))
	router := newRouter(f, Options{})

	resp := serve(router, uploadRequest(t, "/pdf/table", []byte("%PDF-1.4"), nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "bas46 error, page 2: illegal base64 data at input byte 0", message(t, resp))
}

func TestExtractorPanicIsInternal(t *testing.T) {
	f := newFakes()
	f.text.panic = "index out of range"
	router := newRouter(f, Options{})

	resp := serve(router, uploadRequest(t, "/pdf/text", []byte("%PDF-1.4"), nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "index out of range", message(t, resp))
}

func TestMissingFileIsUnprocessable(t *testing.T) {
	router := newRouter(newFakes(), Options{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/pdf/text", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp := serve(router, req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "file is required", message(t, resp))
}

func TestOversizeUploadIsRejected(t *testing.T) {
	f := newFakes()
	router := newRouter(f, Options{MaxUploadBytes: 1024})

	resp := serve(router, uploadRequest(t, "/pdf/text", bytes.Repeat([]byte("a"), 4096), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Equal(t, "file exceeds upload limit", message(t, resp))
	assert.Zero(t, f.built)
}

func TestBase64EncodedUpload(t *testing.T) {
	f := newFakes()
	router := newRouter(f, Options{})
	encoded := []byte(base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 body")))

	resp := serve(router, uploadRequest(t, "/pdf/text", encoded, map[string]string{"encoding": "base64"}))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = serve(router, uploadRequest(t, "/pdf/text?encoding=base64", encoded, nil))
	require.Equal(t, http.StatusOK, resp.Code)

	require.Len(t, f.text.seen, 2)
	for _, data := range f.text.seen {
		assert.Equal(t, "%PDF-1.7 body", string(data))
	}
}

func TestCorruptBase64UploadIsBadRequest(t *testing.T) {
	f := newFakes()
	router := newRouter(f, Options{})

	resp := serve(router, uploadRequest(t, "/pdf/meta", []byte("!!!!"), map[string]string{"encoding": "base64"}))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "bas46 error, decode base64 payload: illegal base64 data at input byte 0", message(t, resp))
	assert.Zero(t, f.built)
}

func TestUnknownEncodingIsUnprocessable(t *testing.T) {
	router := newRouter(newFakes(), Options{})

	resp := serve(router, uploadRequest(t, "/pdf/text", []byte("%PDF"), map[string]string{"encoding": "uuencode"}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.True(t, strings.HasPrefix(message(t, resp), "unsupported encoding"))
}

func TestRepeatedRequestsAreIndependent(t *testing.T) {
	f := newFakes()
	router := newRouter(f, Options{})

	first := serve(router, uploadRequest(t, "/pdf/table", []byte("%PDF-1.4"), nil))
	second := serve(router, uploadRequest(t, "/pdf/table", []byte("%PDF-1.4"), nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 2, f.built)
}

func TestExtractionTimeout(t *testing.T) {
	f := newFakes()
	f.text.block = make(chan struct{})
	t.Cleanup(func() { close(f.text.block) })
	router := newRouter(f, Options{Timeout: 20 * time.Millisecond})

	resp := serve(router, uploadRequest(t, "/pdf/text", []byte("%PDF-1.4"), nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "extraction timed out after 20ms", message(t, resp))
}

func TestMetricsPerRoute(t *testing.T) {
	metrics.Reset()
	t.Cleanup(metrics.Reset)
	f := newFakes()
	f.meta.err = errors.New("boom")
	router := newRouter(f, Options{})

	serve(router, uploadRequest(t, "/pdf/text", []byte("%PDF-1.4"), nil))
	serve(router, uploadRequest(t, "/pdf/meta", []byte("%PDF-1.4"), nil))

	out := metrics.Render()
	assert.Contains(t, out, `extract_started_total{route="text"} 1`)
	assert.Contains(t, out, `extract_started_total{route="meta"} 1`)
	assert.Contains(t, out, `extract_failed_total{route="meta"} 1`)
	assert.Contains(t, out, `extract_failed_total{route="text"} 0`)
}

func TestOperationsCoverRoutes(t *testing.T) {
	ops := NewHandler(extract.Factories{}, Options{}).Operations()
	var paths []string
	for _, op := range ops {
		paths = append(paths, op.Path)
	}
	assert.ElementsMatch(t, routes, paths)
}
