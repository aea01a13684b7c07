package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() *Spec {
	return New(
		Operation{Method: http.MethodPost, Path: "/pdf/text", OperationID: "extract_text_from_pdf", Summary: "Extract Text From Pdf", Result: ArrayOf(Ref("TextExtract"))},
		Operation{Method: http.MethodPost, Path: "/pdf/meta", OperationID: "extract_meta_data_from_pdf", Summary: "Extract Meta Data From Pdf", Result: ArrayOf(AnyObject())},
	)
}

func TestDocumentIsComputedOnce(t *testing.T) {
	spec := testSpec()
	first := spec.Document()
	second := spec.Document()
	assert.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer())
}

func TestDocumentInfo(t *testing.T) {
	info := testSpec().Document()["info"].(map[string]any)
	assert.Equal(t, "xtra", info["title"])
	assert.Equal(t, "0.1.0", info["version"])
	assert.Equal(t, Summary, info["summary"])
	assert.Equal(t, map[string]any{"url": LogoURL}, info["x-logo"])
}

func TestHandlerServesPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/openapi.json", testSpec().Handler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var doc struct {
		Paths map[string]map[string]struct {
			OperationID string                    `json:"operationId"`
			Responses   map[string]map[string]any `json:"responses"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))

	text, ok := doc.Paths["/pdf/text"]["post"]
	require.True(t, ok)
	assert.Equal(t, "extract_text_from_pdf", text.OperationID)
	for _, code := range []string{"200", "400", "500"} {
		assert.Contains(t, text.Responses, code)
	}
	assert.Contains(t, doc.Paths, "/pdf/meta")
}
