// Package openapi builds the machine-readable API description. The document
// is computed on first use and cached for the life of the process.
package openapi

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	Title       = "xtra"
	Version     = "0.1.0"
	Summary     = "API's for extracting structured data and convert PDF files"
	Description = "Here's a longer description of the custom **OpenAPI** schema"
	LogoURL     = "https://fastapi.tiangolo.com/img/logo-margin/logo-teal.png"
)

// Operation describes one route that accepts a multipart file upload.
type Operation struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Tag         string
	// Result is the JSON schema of the 200 response body.
	Result map[string]any
}

// Spec caches the document built from its operations.
type Spec struct {
	once       sync.Once
	operations []Operation
	doc        map[string]any
}

// New returns a Spec for the given operations. Nothing is computed until
// Document is first called.
func New(ops ...Operation) *Spec {
	return &Spec{operations: append([]Operation(nil), ops...)}
}

// Document returns the cached OpenAPI document, building it on first use.
func (s *Spec) Document() map[string]any {
	s.once.Do(func() {
		s.doc = build(s.operations)
	})
	return s.doc
}

// Handler serves the document as JSON.
func (s *Spec) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Document())
	}
}

// Ref points at a schema under components.
func Ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

// ArrayOf wraps item as an array schema.
func ArrayOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

// AnyObject is an object schema with no fixed properties.
func AnyObject() map[string]any {
	return map[string]any{"type": "object", "additionalProperties": true}
}

func build(ops []Operation) map[string]any {
	paths := map[string]any{}
	for _, op := range ops {
		item, _ := paths[op.Path].(map[string]any)
		if item == nil {
			item = map[string]any{}
			paths[op.Path] = item
		}
		item[strings.ToLower(op.Method)] = operation(op)
	}

	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":       Title,
			"version":     Version,
			"summary":     Summary,
			"description": Description,
			"x-logo":      map[string]any{"url": LogoURL},
		},
		"paths": paths,
		"components": map[string]any{
			"schemas": schemas(),
		},
	}
}

func operation(op Operation) map[string]any {
	out := map[string]any{
		"operationId": op.OperationID,
		"summary":     op.Summary,
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				"multipart/form-data": map[string]any{
					"schema": Ref("UploadBody"),
				},
			},
		},
		"responses": map[string]any{
			"200": jsonResponse("Successful Response", op.Result),
			"400": jsonResponse("Undecodable Input", Ref("ErrorMessage")),
			"413": jsonResponse("Upload Too Large", Ref("ErrorMessage")),
			"422": jsonResponse("Validation Error", Ref("ErrorMessage")),
			"500": jsonResponse("Extraction Failed", Ref("ErrorMessage")),
		},
	}
	if op.Tag != "" {
		out["tags"] = []string{op.Tag}
	}
	return out
}

func jsonResponse(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{"schema": schema},
		},
	}
}

func schemas() map[string]any {
	str := map[string]any{"type": "string"}
	integer := map[string]any{"type": "integer"}
	return map[string]any{
		"UploadBody": map[string]any{
			"type":     "object",
			"required": []string{"file"},
			"properties": map[string]any{
				"file":     map[string]any{"type": "string", "format": "binary"},
				"encoding": map[string]any{"type": "string", "enum": []string{"binary", "base64"}},
			},
		},
		"TextExtract": map[string]any{
			"type":     "object",
			"required": []string{"page", "text"},
			"properties": map[string]any{
				"page": integer,
				"text": str,
			},
		},
		"TableExtract": map[string]any{
			"type":     "object",
			"required": []string{"page", "index", "header", "rows"},
			"properties": map[string]any{
				"page":   integer,
				"index":  integer,
				"header": ArrayOf(str),
				"rows":   ArrayOf(ArrayOf(str)),
			},
		},
		"Document": map[string]any{
			"type":     "object",
			"required": []string{"filename", "content_type", "size", "data"},
			"properties": map[string]any{
				"filename":     str,
				"content_type": str,
				"size":         integer,
				"data":         map[string]any{"type": "string", "contentEncoding": "base64"},
			},
		},
		"ErrorMessage": map[string]any{
			"type":     "object",
			"required": []string{"message"},
			"properties": map[string]any{
				"message": str,
			},
		},
	}
}
