// Package encode serves the base64 document helper route.
package encode

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"xtra/internal/openapi"
	"xtra/internal/shared/server/middleware"
	"xtra/internal/shared/server/respond"
	"xtra/internal/shared/upload"
	"xtra/internal/shared/util"
)

// Document is an upload returned in transferable form.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Data        string `json:"data"`
}

// Handler encodes uploads as base64.
type Handler struct {
	maxUploadBytes int64
}

// NewHandler constructs a Handler. maxUploadBytes <= 0 disables the cap.
func NewHandler(maxUploadBytes int64) *Handler {
	return &Handler{maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the encode route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/base64/encode", h.encode)
}

// Operations describes the route for the API document.
func (h *Handler) Operations() []openapi.Operation {
	return []openapi.Operation{{
		Method:      http.MethodPost,
		Path:        "/base64/encode",
		OperationID: "encode_document_base64",
		Summary:     "Encode Document Base64",
		Tag:         "base64",
		Result:      openapi.Ref("Document"),
	}}
}

func (h *Handler) encode(c *gin.Context) {
	c.Set(middleware.RouteKey, "encode")

	file, err := upload.Read(c, h.maxUploadBytes)
	if err != nil {
		if status := upload.Status(err); status != 0 {
			respond.Message(c, status, err.Error())
			return
		}
		respond.Fail(c, err)
		return
	}

	name, err := util.SanitizeFileName(file.Name)
	if err != nil {
		respond.Message(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.Set(middleware.FileNameKey, name)
	c.Set(middleware.FileSizeKey, len(file.Data))

	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}

	respond.JSON(c, http.StatusOK, Document{
		Filename:    name,
		ContentType: contentType,
		Size:        len(file.Data),
		Data:        base64.StdEncoding.EncodeToString(file.Data),
	})
}
