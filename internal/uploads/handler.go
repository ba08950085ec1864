package uploads

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-platform/internal/shared/server/middleware"
	"resume-platform/internal/shared/server/respond"
	"resume-platform/internal/shared/storage/object"
	"resume-platform/internal/shared/telemetry"
)

const maxUploadBytes = 5 << 20

// Handler accepts profile picture uploads and serves stored files back.
type Handler struct {
	Store object.ObjectStore
}

func NewHandler(store object.ObjectStore) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes mounts the authenticated upload route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/profile-picture", h.uploadProfilePicture)
}

// RegisterPublicRoutes mounts the file download route. Storage keys are
// unguessable, so reads are public the way picture URLs usually are.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/files/*storageKey", h.serveFile)
}

type uploadResponse struct {
	StorageKey string `json:"storageKey"`
	SizeBytes  int64  `json:"sizeBytes"`
	MimeType   string `json:"mimeType"`
	URL        string `json:"url"`
}

func (h *Handler) uploadProfilePicture(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds size limit", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	defer f.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(f, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only image uploads are allowed", nil)
		return
	}

	body := io.MultiReader(bytes.NewReader(sniff[:n]), f)
	key, size, mimeType, err := h.Store.Save(c.Request.Context(), userID, fileHeader.Filename, io.LimitReader(body, maxUploadBytes+1))
	if err != nil {
		telemetry.Error("uploads.save_failed", map[string]any{
			"error":      err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store file", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, uploadResponse{
		StorageKey: key,
		SizeBytes:  size,
		MimeType:   mimeType,
		URL:        "/api/v1/public/files/" + key,
	})
}

func (h *Handler) serveFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("storageKey"), "/")
	if key == "" {
		respond.Error(c, http.StatusNotFound, "not_found", "File not found", nil)
		return
	}

	rc, mimeType, err := h.Store.Open(c.Request.Context(), key)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "File not found", nil)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", mimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("uploads.stream_interrupted", map[string]any{"error": err.Error()})
	}
}
