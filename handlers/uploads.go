package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/privateboard/privateboard/internal/storage"
	"github.com/privateboard/privateboard/pkg/metrics"
	"github.com/privateboard/privateboard/pkg/slug"
)

// maxUploadBytes caps image uploads at 5 MB.
const maxUploadBytes = 5 << 20

// extByMIME doubles as the allowlist: only these image types are accepted.
var extByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// UploadsHandler stores uploaded images in the configured storage backend.
// Uploads happen during composition, before the owning post exists, so the
// object key is independent of any post record.
type UploadsHandler struct {
	backend storage.Backend
}

func NewUploadsHandler(backend storage.Backend) *UploadsHandler {
	return &UploadsHandler{backend: backend}
}

func (h *UploadsHandler) Register(r gin.IRouter) {
	r.POST("/uploads/image", h.UploadImage)
}

// UploadImage accepts a multipart "file" field and returns { url } with 201.
func (h *UploadsHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds 5MB limit"})
		return
	}
	mime := fh.Header.Get("Content-Type")
	ext, ok := extByMIME[mime]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only jpeg, png, gif, webp images are allowed"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	key := slug.New() + "." + ext
	url, err := h.backend.Save(c.Request.Context(), key, f, fh.Size, mime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	metrics.ImagesUploaded.Inc()
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
