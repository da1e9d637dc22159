// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/upload"
	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/http/middleware"
	"github.com/sirupsen/logrus"
)

// UploadHandler handles image uploads
type UploadHandler struct {
	uploadService *upload.Service
	log           logrus.FieldLogger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *upload.Service, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, log: log}
}

// UploadImage handles POST /upload with the multipart field "image"
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No image provided",
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		internalError(c, "Failed to read upload", err)
		return
	}
	defer file.Close()

	stored, err := h.uploadService.SaveImage(header.Filename, header.Size, file)
	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	case errors.Is(err, upload.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		internalError(c, "Failed to store image", err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	h.log.WithFields(logrus.Fields{"user_id": userID, "path": stored.Path}).Info("image stored")

	c.JSON(http.StatusCreated, gin.H{"path": stored.Path})
}
