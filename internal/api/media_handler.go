package api

import (
	"errors"
	"net/http"

	"gympulse/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaHandler exposes the progress-photo upload flow.
type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// --- DTOs ---

type RequestUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
	Caption     string `json:"caption"`
}

// --- Handler Methods ---

// RequestUploadURL hands the member a presigned PUT URL for a progress photo.
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	memberID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.mediaService.RequestUploadURL(c.Request.Context(), memberID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL.")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload records the metadata after the client uploaded to S3.
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	memberID, ok := requireUserID(c)
	if !ok {
		return
	}

	photo, err := h.mediaService.ConfirmUpload(c.Request.Context(), memberID, req.ObjectKey, req.FileName, req.Size, req.ContentType, req.Caption)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to confirm upload.")
		return
	}

	c.JSON(http.StatusCreated, photo)
}

// GetMyPhotos lists the member's photos with temporary download URLs.
func (h *MediaHandler) GetMyPhotos(c *gin.Context) {
	memberID, ok := requireUserID(c)
	if !ok {
		return
	}

	photos, err := h.mediaService.GetMyPhotos(c.Request.Context(), memberID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list photos.")
		return
	}

	c.JSON(http.StatusOK, photos)
}

// DeletePhoto removes a photo (object and metadata).
func (h *MediaHandler) DeletePhoto(c *gin.Context) {
	memberID, ok := requireUserID(c)
	if !ok {
		return
	}
	photoID, err := primitive.ObjectIDFromHex(c.Param("photoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid photo ID format.")
		return
	}

	if err := h.mediaService.DeletePhoto(c.Request.Context(), memberID, photoID); err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete photo.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
