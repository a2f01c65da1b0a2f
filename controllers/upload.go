package controllers

import (
	"errors"
	"net/http"

	"claims-portal-api/config"
	"claims-portal-api/services"

	"github.com/gin-gonic/gin"
)

// CreateUploadSlot issues a presigned PUT URL so the browser uploads a claim
// file directly to object storage. The API only ever records the returned key
// string; file bytes never pass through it.
func CreateUploadSlot(c *gin.Context) {
	if config.S3Presign == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File uploads are not available"})
		return
	}

	var req struct {
		Category    string `json:"category" binding:"required"`
		Filename    string `json:"filename" binding:"required"`
		ContentType string `json:"content_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploads := services.NewUploadService(config.S3Presign, config.StorageBucket())
	slot, err := uploads.IssueSlot(c.Request.Context(), req.Category, req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedCategory) || errors.Is(err, services.ErrUnsupportedFileType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload slot"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}
