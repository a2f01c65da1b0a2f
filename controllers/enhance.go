package controllers

import (
	"net/http"

	"claims-portal-api/services"

	"github.com/gin-gonic/gin"
)

// EnhanceText rewrites a free-text description through the AI service. With
// allow_fallback the local cleanup is returned when the AI is down; without
// it the caller gets a retry-safe error instead.
func EnhanceText(c *gin.Context) {
	var req struct {
		Text          string `json:"text" binding:"required"`
		AllowFallback bool   `json:"allow_fallback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	improved, aiUsed, err := services.NewEnhanceService().Enhance(c.Request.Context(), req.Text, req.AllowFallback)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":    improved,
		"ai_used": aiUsed,
	})
}
