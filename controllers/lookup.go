package controllers

import (
	"encoding/json"
	"net/http"

	"claims-portal-api/services"

	"github.com/gin-gonic/gin"
)

// LookupAddress returns autocomplete suggestions for the property step.
func LookupAddress(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	suggestions, err := services.NewGeocodeService().Lookup(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Address lookup is not available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// LookupConstructionInfo returns construction metadata for a selected address
// suggestion. Best effort: an unknown place or an unconfigured provider is an
// empty result, not an error, so the form can always continue.
func LookupConstructionInfo(c *gin.Context) {
	placeID := c.Query("place_id")
	if placeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "place_id parameter is required"})
		return
	}

	info := services.NewGeocodeService().ConstructionInfo(c.Request.Context(), placeID)
	if info == "" {
		c.JSON(http.StatusOK, gin.H{"construction_info": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"construction_info": json.RawMessage(info)})
}
