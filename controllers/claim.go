package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"claims-portal-api/claimform"
	"claims-portal-api/config"
	"claims-portal-api/monitor"
	"claims-portal-api/services"

	"github.com/gin-gonic/gin"
)

// CreateClaim accepts a fully assembled claim payload from the public form,
// validates every field in one pass and persists the claim. Notifications
// run in the background; a failed email never fails the submission.
func CreateClaim(c *gin.Context) {
	var payload claimform.ClaimPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if verr := claimform.ValidateClaim(&payload); verr != nil {
		monitor.RecordValidationFailure()
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr})
		return
	}

	// When the form picked an address suggestion but never fetched its
	// construction data, fill it server-side. Best effort only.
	if payload.PlaceID != "" && payload.ConstructionInfo == "" {
		payload.ConstructionInfo = services.NewGeocodeService().ConstructionInfo(c.Request.Context(), payload.PlaceID)
	}

	claimService := services.NewClaimService(config.DB)
	claim, err := claimService.Create(&payload)
	if err != nil {
		var verr claimform.ValidationError
		if errors.As(err, &verr) {
			monitor.RecordValidationFailure()
			c.JSON(http.StatusBadRequest, gin.H{"errors": verr})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create claim"})
		return
	}

	monitor.RecordClaimSubmitted()

	// Fire-and-forget: confirmation email/SMS and staff alerts
	notify := services.NewNotifyService(config.DB)
	go notify.ClaimSubmitted(claim)

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Claim submitted successfully",
		"claim_id":         claim.ClaimID,
		"reference_number": claim.ReferenceNumber,
		"status":           claim.Status,
	})
}

// GetClaim returns one claim by id with its handler/policy/assessor loaded.
func GetClaim(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return
	}

	claim, err := services.NewClaimService(config.DB).GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrClaimNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claim"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// GetClaimByReference lets a claimant check their claim with the reference
// number from the confirmation email. Public, no auth.
func GetClaimByReference(c *gin.Context) {
	reference := c.Param("reference")

	claim, err := services.NewClaimService(config.DB).GetByReference(reference)
	if err != nil {
		if errors.Is(err, services.ErrClaimNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claim"})
		return
	}

	// Claimant-facing projection: no internal workflow metadata
	c.JSON(http.StatusOK, gin.H{
		"reference_number": claim.ReferenceNumber,
		"status":           claim.Status,
		"current_stage":    claim.CurrentStage,
		"submitted_at":     claim.SubmittedAt,
		"update_at":        claim.UpdateAt,
	})
}

// GetClaims lists claims for staff with search, status filter and pagination.
func GetClaims(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := services.ClaimFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Stage:  c.Query("stage"),
		Limit:  limit,
		Offset: offset,
	}

	claims, total, err := services.NewClaimService(config.DB).List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claims"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claims": claims,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}
