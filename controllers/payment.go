package controllers

import (
	"net/http"
	"strconv"
	"time"

	"claims-portal-api/config"
	"claims-portal-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetClaimPayments lists the payments recorded against a claim.
func GetClaimPayments(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var payments []models.Payment
	if err := config.DB.
		Where("claim_id = ? AND delete_at IS NULL", id).
		Order("create_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "total": total})
}

// CreateClaimPayment records a payment against a claim. Admin only.
func CreateClaimPayment(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Amount    string `json:"amount" binding:"required"`
		Currency  string `json:"currency"`
		Reference string `json:"reference"`
		Notes     string `json:"notes"`
		PaidAt    string `json:"paid_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a non-zero decimal"})
		return
	}

	var claimCount int64
	config.DB.Model(&models.Claim{}).Where("claim_id = ?", id).Count(&claimCount)
	if claimCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	actor := actorID(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	now := time.Now()
	payment := models.Payment{
		ClaimID:   id,
		Amount:    amount,
		Currency:  "GBP",
		Reference: req.Reference,
		Notes:     req.Notes,
		CreatedBy: *actor,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if req.Currency != "" {
		payment.Currency = req.Currency
	}
	if req.PaidAt != "" {
		t, err := time.Parse("2006-01-02", req.PaidAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paid_at must be YYYY-MM-DD"})
			return
		}
		payment.PaidAt = &t
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment, "message": "Payment recorded"})
}

// DeleteClaimPayment soft-deletes a mis-entered payment. Admin only.
func DeleteClaimPayment(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("paymentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Payment{}).
		Where("payment_id = ? AND delete_at IS NULL", paymentID).
		Updates(map[string]any{"delete_at": now, "update_at": now})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted"})
}
