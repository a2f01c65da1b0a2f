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

// GetPolicies lists insurance policies for the assignment picker.
func GetPolicies(c *gin.Context) {
	var policies []models.InsurancePolicy
	query := config.DB.Where("delete_at IS NULL")
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("policy_number LIKE ? OR insurer LIKE ? OR building_name LIKE ?", like, like, like)
	}
	if err := query.Order("policy_number").Find(&policies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load policies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"policies": policies})
}

// GetPolicy returns one policy.
func GetPolicy(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	var policy models.InsurancePolicy
	if err := config.DB.Where("policy_id = ? AND delete_at IS NULL", id).First(&policy).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": policy})
}

type policyRequest struct {
	PolicyNumber  string  `json:"policy_number" binding:"required"`
	Insurer       string  `json:"insurer" binding:"required"`
	BuildingName  string  `json:"building_name"`
	ExcessAmount  string  `json:"excess_amount"`
	CoverageStart *string `json:"coverage_start"`
	CoverageEnd   *string `json:"coverage_end"`
}

func (r policyRequest) apply(c *gin.Context, policy *models.InsurancePolicy) bool {
	policy.PolicyNumber = r.PolicyNumber
	policy.Insurer = r.Insurer
	policy.BuildingName = r.BuildingName

	if r.ExcessAmount != "" {
		amount, err := decimal.NewFromString(r.ExcessAmount)
		if err != nil || amount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "excess_amount must be a non-negative decimal"})
			return false
		}
		policy.ExcessAmount = amount
	}

	for _, d := range []struct {
		raw  *string
		dest **time.Time
		name string
	}{
		{r.CoverageStart, &policy.CoverageStart, "coverage_start"},
		{r.CoverageEnd, &policy.CoverageEnd, "coverage_end"},
	} {
		if d.raw == nil || *d.raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", *d.raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": d.name + " must be YYYY-MM-DD"})
			return false
		}
		*d.dest = &t
	}
	return true
}

// CreatePolicy adds a policy to the catalogue. Admin only.
func CreatePolicy(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing int64
	config.DB.Model(&models.InsurancePolicy{}).
		Where("policy_number = ? AND delete_at IS NULL", req.PolicyNumber).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Policy number already exists"})
		return
	}

	now := time.Now()
	policy := models.InsurancePolicy{
		Active:   true,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if !req.apply(c, &policy) {
		return
	}

	if err := config.DB.Create(&policy).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create policy"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"policy": policy, "message": "Policy created"})
}

// UpdatePolicy edits a catalogue entry. Admin only.
func UpdatePolicy(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	var policy models.InsurancePolicy
	if err := config.DB.Where("policy_id = ? AND delete_at IS NULL", id).First(&policy).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
		return
	}

	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.apply(c, &policy) {
		return
	}

	now := time.Now()
	policy.UpdateAt = &now
	if err := config.DB.Save(&policy).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update policy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": policy, "message": "Policy updated"})
}

// DeactivatePolicy removes a policy from the assignment picker without
// breaking claims already linked to it.
func DeactivatePolicy(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.InsurancePolicy{}).
		Where("policy_id = ? AND delete_at IS NULL", id).
		Updates(map[string]any{"active": false, "update_at": now})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate policy"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Policy deactivated"})
}
