package controllers

import (
	"net/http"
	"strconv"
	"time"

	"claims-portal-api/config"
	"claims-portal-api/models"

	"github.com/gin-gonic/gin"
)

// GetAssessors lists loss assessors for the assignment picker.
func GetAssessors(c *gin.Context) {
	var assessors []models.LossAssessor
	query := config.DB.Where("delete_at IS NULL")
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("name").Find(&assessors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assessors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessors": assessors})
}

// GetAssessor returns one assessor.
func GetAssessor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessor ID"})
		return
	}

	var assessor models.LossAssessor
	if err := config.DB.Where("assessor_id = ? AND delete_at IS NULL", id).First(&assessor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessor": assessor})
}

// CreateAssessor adds a loss assessor to the directory. Admin only.
func CreateAssessor(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Company string `json:"company"`
		Email   string `json:"email" binding:"omitempty,email"`
		Phone   string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	assessor := models.LossAssessor{
		Name:     req.Name,
		Company:  req.Company,
		Email:    req.Email,
		Phone:    req.Phone,
		Active:   true,
		CreateAt: &now,
		UpdateAt: &now,
	}

	if err := config.DB.Create(&assessor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assessor"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assessor": assessor, "message": "Assessor created"})
}

// UpdateAssessor edits a directory entry. Admin only.
func UpdateAssessor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessor ID"})
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Company *string `json:"company"`
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Active  *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var assessor models.LossAssessor
	if err := config.DB.Where("assessor_id = ? AND delete_at IS NULL", id).First(&assessor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessor not found"})
		return
	}

	fields := map[string]any{"update_at": time.Now()}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Company != nil {
		fields["company"] = *req.Company
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}

	if err := config.DB.Model(&assessor).Updates(fields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assessor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assessor updated"})
}

// DeactivateAssessor hides an assessor from the picker without touching
// claims already assigned to them.
func DeactivateAssessor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessor ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.LossAssessor{}).
		Where("assessor_id = ? AND delete_at IS NULL", id).
		Updates(map[string]any{"active": false, "update_at": now})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate assessor"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assessor deactivated"})
}
