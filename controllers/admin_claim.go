package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"claims-portal-api/config"
	"claims-portal-api/models"
	"claims-portal-api/monitor"
	"claims-portal-api/services"
	"claims-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// actorID pulls the authenticated user id set by the auth middleware.
func actorID(c *gin.Context) *int {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(int); ok {
			return &id
		}
	}
	return nil
}

func claimIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return 0, false
	}
	return id, true
}

func lifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrPolicyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
	case errors.Is(err, services.ErrAssessorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessor not found"})
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidNote):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed, no changes were saved"})
	}
}

// UpdateClaimStatus moves a claim to a new status. The status update, the
// transition row and the audit row commit together or not at all.
func UpdateClaimStatus(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lifecycle := services.NewLifecycleService(config.DB)
	fromStatus := ""
	if existing, err := services.NewClaimService(config.DB).GetByID(id); err == nil {
		fromStatus = existing.Status
	}

	claim, err := lifecycle.UpdateStatus(id, req.Status, actorID(c), req.Note)
	if err != nil {
		lifecycleError(c, err)
		return
	}

	monitor.RecordStatusTransition(claim.Status)

	// Fire-and-forget claimant notification
	go services.NewNotifyService(config.DB).StatusChanged(claim, fromStatus)

	c.JSON(http.StatusOK, gin.H{"claim": claim, "message": "Status updated"})
}

// UpdateClaimStage sets the free-form workflow stage tag.
func UpdateClaimStage(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Stage string `json:"stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := services.NewLifecycleService(config.DB).UpdateStage(id, req.Stage, actorID(c))
	if err != nil {
		lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim, "message": "Stage updated"})
}

// AssignClaim assigns a staff handler to the claim.
func AssignClaim(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req struct {
		HandlerID int `json:"handler_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := services.NewLifecycleService(config.DB).AssignHandler(id, req.HandlerID, actorID(c))
	if err != nil {
		lifecycleError(c, err)
		return
	}

	var handler models.User
	if err := config.DB.First(&handler, "user_id = ?", req.HandlerID).Error; err == nil {
		go services.NewNotifyService(config.DB).HandlerAssigned(claim, &handler)
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim, "message": "Handler assigned"})
}

// AssignClaimPolicy links the claim to an insurance policy.
func AssignClaimPolicy(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req struct {
		PolicyID int `json:"policy_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := services.NewLifecycleService(config.DB).AssignPolicy(id, req.PolicyID, actorID(c))
	if err != nil {
		lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim, "message": "Policy assigned"})
}

// AssignClaimAssessor appoints a loss assessor.
func AssignClaimAssessor(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req struct {
		AssessorID int `json:"assessor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := services.NewLifecycleService(config.DB).AssignAssessor(id, req.AssessorID, actorID(c))
	if err != nil {
		lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim, "message": "Assessor assigned"})
}

// SetClaimInsurerDetails records the insurer submission reference and dates.
func SetClaimInsurerDetails(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req struct {
		InsurerReference string `json:"insurer_reference" binding:"required"`
		SubmittedAt      string `json:"submitted_at"`
		ResponseDue      string `json:"response_due"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details := services.InsurerDetails{Reference: req.InsurerReference}
	if req.SubmittedAt != "" {
		t, err := time.Parse("2006-01-02", req.SubmittedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "submitted_at must be YYYY-MM-DD"})
			return
		}
		details.SubmittedAt = &t
	}
	if req.ResponseDue != "" {
		t, err := time.Parse("2006-01-02", req.ResponseDue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "response_due must be YYYY-MM-DD"})
			return
		}
		details.ResponseDue = &t
	}

	claim, err := services.NewLifecycleService(config.DB).SetInsurerDetails(id, details, actorID(c))
	if err != nil {
		lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim, "message": "Insurer details saved"})
}

// CloseClaim moves a claim to its terminal status with a closure reason.
func CloseClaim(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := services.NewLifecycleService(config.DB).Close(id, req.Reason, actorID(c), req.Note)
	if err != nil {
		lifecycleError(c, err)
		return
	}

	monitor.RecordStatusTransition(claim.Status)

	c.JSON(http.StatusOK, gin.H{"claim": claim, "message": "Claim closed"})
}

// exportFilter applies the list query params without pagination so exports
// cover the whole filtered set.
func exportFilter(c *gin.Context) ([]models.Claim, error) {
	filter := services.ClaimFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Stage:  c.Query("stage"),
		Limit:  -1,
	}
	claims, _, err := services.NewClaimService(config.DB).List(filter)
	return claims, err
}

// ExportClaimsCSV streams the filtered claim list as CSV.
func ExportClaimsCSV(c *gin.Context) {
	claims, err := exportFilter(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claims"})
		return
	}

	body, err := utils.ClaimsCSV(claims)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=claims.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// ExportClaimsXLSX streams the filtered claim list as a spreadsheet.
func ExportClaimsXLSX(c *gin.Context) {
	claims, err := exportFilter(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claims"})
		return
	}

	f := excelize.NewFile()
	sheet := "Claims"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	headers := []string{"Reference", "Status", "Stage", "Claimant", "Email", "Phone",
		"Address", "Incident Date", "Incident Type", "Building Damage", "Theft/Vandalism",
		"Investment Property", "Submitted", "Last Updated"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, claim := range claims {
		values := []interface{}{
			claim.ReferenceNumber,
			claim.Status,
			claim.CurrentStage,
			claim.ClaimantName,
			claim.ClaimantEmail,
			claim.ClaimantPhone,
			claim.Address,
			claim.IncidentDate.Format("2006-01-02"),
			claim.IncidentType,
			claim.HasBuildingDamage,
			claim.HasTheftVandalism,
			claim.IsInvestmentProperty,
			claim.SubmittedAt.Format(time.RFC3339),
			claim.UpdateAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=claims-%s.xlsx", time.Now().Format("2006-01-02")))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "admin_claim", "ExportClaimsXLSX", "write response", nil, err)
	}
}

// GetDashboardStats returns the admin dashboard headline numbers.
func GetDashboardStats(c *gin.Context) {
	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	var byStatus []statusCount
	if err := config.DB.Model(&models.Claim{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	var total int64
	config.DB.Model(&models.Claim{}).Count(&total)

	var unassigned int64
	config.DB.Model(&models.Claim{}).Where("handler_id IS NULL AND status != ?", models.ClaimStatusClosed).
		Count(&unassigned)

	weekAgo := time.Now().AddDate(0, 0, -7)
	var lastWeek int64
	config.DB.Model(&models.Claim{}).Where("submitted_at >= ?", weekAgo).Count(&lastWeek)

	c.JSON(http.StatusOK, gin.H{
		"total_claims":     total,
		"by_status":        byStatus,
		"unassigned_open":  unassigned,
		"submitted_7_days": lastWeek,
	})
}
