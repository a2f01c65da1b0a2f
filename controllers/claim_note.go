package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"claims-portal-api/config"
	"claims-portal-api/models"
	"claims-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetClaimNotes lists a claim's notes, newest first. Soft-deleted notes are
// hidden; the deletion itself stays visible in the audit trail.
func GetClaimNotes(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var notes []models.ClaimNote
	query := config.DB.Preload("Author").
		Where("claim_id = ? AND delete_at IS NULL", id)
	if visibility := c.Query("visibility"); visibility != "" {
		query = query.Where("visibility = ?", visibility)
	}
	if err := query.Order("create_at DESC").Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// AddClaimNote creates a note on a claim.
func AddClaimNote(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var input services.NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author := actorID(c)
	if author == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	note, err := services.NewLifecycleService(config.DB).AddNote(id, input, *author)
	if err != nil {
		lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": note, "message": "Note added"})
}

// UpdateClaimNote edits a note; omitted fields stay unchanged.
func UpdateClaimNote(c *gin.Context) {
	noteID, err := strconv.Atoi(c.Param("noteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return
	}

	var update services.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorID(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	note, err := services.NewLifecycleService(config.DB).UpdateNote(noteID, update, *actor)
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note, "message": "Note updated"})
}

// DeleteClaimNote soft-deletes a note.
func DeleteClaimNote(c *gin.Context) {
	noteID, err := strconv.Atoi(c.Param("noteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return
	}

	actor := actorID(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := services.NewLifecycleService(config.DB).DeleteNote(noteID, *actor); err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		lifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

// GetClaimAuditLogs returns the append-only audit trail for a claim.
func GetClaimAuditLogs(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var count int64
	if err := config.DB.Model(&models.Claim{}).Where("claim_id = ?", id).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit logs"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	var logs []models.AuditLog
	if err := config.DB.Preload("User").
		Where("claim_id = ?", id).
		Order("created_at ASC, audit_log_id ASC").
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

// GetClaimTransitions returns a claim's status history in order.
func GetClaimTransitions(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var transitions []models.ClaimStatusTransition
	if err := config.DB.
		Where("claim_id = ?", id).
		Order("created_at ASC, transition_id ASC").
		Find(&transitions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transitions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transitions": transitions})
}
