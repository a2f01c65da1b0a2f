package models

import "time"

// AuditLog is an append-only record of every change made through the
// lifecycle service. Rows are never updated or deleted. A nil UserID marks a
// system action.
type AuditLog struct {
	AuditLogID int       `gorm:"primaryKey;column:audit_log_id" json:"audit_log_id"`
	ClaimID    int       `gorm:"column:claim_id;index" json:"claim_id"`
	UserID     *int      `gorm:"column:user_id" json:"user_id,omitempty"`
	Action     string    `gorm:"column:action" json:"action"`
	EntityType string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID   int       `gorm:"column:entity_id" json:"entity_id"`
	Changes    string    `gorm:"column:changes;type:json" json:"changes"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table for AuditLog.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action tags
const (
	AuditActionClaimCreated     = "claim_created"
	AuditActionStatusChanged    = "status_changed"
	AuditActionStageChanged     = "stage_changed"
	AuditActionHandlerAssigned  = "handler_assigned"
	AuditActionPolicyAssigned   = "policy_assigned"
	AuditActionAssessorAssigned = "assessor_assigned"
	AuditActionInsurerDetails   = "insurer_details_updated"
	AuditActionClaimClosed      = "claim_closed"
	AuditActionNoteAdded        = "note_added"
	AuditActionNoteUpdated      = "note_updated"
	AuditActionNoteDeleted      = "note_deleted"
)
