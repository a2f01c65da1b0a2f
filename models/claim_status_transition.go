package models

import "time"

// ClaimStatusTransition tracks historical status changes for claims. One row
// per status change, written in the same transaction as the status update
// itself.
type ClaimStatusTransition struct {
	TransitionID int       `gorm:"primaryKey;column:transition_id" json:"transition_id"`
	ClaimID      int       `gorm:"column:claim_id;index" json:"claim_id"`
	FromStatus   string    `gorm:"column:from_status" json:"from_status"`
	ToStatus     string    `gorm:"column:to_status" json:"to_status"`
	ChangedBy    *int      `gorm:"column:changed_by" json:"changed_by,omitempty"`
	Note         *string   `gorm:"column:note" json:"note,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	Actor *User `gorm:"foreignKey:ChangedBy" json:"actor,omitempty"`
}

// TableName specifies the table for ClaimStatusTransition.
func (ClaimStatusTransition) TableName() string {
	return "claim_status_transitions"
}
