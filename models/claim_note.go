package models

import "time"

// Note visibility values
const (
	NoteVisibilityInternal = "internal"
	NoteVisibilityInsurer  = "insurer"
)

// ClaimNote is a staff comment attached to a claim. Unlike the audit trail it
// is mutable: notes can be edited or deleted independently of the claim's
// lifecycle.
type ClaimNote struct {
	NoteID       int        `gorm:"primaryKey;column:note_id" json:"note_id"`
	ClaimID      int        `gorm:"column:claim_id;index" json:"claim_id"`
	AuthorID     int        `gorm:"column:author_id" json:"author_id"`
	Visibility   string     `gorm:"column:visibility" json:"visibility"` // internal|insurer
	NoteType     string     `gorm:"column:note_type" json:"note_type"`
	Content      string     `gorm:"column:content;type:text" json:"content"`
	FollowUpDate *time.Time `gorm:"column:follow_up_date" json:"follow_up_date,omitempty"`
	FollowUpDone bool       `gorm:"column:follow_up_done" json:"follow_up_done"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table for ClaimNote.
func (ClaimNote) TableName() string {
	return "claim_notes"
}
