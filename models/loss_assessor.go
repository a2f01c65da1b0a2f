package models

import "time"

// LossAssessor is a directory entry for an external loss assessor who can be
// assigned to claims.
type LossAssessor struct {
	AssessorID int        `gorm:"primaryKey;column:assessor_id" json:"assessor_id"`
	Name       string     `gorm:"column:name" json:"name"`
	Company    string     `gorm:"column:company" json:"company"`
	Email      string     `gorm:"column:email" json:"email"`
	Phone      string     `gorm:"column:phone" json:"phone"`
	Active     bool       `gorm:"column:active;default:true" json:"active"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName specifies the table for LossAssessor.
func (LossAssessor) TableName() string {
	return "loss_assessors"
}
