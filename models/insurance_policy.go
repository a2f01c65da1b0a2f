package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsurancePolicy is a catalogue entry for a buildings-insurance policy that
// claims can be assigned to. Policies referenced by claims are deactivated
// rather than deleted.
type InsurancePolicy struct {
	PolicyID      int             `gorm:"primaryKey;column:policy_id" json:"policy_id"`
	PolicyNumber  string          `gorm:"column:policy_number;unique" json:"policy_number"`
	Insurer       string          `gorm:"column:insurer" json:"insurer"`
	BuildingName  string          `gorm:"column:building_name" json:"building_name"`
	ExcessAmount  decimal.Decimal `gorm:"column:excess_amount;type:decimal(12,2)" json:"excess_amount"`
	CoverageStart *time.Time      `gorm:"column:coverage_start" json:"coverage_start,omitempty"`
	CoverageEnd   *time.Time      `gorm:"column:coverage_end" json:"coverage_end,omitempty"`
	Active        bool            `gorm:"column:active;default:true" json:"active"`
	CreateAt      *time.Time      `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time      `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time      `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName specifies the table for InsurancePolicy.
func (InsurancePolicy) TableName() string {
	return "insurance_policies"
}
