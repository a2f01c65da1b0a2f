package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a ledger entry for money paid out (or recovered) against a claim.
type Payment struct {
	PaymentID int             `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	ClaimID   int             `gorm:"column:claim_id;index" json:"claim_id"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Currency  string          `gorm:"column:currency;default:GBP" json:"currency"`
	Reference string          `gorm:"column:reference" json:"reference"`
	Notes     string          `gorm:"column:notes" json:"notes"`
	PaidAt    *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedBy int             `gorm:"column:created_by" json:"created_by"`
	CreateAt  *time.Time      `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time      `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time      `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Claim *Claim `gorm:"foreignKey:ClaimID" json:"claim,omitempty"`
}

// TableName specifies the table for Payment.
func (Payment) TableName() string {
	return "payments"
}
