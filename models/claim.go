package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Claim statuses form a small closed set. The workflow stage is a separate,
// finer-grained tag and is not constrained here.
const (
	ClaimStatusSubmitted = "submitted"
	ClaimStatusPending   = "pending"
	ClaimStatusApproved  = "approved"
	ClaimStatusRejected  = "rejected"
	ClaimStatusClosed    = "closed"
)

// ClaimStatuses lists every valid claim status.
var ClaimStatuses = []string{
	ClaimStatusSubmitted,
	ClaimStatusPending,
	ClaimStatusApproved,
	ClaimStatusRejected,
	ClaimStatusClosed,
}

// IsValidClaimStatus reports whether s is a member of the closed status set.
func IsValidClaimStatus(s string) bool {
	for _, known := range ClaimStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// StringArray stores a list of file path/URL strings as a JSON column.
// A nil slice marshals as [] so the column is never NULL and API responses
// never contain null where an array is expected.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		a = StringArray{}
	}
	return json.Marshal(a)
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for StringArray")
	}
	if len(bytes) == 0 {
		*a = StringArray{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Claim is the aggregate root: one leaseholder's buildings-insurance incident
// submission and its workflow metadata. Audit logs, status transitions and
// notes reference it by id but live in their own tables.
type Claim struct {
	ClaimID         int    `gorm:"primaryKey;column:claim_id" json:"claim_id"`
	ReferenceNumber string `gorm:"column:reference_number;uniqueIndex" json:"reference_number"`
	Status          string `gorm:"column:status" json:"status"`
	CurrentStage    string `gorm:"column:current_stage" json:"current_stage"`

	// Claimant contact
	ClaimantName  string `gorm:"column:claimant_name" json:"claimant_name"`
	ClaimantEmail string `gorm:"column:claimant_email" json:"claimant_email"`
	ClaimantPhone string `gorm:"column:claimant_phone" json:"claimant_phone"`

	// Property
	Address          string  `gorm:"column:address" json:"address"`
	Block            *string `gorm:"column:block" json:"block,omitempty"`
	Unit             *string `gorm:"column:unit" json:"unit,omitempty"`
	PlaceID          *string `gorm:"column:place_id" json:"place_id,omitempty"`
	ConstructionInfo *string `gorm:"column:construction_info;type:json" json:"construction_info,omitempty"`

	// Incident
	IncidentDate        time.Time `gorm:"column:incident_date" json:"incident_date"`
	IncidentType        string    `gorm:"column:incident_type" json:"incident_type"`
	IncidentDescription string    `gorm:"column:incident_description;type:text" json:"incident_description"`

	// Building damage sub-claim
	HasBuildingDamage         bool   `gorm:"column:has_building_damage" json:"has_building_damage"`
	BuildingDamageDescription string `gorm:"column:building_damage_description;type:text" json:"building_damage_description"`

	// Theft/vandalism sub-claim
	HasTheftVandalism bool   `gorm:"column:has_theft_vandalism" json:"has_theft_vandalism"`
	TheftDescription  string `gorm:"column:theft_description;type:text" json:"theft_description"`
	PoliceReported    bool   `gorm:"column:police_reported" json:"police_reported"`
	PoliceReference   string `gorm:"column:police_reference" json:"police_reference"`

	// Investment-property occupancy sub-claim
	IsInvestmentProperty bool   `gorm:"column:is_investment_property" json:"is_investment_property"`
	TenantName           string `gorm:"column:tenant_name" json:"tenant_name"`
	TenantPhone          string `gorm:"column:tenant_phone" json:"tenant_phone"`
	TenantEmail          string `gorm:"column:tenant_email" json:"tenant_email"`

	// File attachments: object-storage path strings only, never file bytes
	DamagePhotos      StringArray `gorm:"column:damage_photos;type:json" json:"damage_photos"`
	RepairQuotes      StringArray `gorm:"column:repair_quotes;type:json" json:"repair_quotes"`
	Invoices          StringArray `gorm:"column:invoices;type:json" json:"invoices"`
	PoliceReports     StringArray `gorm:"column:police_reports;type:json" json:"police_reports"`
	OtherDocuments    StringArray `gorm:"column:other_documents;type:json" json:"other_documents"`
	TenancyAgreements StringArray `gorm:"column:tenancy_agreements;type:json" json:"tenancy_agreements"`

	// Declaration
	SignatureData        string `gorm:"column:signature_data;type:longtext" json:"signature_data"`
	SignatureMethod      string `gorm:"column:signature_method" json:"signature_method"`
	DeclarationTruth     bool   `gorm:"column:declaration_truth" json:"declaration_truth"`
	DeclarationAuthority bool   `gorm:"column:declaration_authority" json:"declaration_authority"`
	DeclarationConsent   bool   `gorm:"column:declaration_consent" json:"declaration_consent"`

	// Assignment / workflow metadata
	HandlerID          *int       `gorm:"column:handler_id" json:"handler_id,omitempty"`
	PolicyID           *int       `gorm:"column:policy_id" json:"policy_id,omitempty"`
	AssessorID         *int       `gorm:"column:assessor_id" json:"assessor_id,omitempty"`
	InsurerReference   *string    `gorm:"column:insurer_reference" json:"insurer_reference,omitempty"`
	InsurerSubmittedAt *time.Time `gorm:"column:insurer_submitted_at" json:"insurer_submitted_at,omitempty"`
	InsurerResponseDue *time.Time `gorm:"column:insurer_response_due" json:"insurer_response_due,omitempty"`
	ClosedReason       *string    `gorm:"column:closed_reason" json:"closed_reason,omitempty"`
	ClosedAt           *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`

	SubmittedAt time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	UpdateAt    time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Handler  *User            `gorm:"foreignKey:HandlerID" json:"handler,omitempty"`
	Policy   *InsurancePolicy `gorm:"foreignKey:PolicyID" json:"policy,omitempty"`
	Assessor *LossAssessor    `gorm:"foreignKey:AssessorID" json:"assessor,omitempty"`
}

// TableName overrides
func (Claim) TableName() string {
	return "claims"
}

// IsClosed reports whether the claim reached its terminal status.
func (c *Claim) IsClosed() bool {
	return c.Status == ClaimStatusClosed
}
