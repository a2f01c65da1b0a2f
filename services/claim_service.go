package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"claims-portal-api/claimform"
	"claims-portal-api/models"

	"gorm.io/gorm"
)

// ClaimService is the persistence boundary for claims: create, point lookups,
// filtered listing and partial updates. Status changes, assignments and notes
// go through LifecycleService instead so their audit writes stay atomic.
type ClaimService struct {
	db *gorm.DB
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{db: db}
}

// Creation retries reference generation this many times before giving up; a
// collision needs the same millisecond timestamp plus the same random suffix,
// so more than one retry is already unlikely.
const createReferenceRetries = 3

// Create persists a validated claim payload. The caller is expected to have
// run claimform.ValidateClaim already; Create re-runs it anyway because this
// is the integrity boundary and client-side checks are advisory only.
func (s *ClaimService) Create(p *claimform.ClaimPayload) (*models.Claim, error) {
	if errs := claimform.ValidateClaim(p); errs != nil {
		return nil, errs
	}

	incidentDate, err := time.Parse(claimform.DateLayout, p.IncidentDate)
	if err != nil {
		return nil, claimform.ValidationError{{Field: "incident_date", Message: "must be a date in " + claimform.DateLayout + " format"}}
	}

	now := time.Now()
	claim := &models.Claim{
		Status:       models.ClaimStatusSubmitted,
		CurrentStage: "new",

		ClaimantName:  p.ClaimantName,
		ClaimantEmail: p.ClaimantEmail,
		ClaimantPhone: p.ClaimantPhone,

		Address:          p.Address,
		Block:            optional(p.Block),
		Unit:             optional(p.Unit),
		PlaceID:          optional(p.PlaceID),
		ConstructionInfo: optional(p.ConstructionInfo),

		IncidentDate:        incidentDate,
		IncidentType:        p.IncidentType,
		IncidentDescription: p.IncidentDescription,

		HasBuildingDamage:         p.HasBuildingDamage,
		BuildingDamageDescription: p.BuildingDamageDescription,

		HasTheftVandalism: p.HasTheftVandalism,
		TheftDescription:  p.TheftDescription,
		PoliceReported:    p.PoliceReported,
		PoliceReference:   p.PoliceReference,

		IsInvestmentProperty: p.IsInvestmentProperty,
		TenantName:           p.TenantName,
		TenantPhone:          p.TenantPhone,
		TenantEmail:          p.TenantEmail,

		DamagePhotos:      models.StringArray(p.DamagePhotos),
		RepairQuotes:      models.StringArray(p.RepairQuotes),
		Invoices:          models.StringArray(p.Invoices),
		PoliceReports:     models.StringArray(p.PoliceReports),
		OtherDocuments:    models.StringArray(p.OtherDocuments),
		TenancyAgreements: models.StringArray(p.TenancyAgreements),

		SignatureData:        p.SignatureData,
		SignatureMethod:      p.SignatureMethod,
		DeclarationTruth:     p.DeclarationTruth,
		DeclarationAuthority: p.DeclarationAuthority,
		DeclarationConsent:   p.DeclarationConsent,

		SubmittedAt: now,
		UpdateAt:    now,
	}

	for attempt := 0; attempt < createReferenceRetries; attempt++ {
		claim.ReferenceNumber = GenerateReference(time.Now())
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(claim).Error; err != nil {
				return err
			}
			audit := models.AuditLog{
				ClaimID:    claim.ClaimID,
				Action:     models.AuditActionClaimCreated,
				EntityType: "claim",
				EntityID:   claim.ClaimID,
				Changes:    changesJSON("status", "", models.ClaimStatusSubmitted),
				CreatedAt:  now,
			}
			return tx.Create(&audit).Error
		})
		if err == nil {
			return claim, nil
		}
		if isDuplicateReference(err) {
			claim.ClaimID = 0
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("could not allocate a unique reference after %d attempts", createReferenceRetries)
}

func isDuplicateReference(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// GetByID returns the claim or ErrClaimNotFound.
func (s *ClaimService) GetByID(id int) (*models.Claim, error) {
	var claim models.Claim
	err := s.db.Preload("Handler").Preload("Policy").Preload("Assessor").
		First(&claim, "claim_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// GetByReference returns the claim with the given public reference number, or
// ErrClaimNotFound.
func (s *ClaimService) GetByReference(reference string) (*models.Claim, error) {
	var claim models.Claim
	err := s.db.First(&claim, "reference_number = ?", strings.TrimSpace(reference)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// ClaimFilter narrows List. Search matches reference, claimant name and
// address case-insensitively; Status filters on the closed status set.
type ClaimFilter struct {
	Search string
	Status string
	Stage  string
	Limit  int
	Offset int
}

const defaultListLimit = 50

// List returns matching claims newest-first plus the total match count for
// pagination.
func (s *ClaimService) List(f ClaimFilter) ([]models.Claim, int64, error) {
	query := s.db.Model(&models.Claim{})

	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(reference_number) LIKE ? OR LOWER(claimant_name) LIKE ? OR LOWER(address) LIKE ?",
			like, like, like,
		)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Stage != "" {
		query = query.Where("current_stage = ?", f.Stage)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Limit 0 means default page size; a negative limit disables pagination
	// entirely (exports need the whole filtered set).
	limit := f.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	var claims []models.Claim
	err := query.Order("submitted_at DESC").
		Limit(limit).Offset(f.Offset).
		Preload("Handler").
		Find(&claims).Error
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// Update applies a partial field update and bumps update_at. It does not
// re-check the conditional sub-claim rules; only the lifecycle service and
// controllers with an explicit field whitelist should call it.
func (s *ClaimService) Update(id int, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["update_at"] = time.Now()

	result := s.db.Model(&models.Claim{}).Where("claim_id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Claim{}).Where("claim_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrClaimNotFound
		}
	}
	return nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
