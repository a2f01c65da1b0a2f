package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"claims-portal-api/models"

	"gorm.io/gorm"
)

// LifecycleService owns every mutation of a claim that must leave a trail:
// status transitions, assignments, closure and notes. Each operation writes
// the claim change, its transition record (where applicable) and the audit
// entry inside one database transaction, so a failed write leaves the claim
// observably unchanged.
//
// Actor ids are explicit parameters on every call. A nil actor marks a system
// action; nothing is read from ambient request state.
type LifecycleService struct {
	db *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db}
}

func changesJSON(field string, oldVal, newVal any) string {
	payload := map[string]map[string]any{
		field: {"old": oldVal, "new": newVal},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func notePtr(note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	return &note
}

func (s *LifecycleService) loadClaim(tx *gorm.DB, claimID int) (*models.Claim, error) {
	var claim models.Claim
	if err := tx.First(&claim, "claim_id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// UpdateStatus moves a claim to a new status. The transition graph is
// deliberately unconstrained: any status may move to any other, which is how
// staff un-reject or re-open claims today. The guard is the audit trail, not
// a transition table.
func (s *LifecycleService) UpdateStatus(claimID int, newStatus string, actorID *int, note string) (*models.Claim, error) {
	if !models.IsValidClaimStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	var updated *models.Claim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim, err := s.loadClaim(tx, claimID)
		if err != nil {
			return err
		}

		from := claim.Status
		now := time.Now()

		if err := tx.Model(&models.Claim{}).Where("claim_id = ?", claimID).
			Updates(map[string]any{"status": newStatus, "update_at": now}).Error; err != nil {
			return err
		}

		transition := models.ClaimStatusTransition{
			ClaimID:    claimID,
			FromStatus: from,
			ToStatus:   newStatus,
			ChangedBy:  actorID,
			Note:       notePtr(note),
			CreatedAt:  now,
		}
		if err := tx.Create(&transition).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			ClaimID:    claimID,
			UserID:     actorID,
			Action:     models.AuditActionStatusChanged,
			EntityType: "claim",
			EntityID:   claimID,
			Changes:    changesJSON("status", from, newStatus),
			CreatedAt:  now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		claim.Status = newStatus
		claim.UpdateAt = now
		updated = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStage changes the free-form workflow stage tag without touching the
// coarse status.
func (s *LifecycleService) UpdateStage(claimID int, stage string, actorID *int) (*models.Claim, error) {
	var updated *models.Claim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim, err := s.loadClaim(tx, claimID)
		if err != nil {
			return err
		}
		from := claim.CurrentStage
		now := time.Now()

		if err := tx.Model(&models.Claim{}).Where("claim_id = ?", claimID).
			Updates(map[string]any{"current_stage": stage, "update_at": now}).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			ClaimID:    claimID,
			UserID:     actorID,
			Action:     models.AuditActionStageChanged,
			EntityType: "claim",
			EntityID:   claimID,
			Changes:    changesJSON("current_stage", from, stage),
			CreatedAt:  now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		claim.CurrentStage = stage
		claim.UpdateAt = now
		updated = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignHandler sets the staff member responsible for the claim.
func (s *LifecycleService) AssignHandler(claimID, handlerID int, actorID *int) (*models.Claim, error) {
	return s.assign(claimID, actorID, assignment{
		column: "handler_id",
		action: models.AuditActionHandlerAssigned,
		newID:  handlerID,
		verify: func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.User{}).
				Where("user_id = ? AND delete_at IS NULL", handlerID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUserNotFound
			}
			return nil
		},
		get: func(c *models.Claim) *int { return c.HandlerID },
		set: func(c *models.Claim, id *int) { c.HandlerID = id },
	})
}

// AssignPolicy links the claim to an insurance policy.
func (s *LifecycleService) AssignPolicy(claimID, policyID int, actorID *int) (*models.Claim, error) {
	return s.assign(claimID, actorID, assignment{
		column: "policy_id",
		action: models.AuditActionPolicyAssigned,
		newID:  policyID,
		verify: func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.InsurancePolicy{}).
				Where("policy_id = ? AND delete_at IS NULL", policyID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrPolicyNotFound
			}
			return nil
		},
		get: func(c *models.Claim) *int { return c.PolicyID },
		set: func(c *models.Claim, id *int) { c.PolicyID = id },
	})
}

// AssignAssessor appoints a loss assessor on the claim.
func (s *LifecycleService) AssignAssessor(claimID, assessorID int, actorID *int) (*models.Claim, error) {
	return s.assign(claimID, actorID, assignment{
		column: "assessor_id",
		action: models.AuditActionAssessorAssigned,
		newID:  assessorID,
		verify: func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.LossAssessor{}).
				Where("assessor_id = ? AND delete_at IS NULL", assessorID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrAssessorNotFound
			}
			return nil
		},
		get: func(c *models.Claim) *int { return c.AssessorID },
		set: func(c *models.Claim, id *int) { c.AssessorID = id },
	})
}

type assignment struct {
	column string
	action string
	newID  int
	verify func(tx *gorm.DB) error
	get    func(*models.Claim) *int
	set    func(*models.Claim, *int)
}

func (s *LifecycleService) assign(claimID int, actorID *int, a assignment) (*models.Claim, error) {
	var updated *models.Claim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim, err := s.loadClaim(tx, claimID)
		if err != nil {
			return err
		}
		if err := a.verify(tx); err != nil {
			return err
		}

		var oldID any
		if prev := a.get(claim); prev != nil {
			oldID = *prev
		}
		now := time.Now()

		if err := tx.Model(&models.Claim{}).Where("claim_id = ?", claimID).
			Updates(map[string]any{a.column: a.newID, "update_at": now}).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			ClaimID:    claimID,
			UserID:     actorID,
			Action:     a.action,
			EntityType: "claim",
			EntityID:   claimID,
			Changes:    changesJSON(a.column, oldID, a.newID),
			CreatedAt:  now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		newID := a.newID
		a.set(claim, &newID)
		claim.UpdateAt = now
		updated = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// InsurerDetails carries the insurer-side reference data staff record once a
// claim has been passed on.
type InsurerDetails struct {
	Reference   string     `json:"insurer_reference"`
	SubmittedAt *time.Time `json:"insurer_submitted_at"`
	ResponseDue *time.Time `json:"insurer_response_due"`
}

// SetInsurerDetails records the insurer reference and dates, atomically with
// its audit entry.
func (s *LifecycleService) SetInsurerDetails(claimID int, details InsurerDetails, actorID *int) (*models.Claim, error) {
	var updated *models.Claim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim, err := s.loadClaim(tx, claimID)
		if err != nil {
			return err
		}

		var oldRef any
		if claim.InsurerReference != nil {
			oldRef = *claim.InsurerReference
		}
		now := time.Now()

		updates := map[string]any{
			"insurer_reference": details.Reference,
			"update_at":         now,
		}
		if details.SubmittedAt != nil {
			updates["insurer_submitted_at"] = details.SubmittedAt
		}
		if details.ResponseDue != nil {
			updates["insurer_response_due"] = details.ResponseDue
		}
		if err := tx.Model(&models.Claim{}).Where("claim_id = ?", claimID).
			Updates(updates).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			ClaimID:    claimID,
			UserID:     actorID,
			Action:     models.AuditActionInsurerDetails,
			EntityType: "claim",
			EntityID:   claimID,
			Changes:    changesJSON("insurer_reference", oldRef, details.Reference),
			CreatedAt:  now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		ref := details.Reference
		claim.InsurerReference = &ref
		claim.InsurerSubmittedAt = details.SubmittedAt
		claim.InsurerResponseDue = details.ResponseDue
		claim.UpdateAt = now
		updated = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Close moves the claim to its terminal status, stamps the closure reason and
// time, and writes the transition, the audit entry and an optional closure
// note in one atomic group.
func (s *LifecycleService) Close(claimID int, reason string, actorID *int, note string) (*models.Claim, error) {
	var updated *models.Claim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim, err := s.loadClaim(tx, claimID)
		if err != nil {
			return err
		}

		// Closing twice must not stack closure rows; the first closure wins.
		if claim.IsClosed() {
			updated = claim
			return nil
		}

		from := claim.Status
		now := time.Now()

		if err := tx.Model(&models.Claim{}).Where("claim_id = ?", claimID).
			Updates(map[string]any{
				"status":        models.ClaimStatusClosed,
				"closed_reason": reason,
				"closed_at":     now,
				"update_at":     now,
			}).Error; err != nil {
			return err
		}

		transition := models.ClaimStatusTransition{
			ClaimID:    claimID,
			FromStatus: from,
			ToStatus:   models.ClaimStatusClosed,
			ChangedBy:  actorID,
			Note:       notePtr(reason),
			CreatedAt:  now,
		}
		if err := tx.Create(&transition).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			ClaimID:    claimID,
			UserID:     actorID,
			Action:     models.AuditActionClaimClosed,
			EntityType: "claim",
			EntityID:   claimID,
			Changes:    changesJSON("status", from, models.ClaimStatusClosed),
			CreatedAt:  now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		if trimmed := strings.TrimSpace(note); trimmed != "" && actorID != nil {
			closure := models.ClaimNote{
				ClaimID:    claimID,
				AuthorID:   *actorID,
				Visibility: models.NoteVisibilityInternal,
				NoteType:   "closure",
				Content:    trimmed,
				CreateAt:   now,
				UpdateAt:   now,
			}
			if err := tx.Create(&closure).Error; err != nil {
				return err
			}
			noteAudit := models.AuditLog{
				ClaimID:    claimID,
				UserID:     actorID,
				Action:     models.AuditActionNoteAdded,
				EntityType: "claim_note",
				EntityID:   closure.NoteID,
				Changes:    changesJSON("content", nil, trimmed),
				CreatedAt:  now,
			}
			if err := tx.Create(&noteAudit).Error; err != nil {
				return err
			}
		}

		reasonCopy := reason
		claim.Status = models.ClaimStatusClosed
		claim.ClosedReason = &reasonCopy
		claim.ClosedAt = &now
		claim.UpdateAt = now
		updated = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// NoteInput is the caller-supplied part of a claim note.
type NoteInput struct {
	Visibility   string     `json:"visibility"`
	NoteType     string     `json:"note_type"`
	Content      string     `json:"content"`
	FollowUpDate *time.Time `json:"follow_up_date"`
}

func (n NoteInput) validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidNote)
	}
	switch n.Visibility {
	case models.NoteVisibilityInternal, models.NoteVisibilityInsurer:
		return nil
	}
	return fmt.Errorf("%w: visibility must be %q or %q", ErrInvalidNote,
		models.NoteVisibilityInternal, models.NoteVisibilityInsurer)
}

// AddNote creates a note and its companion audit entry in one transaction,
// so a note can never exist without its audit record.
func (s *LifecycleService) AddNote(claimID int, input NoteInput, authorID int) (*models.ClaimNote, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var created *models.ClaimNote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadClaim(tx, claimID); err != nil {
			return err
		}

		now := time.Now()
		note := models.ClaimNote{
			ClaimID:      claimID,
			AuthorID:     authorID,
			Visibility:   input.Visibility,
			NoteType:     strings.TrimSpace(input.NoteType),
			Content:      strings.TrimSpace(input.Content),
			FollowUpDate: input.FollowUpDate,
			CreateAt:     now,
			UpdateAt:     now,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			ClaimID:    claimID,
			UserID:     &authorID,
			Action:     models.AuditActionNoteAdded,
			EntityType: "claim_note",
			EntityID:   note.NoteID,
			Changes:    changesJSON("content", nil, note.Content),
			CreatedAt:  now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		created = &note
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// NoteUpdate carries the editable note fields; nil pointers leave the field
// unchanged.
type NoteUpdate struct {
	Content      *string    `json:"content"`
	Visibility   *string    `json:"visibility"`
	NoteType     *string    `json:"note_type"`
	FollowUpDate *time.Time `json:"follow_up_date"`
	FollowUpDone *bool      `json:"follow_up_done"`
}

// UpdateNote edits a note and records the change, atomically.
func (s *LifecycleService) UpdateNote(noteID int, update NoteUpdate, actorID int) (*models.ClaimNote, error) {
	var edited *models.ClaimNote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var note models.ClaimNote
		if err := tx.First(&note, "note_id = ? AND delete_at IS NULL", noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoteNotFound
			}
			return err
		}

		oldContent := note.Content
		now := time.Now()
		fields := map[string]any{"update_at": now}

		if update.Content != nil {
			content := strings.TrimSpace(*update.Content)
			if content == "" {
				return fmt.Errorf("%w: content is required", ErrInvalidNote)
			}
			fields["content"] = content
			note.Content = content
		}
		if update.Visibility != nil {
			switch *update.Visibility {
			case models.NoteVisibilityInternal, models.NoteVisibilityInsurer:
			default:
				return fmt.Errorf("%w: invalid visibility", ErrInvalidNote)
			}
			fields["visibility"] = *update.Visibility
			note.Visibility = *update.Visibility
		}
		if update.NoteType != nil {
			fields["note_type"] = *update.NoteType
			note.NoteType = *update.NoteType
		}
		if update.FollowUpDate != nil {
			fields["follow_up_date"] = update.FollowUpDate
			note.FollowUpDate = update.FollowUpDate
		}
		if update.FollowUpDone != nil {
			fields["follow_up_done"] = *update.FollowUpDone
			note.FollowUpDone = *update.FollowUpDone
		}

		if err := tx.Model(&models.ClaimNote{}).Where("note_id = ?", noteID).
			Updates(fields).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			ClaimID:    note.ClaimID,
			UserID:     &actorID,
			Action:     models.AuditActionNoteUpdated,
			EntityType: "claim_note",
			EntityID:   noteID,
			Changes:    changesJSON("content", oldContent, note.Content),
			CreatedAt:  now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		note.UpdateAt = now
		edited = &note
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// DeleteNote soft-deletes a note and records the deletion, atomically.
func (s *LifecycleService) DeleteNote(noteID int, actorID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var note models.ClaimNote
		if err := tx.First(&note, "note_id = ? AND delete_at IS NULL", noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoteNotFound
			}
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.ClaimNote{}).Where("note_id = ?", noteID).
			Updates(map[string]any{"delete_at": now, "update_at": now}).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			ClaimID:    note.ClaimID,
			UserID:     &actorID,
			Action:     models.AuditActionNoteDeleted,
			EntityType: "claim_note",
			EntityID:   noteID,
			Changes:    changesJSON("content", note.Content, nil),
			CreatedAt:  now,
		}
		return tx.Create(&audit).Error
	})
}
