package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"claims-portal-api/models"
)

func claimRow(id int64, status string) ([]string, [][]driver.Value) {
	columns := []string{"claim_id", "reference_number", "status", "current_stage"}
	rows := [][]driver.Value{{id, "BIC-TEST-0001", status, "new"}}
	return columns, rows
}

func TestUpdateStatusWritesTransitionAndAuditAtomically(t *testing.T) {
	columns, rows := claimRow(7, models.ClaimStatusSubmitted)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .claims. WHERE claim_id = \?`),
			columns: columns,
			rows:    rows,
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE .claims. SET .status.=\?,.update_at.=\? WHERE claim_id = \?`),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO .claim_status_transitions.`),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO .audit_logs.`),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	actor := 3
	claim, err := NewLifecycleService(db).UpdateStatus(7, models.ClaimStatusApproved, &actor, "looks complete")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if claim.Status != models.ClaimStatusApproved {
		t.Fatalf("expected status %q, got %q", models.ClaimStatusApproved, claim.Status)
	}
	if !claim.UpdateAt.After(claim.SubmittedAt) {
		t.Fatalf("expected update_at to move past submitted_at")
	}

	commits, rollbacks := state.txCounts()
	if commits != 1 || rollbacks != 0 {
		t.Fatalf("expected 1 commit and 0 rollbacks, got %d/%d", commits, rollbacks)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestUpdateStatusRollsBackWhenAuditWriteFails(t *testing.T) {
	columns, rows := claimRow(7, models.ClaimStatusSubmitted)
	auditErr := errors.New("audit insert refused")
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .claims. WHERE claim_id = \?`),
			columns: columns,
			rows:    rows,
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE .claims. SET`),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO .claim_status_transitions.`),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO .audit_logs.`),
			err:     auditErr,
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	claim, err := NewLifecycleService(db).UpdateStatus(7, models.ClaimStatusApproved, nil, "")
	if err == nil {
		t.Fatal("expected an error when the audit write fails")
	}
	if errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("write failure must not look like a missing claim: %v", err)
	}
	if claim != nil {
		t.Fatalf("expected no claim on failure, got %+v", claim)
	}

	commits, rollbacks := state.txCounts()
	if commits != 0 || rollbacks != 1 {
		t.Fatalf("expected the transaction to roll back, got %d commits / %d rollbacks", commits, rollbacks)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestUpdateStatusUnknownClaim(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .claims. WHERE claim_id = \?`),
			columns: []string{"claim_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewLifecycleService(db).UpdateStatus(99, models.ClaimStatusPending, nil, "")
	if !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound, got %v", err)
	}

	commits, _ := state.txCounts()
	if commits != 0 {
		t.Fatalf("expected no commit for a missing claim, got %d", commits)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	_, err := NewLifecycleService(db).UpdateStatus(1, "escalated", nil, "")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCloseAlreadyClosedClaimWritesNothing(t *testing.T) {
	columns, rows := claimRow(7, models.ClaimStatusClosed)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .claims. WHERE claim_id = \?`),
			columns: columns,
			rows:    rows,
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	actor := 3
	claim, err := NewLifecycleService(db).Close(7, "duplicate request", &actor, "second close attempt")
	if err != nil {
		t.Fatalf("re-closing must not fail: %v", err)
	}
	if claim.Status != models.ClaimStatusClosed {
		t.Fatalf("expected the claim to stay closed, got %q", claim.Status)
	}

	// The scripted driver rejects any statement beyond the lookup, so a
	// second closure row or transition would have failed above.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
	if _, rollbacks := state.txCounts(); rollbacks != 0 {
		t.Fatalf("expected no rollback, got %d", rollbacks)
	}
}

func TestAddNoteRequiresContentAndVisibility(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewLifecycleService(db)

	_, err := svc.AddNote(1, NoteInput{Visibility: models.NoteVisibilityInternal, Content: "   "}, 2)
	if !errors.Is(err, ErrInvalidNote) {
		t.Fatalf("expected ErrInvalidNote for blank content, got %v", err)
	}

	_, err = svc.AddNote(1, NoteInput{Visibility: "public", Content: "call the insurer"}, 2)
	if !errors.Is(err, ErrInvalidNote) {
		t.Fatalf("expected ErrInvalidNote for bad visibility, got %v", err)
	}
}
