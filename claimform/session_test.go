package claimform

import "testing"

func TestAdvanceMovesCursorOnValidAnswers(t *testing.T) {
	s := NewSession()

	if errs := s.Advance(validContact()); errs != nil {
		t.Fatalf("contact step should pass: %v", errs)
	}
	if s.Step() != StepProperty {
		t.Fatalf("expected cursor on property step, got %v", s.Step())
	}
	if s.Answers().Contact == nil {
		t.Fatal("expected contact answers to be stored")
	}
}

func TestAdvanceStaysPutOnInvalidAnswers(t *testing.T) {
	s := NewSession()

	errs := s.Advance(ContactStep{ClaimantName: "J"})
	if errs == nil {
		t.Fatal("expected validation failure")
	}
	if s.Step() != StepContact {
		t.Fatalf("cursor must not move on failure, got %v", s.Step())
	}
	if s.Answers().Contact != nil {
		t.Fatal("failing answers must not be stored")
	}
}

func TestRetreatKeepsDataAndClampsAtFirstStep(t *testing.T) {
	s := NewSession()
	if errs := s.Advance(validContact()); errs != nil {
		t.Fatalf("contact step should pass: %v", errs)
	}

	s.Retreat()
	if s.Step() != StepContact {
		t.Fatalf("expected cursor back on contact, got %v", s.Step())
	}

	// Already at the first step; another retreat is a no-op.
	s.Retreat()
	if s.Step() != StepContact {
		t.Fatalf("retreat must clamp at the first step, got %v", s.Step())
	}

	got, ok := s.CurrentAnswers().(ContactStep)
	if !ok {
		t.Fatalf("expected stored ContactStep for pre-fill, got %T", s.CurrentAnswers())
	}
	if got.ClaimantEmail != validContact().ClaimantEmail {
		t.Fatalf("pre-fill lost data: %+v", got)
	}
}

func TestCurrentAnswersNilForUnvisitedStep(t *testing.T) {
	s := NewSession()
	if s.CurrentAnswers() != nil {
		t.Fatalf("expected nil answers for a fresh step, got %v", s.CurrentAnswers())
	}
}

func TestAdvanceAcceptsPointerAndCopiesIt(t *testing.T) {
	s := NewSession()
	contact := validContact()
	if errs := s.Advance(&contact); errs != nil {
		t.Fatalf("pointer payload should pass: %v", errs)
	}

	// Mutating the caller's struct afterwards must not change the session.
	contact.ClaimantName = "someone else"
	if s.Answers().Contact.ClaimantName != "Jordan Pryce" {
		t.Fatalf("session state aliased the caller's struct: %+v", s.Answers().Contact)
	}
}

func TestCursorClampsAtDeclaration(t *testing.T) {
	s := walkFullSession(t)

	if s.Step() != StepDeclaration {
		t.Fatalf("expected cursor on declaration, got %v", s.Step())
	}

	// Revising the final step keeps the cursor in place.
	if errs := s.Advance(validDeclaration()); errs != nil {
		t.Fatalf("declaration revision should pass: %v", errs)
	}
	if s.Step() != StepDeclaration {
		t.Fatalf("cursor must clamp at the last step, got %v", s.Step())
	}
}

// walkFullSession advances through all eight steps with the building-damage
// sub-claim active and theft/occupancy gated off.
func walkFullSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()

	stepsData := []any{
		validContact(),
		validProperty(),
		validIncident(),
		validBuildingDamage(),
		TheftStep{},
		OccupancyStep{},
		DocumentsStep{},
		validDeclaration(),
	}
	for i, data := range stepsData {
		if errs := s.Advance(data); errs != nil {
			t.Fatalf("step %d should pass: %v", i, errs)
		}
	}
	return s
}
