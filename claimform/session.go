package claimform

// State is the accumulated wizard state: one slot per step, nil until the
// claimant has completed that step. Slots are disjoint, so merging a step
// never touches another step's answers.
type State struct {
	Contact        *ContactStep
	Property       *PropertyStep
	Incident       *IncidentStep
	BuildingDamage *BuildingDamageStep
	Theft          *TheftStep
	Occupancy      *OccupancyStep
	Documents      *DocumentsStep
	Declaration    *DeclarationStep
}

// Session holds one claimant's progress through the eight steps. It is
// single-user, synchronous state: one browser tab, one session. Nothing is
// persisted until final submission; abandoning the session discards it.
type Session struct {
	cursor Step
	state  State
}

// NewSession starts an empty session at the first step.
func NewSession() *Session {
	return &Session{cursor: StepContact}
}

// Step returns the step the claimant is currently on.
func (s *Session) Step() Step {
	return s.cursor
}

// Answers returns the accumulated state so far.
func (s *Session) Answers() State {
	return s.state
}

// Advance validates data against the current step's schema. On success the
// answers are merged into the session and the cursor moves forward one step,
// clamped to the last step. On failure the cursor does not move and every
// failing field is reported.
func (s *Session) Advance(data any) ValidationError {
	if errs := ValidateStep(s.cursor, data); errs != nil {
		return errs
	}
	s.store(data)
	if s.cursor < StepDeclaration {
		s.cursor++
	}
	return nil
}

// Retreat moves back one step, clamped to the first. Previously entered data
// is kept so the step can be pre-filled and revised.
func (s *Session) Retreat() {
	if s.cursor > StepContact {
		s.cursor--
	}
}

// CurrentAnswers returns the stored answers for the step about to be
// (re)displayed, or nil when the step has not been visited.
func (s *Session) CurrentAnswers() any {
	switch s.cursor {
	case StepContact:
		if s.state.Contact != nil {
			return *s.state.Contact
		}
	case StepProperty:
		if s.state.Property != nil {
			return *s.state.Property
		}
	case StepIncident:
		if s.state.Incident != nil {
			return *s.state.Incident
		}
	case StepBuildingDamage:
		if s.state.BuildingDamage != nil {
			return *s.state.BuildingDamage
		}
	case StepTheft:
		if s.state.Theft != nil {
			return *s.state.Theft
		}
	case StepOccupancy:
		if s.state.Occupancy != nil {
			return *s.state.Occupancy
		}
	case StepDocuments:
		if s.state.Documents != nil {
			return *s.state.Documents
		}
	case StepDeclaration:
		if s.state.Declaration != nil {
			return *s.state.Declaration
		}
	}
	return nil
}

func (s *Session) store(data any) {
	switch v := data.(type) {
	case ContactStep:
		s.state.Contact = &v
	case *ContactStep:
		c := *v
		s.state.Contact = &c
	case PropertyStep:
		s.state.Property = &v
	case *PropertyStep:
		c := *v
		s.state.Property = &c
	case IncidentStep:
		s.state.Incident = &v
	case *IncidentStep:
		c := *v
		s.state.Incident = &c
	case BuildingDamageStep:
		s.state.BuildingDamage = &v
	case *BuildingDamageStep:
		c := *v
		s.state.BuildingDamage = &c
	case TheftStep:
		s.state.Theft = &v
	case *TheftStep:
		c := *v
		s.state.Theft = &c
	case OccupancyStep:
		s.state.Occupancy = &v
	case *OccupancyStep:
		c := *v
		s.state.Occupancy = &c
	case DocumentsStep:
		s.state.Documents = &v
	case *DocumentsStep:
		c := *v
		s.state.Documents = &c
	case DeclarationStep:
		s.state.Declaration = &v
	case *DeclarationStep:
		c := *v
		s.state.Declaration = &c
	}
}
