package claimform

import "strings"

// Assemble folds the accumulated per-step answers into one full-claim
// payload. Fields the gating flags made irrelevant default to empty strings
// and empty (never nil) arrays, and unvisited booleans default to false, so
// absence can never be confused with an explicit value on the wire.
//
// The result is re-validated against the full-claim schema. When every step
// individually passed Advance, the assembled payload passes too; a failure
// here means the underlying data changed after its step was completed (for
// example a file was removed), and each failing field is reported so the
// caller can route the user back to the owning step via StepForField.
func Assemble(state State) (*ClaimPayload, ValidationError) {
	p := &ClaimPayload{}

	if c := state.Contact; c != nil {
		p.ClaimantName = strings.TrimSpace(c.ClaimantName)
		p.ClaimantEmail = strings.TrimSpace(c.ClaimantEmail)
		p.ClaimantPhone = strings.TrimSpace(c.ClaimantPhone)
	}

	if pr := state.Property; pr != nil {
		p.Address = strings.TrimSpace(pr.Address)
		p.Block = strings.TrimSpace(pr.Block)
		p.Unit = strings.TrimSpace(pr.Unit)
		p.PlaceID = pr.PlaceID
		p.ConstructionInfo = pr.ConstructionInfo
	}

	if in := state.Incident; in != nil {
		p.IncidentDate = in.IncidentDate
		p.IncidentType = in.IncidentType
		p.IncidentDescription = strings.TrimSpace(in.IncidentDescription)
	}

	if bd := state.BuildingDamage; bd != nil && bd.HasBuildingDamage {
		p.HasBuildingDamage = true
		p.BuildingDamageDescription = strings.TrimSpace(bd.BuildingDamageDescription)
		p.DamagePhotos = ensureSlice(bd.DamagePhotos)
		p.RepairQuotes = ensureSlice(bd.RepairQuotes)
	} else {
		p.DamagePhotos = []string{}
		p.RepairQuotes = []string{}
	}

	if th := state.Theft; th != nil && th.HasTheftVandalism {
		p.HasTheftVandalism = true
		p.TheftDescription = strings.TrimSpace(th.TheftDescription)
		p.PoliceReported = th.PoliceReported
		if th.PoliceReported {
			p.PoliceReference = strings.TrimSpace(th.PoliceReference)
			p.PoliceReports = ensureSlice(th.PoliceReports)
		} else {
			p.PoliceReports = []string{}
		}
	} else {
		p.PoliceReports = []string{}
	}

	if oc := state.Occupancy; oc != nil && oc.IsInvestmentProperty {
		p.IsInvestmentProperty = true
		p.TenantName = strings.TrimSpace(oc.TenantName)
		p.TenantPhone = strings.TrimSpace(oc.TenantPhone)
		p.TenantEmail = strings.TrimSpace(oc.TenantEmail)
		p.TenancyAgreements = ensureSlice(oc.TenancyAgreements)
	} else {
		p.TenancyAgreements = []string{}
	}

	if d := state.Documents; d != nil {
		p.Invoices = ensureSlice(d.Invoices)
		p.OtherDocuments = ensureSlice(d.OtherDocuments)
	} else {
		p.Invoices = []string{}
		p.OtherDocuments = []string{}
	}

	if de := state.Declaration; de != nil {
		p.SignatureData = de.SignatureData
		p.SignatureMethod = de.SignatureMethod
		p.DeclarationTruth = de.DeclarationTruth
		p.DeclarationAuthority = de.DeclarationAuthority
		p.DeclarationConsent = de.DeclarationConsent
	}

	if errs := ValidateClaim(p); errs != nil {
		return nil, errs
	}
	return p, nil
}

func ensureSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
