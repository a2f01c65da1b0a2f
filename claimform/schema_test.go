package claimform

import (
	"strings"
	"testing"
)

func validSignature() string {
	return "data:image/png;base64," + strings.Repeat("iVBORw0KGgo", 12)
}

func validContact() ContactStep {
	return ContactStep{
		ClaimantName:  "Jordan Pryce",
		ClaimantEmail: "jordan.pryce@example.com",
		ClaimantPhone: "07700900123",
	}
}

func validProperty() PropertyStep {
	return PropertyStep{
		Address: "Flat 12, Harbour Point, 1 Quay Street, Cardiff",
		Block:   "B",
		Unit:    "12",
	}
}

func validIncident() IncidentStep {
	return IncidentStep{
		IncidentDate: "2026-08-14",
		IncidentType: "escape_of_water",
		IncidentDescription: "A pipe burst in the ceiling void above the kitchen " +
			"and water ran down the party wall for several hours before the stop " +
			"valve could be closed.",
	}
}

func validBuildingDamage() BuildingDamageStep {
	return BuildingDamageStep{
		HasBuildingDamage:         true,
		BuildingDamageDescription: "Plaster and coving collapsed across the kitchen ceiling.",
		DamagePhotos:              []string{"claims/incoming/damage_photos/a.jpg", "claims/incoming/damage_photos/b.jpg"},
		RepairQuotes:              []string{"claims/incoming/repair_quotes/quote.pdf"},
	}
}

func validDeclaration() DeclarationStep {
	return DeclarationStep{
		SignatureData:        validSignature(),
		SignatureMethod:      "drawn",
		DeclarationTruth:     true,
		DeclarationAuthority: true,
		DeclarationConsent:   true,
	}
}

// validPayload returns a complete claim with the building-damage sub-claim
// active and the other two gated off.
func validPayload() ClaimPayload {
	contact := validContact()
	property := validProperty()
	incident := validIncident()
	damage := validBuildingDamage()
	decl := validDeclaration()

	return ClaimPayload{
		ClaimantName:  contact.ClaimantName,
		ClaimantEmail: contact.ClaimantEmail,
		ClaimantPhone: contact.ClaimantPhone,

		Address: property.Address,
		Block:   property.Block,
		Unit:    property.Unit,

		IncidentDate:        incident.IncidentDate,
		IncidentType:        incident.IncidentType,
		IncidentDescription: incident.IncidentDescription,

		HasBuildingDamage:         true,
		BuildingDamageDescription: damage.BuildingDamageDescription,
		DamagePhotos:              damage.DamagePhotos,
		RepairQuotes:              damage.RepairQuotes,

		PoliceReports:     []string{},
		TenancyAgreements: []string{},
		Invoices:          []string{},
		OtherDocuments:    []string{},

		SignatureData:        decl.SignatureData,
		SignatureMethod:      decl.SignatureMethod,
		DeclarationTruth:     true,
		DeclarationAuthority: true,
		DeclarationConsent:   true,
	}
}

func fieldsOf(errs ValidationError) map[string]bool {
	out := make(map[string]bool, len(errs))
	for _, fe := range errs {
		out[fe.Field] = true
	}
	return out
}

func TestValidPayloadPasses(t *testing.T) {
	p := validPayload()
	if errs := ValidateClaim(&p); errs != nil {
		t.Fatalf("expected valid payload, got: %v", errs)
	}
}

func TestBuildingDamageRequiresPhotosAndQuotes(t *testing.T) {
	p := validPayload()
	p.DamagePhotos = []string{"claims/incoming/damage_photos/a.jpg"} // one short of the minimum
	p.RepairQuotes = []string{}

	errs := ValidateClaim(&p)
	if errs == nil {
		t.Fatal("expected validation failure")
	}
	fields := fieldsOf(errs)
	if !fields["damage_photos"] {
		t.Errorf("expected a damage_photos error, got %v", errs)
	}
	if !fields["repair_quotes"] {
		t.Errorf("expected a repair_quotes error, got %v", errs)
	}

	// With the minimums met the same payload passes.
	p.DamagePhotos = append(p.DamagePhotos, "claims/incoming/damage_photos/b.jpg")
	p.RepairQuotes = []string{"claims/incoming/repair_quotes/quote.pdf"}
	if errs := ValidateClaim(&p); errs != nil {
		t.Fatalf("expected payload to pass after adding files, got: %v", errs)
	}
}

func TestGatedFieldsIgnoredWhenFlagOff(t *testing.T) {
	p := validPayload()
	p.HasBuildingDamage = false
	p.BuildingDamageDescription = ""
	p.DamagePhotos = []string{}
	p.RepairQuotes = []string{}

	if errs := ValidateClaim(&p); errs != nil {
		t.Fatalf("flag off must disable the sub-claim rules, got: %v", errs)
	}
}

func TestTheftPoliceReportedGatesNestedFields(t *testing.T) {
	p := validPayload()
	p.HasTheftVandalism = true
	p.TheftDescription = "Tools and copper piping were stolen from the bin store."
	p.PoliceReported = true
	p.PoliceReference = ""
	p.PoliceReports = []string{}

	errs := ValidateClaim(&p)
	fields := fieldsOf(errs)
	if !fields["police_reference"] || !fields["police_reports"] {
		t.Fatalf("expected police_reference and police_reports errors, got %v", errs)
	}

	// Not reported to the police: the nested requirements vanish.
	p.PoliceReported = false
	if errs := ValidateClaim(&p); errs != nil {
		t.Fatalf("expected pass when police_reported is false, got: %v", errs)
	}
}

func TestOccupancyRequiresTenantDetails(t *testing.T) {
	p := validPayload()
	p.IsInvestmentProperty = true
	p.TenantName = ""
	p.TenantPhone = ""
	p.TenantEmail = "not-an-email"
	p.TenancyAgreements = []string{}

	errs := ValidateClaim(&p)
	fields := fieldsOf(errs)
	for _, want := range []string{"tenant_name", "tenant_phone", "tenant_email", "tenancy_agreements"} {
		if !fields[want] {
			t.Errorf("expected %s error, got %v", want, errs)
		}
	}
}

func TestDeclarationBoolsEachBlockIndependently(t *testing.T) {
	cases := []struct {
		field string
		unset func(*ClaimPayload)
	}{
		{"declaration_truth", func(p *ClaimPayload) { p.DeclarationTruth = false }},
		{"declaration_authority", func(p *ClaimPayload) { p.DeclarationAuthority = false }},
		{"declaration_consent", func(p *ClaimPayload) { p.DeclarationConsent = false }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			p := validPayload()
			tc.unset(&p)

			errs := ValidateClaim(&p)
			if errs == nil {
				t.Fatal("expected validation failure")
			}
			if !fieldsOf(errs)[tc.field] {
				t.Fatalf("expected %s error, got %v", tc.field, errs)
			}
		})
	}
}

func TestSignatureMustBeSubstantialDataURI(t *testing.T) {
	p := validPayload()
	p.SignatureData = "data:image/png;base64,AAAA" // near-empty canvas

	errs := ValidateClaim(&p)
	if !fieldsOf(errs)["signature_data"] {
		t.Fatalf("expected signature_data error, got %v", errs)
	}

	p.SignatureData = "just a name typed in" // not a data URI
	errs = ValidateClaim(&p)
	if !fieldsOf(errs)["signature_data"] {
		t.Fatalf("expected signature_data error for non data URI, got %v", errs)
	}
}

func TestIncidentDescriptionMinimumLength(t *testing.T) {
	p := validPayload()
	p.IncidentDescription = strings.Repeat("x", MinIncidentDescriptionLen-1)

	errs := ValidateClaim(&p)
	if !fieldsOf(errs)["incident_description"] {
		t.Fatalf("expected incident_description error, got %v", errs)
	}
}

func TestValidationReportsEveryFailingField(t *testing.T) {
	p := ClaimPayload{}
	errs := ValidateClaim(&p)
	if len(errs) < 5 {
		t.Fatalf("expected every failing field to be reported, got only %d: %v", len(errs), errs)
	}

	fields := fieldsOf(errs)
	for _, want := range []string{"claimant_name", "claimant_email", "address", "incident_date", "signature_data"} {
		if !fields[want] {
			t.Errorf("expected %s among the reported fields", want)
		}
	}
}

func TestValidateStepRejectsWrongPayloadType(t *testing.T) {
	errs := ValidateStep(StepContact, validIncident())
	if len(errs) != 1 || errs[0].Field != "step" {
		t.Fatalf("expected a single step-type error, got %v", errs)
	}
}

func TestValidateStepAcceptsPointerPayload(t *testing.T) {
	contact := validContact()
	if errs := ValidateStep(StepContact, &contact); errs != nil {
		t.Fatalf("pointer payload should validate, got %v", errs)
	}
}

func TestStepForFieldRoutesToOwningStep(t *testing.T) {
	cases := map[string]Step{
		"claimant_email": StepContact,
		"address":        StepProperty,
		"incident_type":  StepIncident,
		"damage_photos":  StepBuildingDamage,
		"police_reports": StepTheft,
		"tenant_email":   StepOccupancy,
		"invoices":       StepDocuments,
		"signature_data": StepDeclaration,
		"nonexistent":    StepDeclaration,
	}
	for field, want := range cases {
		if got := StepForField(field); got != want {
			t.Errorf("StepForField(%q) = %v, want %v", field, got, want)
		}
	}
}
