// Package claimform holds the multi-step claim form's validation core: one
// schema per wizard step, the in-memory form session, and the submission
// assembler that folds per-step answers into one full-claim payload. The same
// rules run for the public form endpoints and the server-side integrity check
// on submission, so a payload that bypasses the form UI is still held to the
// identical contract.
package claimform

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Step indexes the eight wizard steps in display order.
type Step int

const (
	StepContact Step = iota
	StepProperty
	StepIncident
	StepBuildingDamage
	StepTheft
	StepOccupancy
	StepDocuments
	StepDeclaration
)

// StepCount is the number of wizard steps.
const StepCount = 8

var stepNames = [StepCount]string{
	"contact",
	"property",
	"incident",
	"building_damage",
	"theft_vandalism",
	"occupancy",
	"documents",
	"declaration",
}

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// FieldError is one failed rule, addressed by the JSON field path the client
// sent. Validation always reports every failing field, not just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates all field failures for one payload.
type ValidationError []FieldError

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ContactStep collects the claimant's contact details.
type ContactStep struct {
	ClaimantName  string `json:"claimant_name" validate:"required,min=2"`
	ClaimantEmail string `json:"claimant_email" validate:"required,email"`
	ClaimantPhone string `json:"claimant_phone" validate:"required,min=7"`
}

// PropertyStep collects the property address. Construction metadata is filled
// best-effort from the address lookup service and may be empty.
type PropertyStep struct {
	Address          string `json:"address" validate:"required,min=5"`
	Block            string `json:"block"`
	Unit             string `json:"unit"`
	PlaceID          string `json:"place_id"`
	ConstructionInfo string `json:"construction_info"`
}

// IncidentStep collects when and how the damage happened.
type IncidentStep struct {
	IncidentDate        string `json:"incident_date" validate:"required,datetime=2006-01-02"`
	IncidentType        string `json:"incident_type" validate:"required,oneof=fire flood storm escape_of_water subsidence impact theft_vandalism other"`
	IncidentDescription string `json:"incident_description" validate:"required"`
}

// BuildingDamageStep is the first gated sub-claim. When the flag is set the
// description and the photo/quote arrays become mandatory.
type BuildingDamageStep struct {
	HasBuildingDamage         bool     `json:"has_building_damage"`
	BuildingDamageDescription string   `json:"building_damage_description"`
	DamagePhotos              []string `json:"damage_photos"`
	RepairQuotes              []string `json:"repair_quotes"`
}

// TheftStep is the second gated sub-claim, with a nested "police reported"
// flag gating the police reference and report files.
type TheftStep struct {
	HasTheftVandalism bool     `json:"has_theft_vandalism"`
	TheftDescription  string   `json:"theft_description"`
	PoliceReported    bool     `json:"police_reported"`
	PoliceReference   string   `json:"police_reference"`
	PoliceReports     []string `json:"police_reports"`
}

// OccupancyStep is the investment-property sub-claim: tenant details and a
// tenancy agreement become required when the property is tenanted.
type OccupancyStep struct {
	IsInvestmentProperty bool     `json:"is_investment_property"`
	TenantName           string   `json:"tenant_name"`
	TenantPhone          string   `json:"tenant_phone"`
	TenantEmail          string   `json:"tenant_email"`
	TenancyAgreements    []string `json:"tenancy_agreements"`
}

// DocumentsStep carries the optional supporting uploads.
type DocumentsStep struct {
	Invoices       []string `json:"invoices"`
	OtherDocuments []string `json:"other_documents"`
}

// DeclarationStep closes the form: a signature plus three acknowledgements
// that must each be affirmatively ticked.
type DeclarationStep struct {
	SignatureData        string `json:"signature_data" validate:"required"`
	SignatureMethod      string `json:"signature_method" validate:"required,oneof=drawn typed uploaded"`
	DeclarationTruth     bool   `json:"declaration_truth"`
	DeclarationAuthority bool   `json:"declaration_authority"`
	DeclarationConsent   bool   `json:"declaration_consent"`
}

// ClaimPayload is the full claim contract: the union of every step's fields.
// It is what POST /claims accepts, after the assembler has applied defaults.
type ClaimPayload struct {
	ClaimantName  string `json:"claimant_name" validate:"required,min=2"`
	ClaimantEmail string `json:"claimant_email" validate:"required,email"`
	ClaimantPhone string `json:"claimant_phone" validate:"required,min=7"`

	Address          string `json:"address" validate:"required,min=5"`
	Block            string `json:"block"`
	Unit             string `json:"unit"`
	PlaceID          string `json:"place_id"`
	ConstructionInfo string `json:"construction_info"`

	IncidentDate        string `json:"incident_date" validate:"required,datetime=2006-01-02"`
	IncidentType        string `json:"incident_type" validate:"required,oneof=fire flood storm escape_of_water subsidence impact theft_vandalism other"`
	IncidentDescription string `json:"incident_description" validate:"required"`

	HasBuildingDamage         bool     `json:"has_building_damage"`
	BuildingDamageDescription string   `json:"building_damage_description"`
	DamagePhotos              []string `json:"damage_photos"`
	RepairQuotes              []string `json:"repair_quotes"`

	HasTheftVandalism bool     `json:"has_theft_vandalism"`
	TheftDescription  string   `json:"theft_description"`
	PoliceReported    bool     `json:"police_reported"`
	PoliceReference   string   `json:"police_reference"`
	PoliceReports     []string `json:"police_reports"`

	IsInvestmentProperty bool     `json:"is_investment_property"`
	TenantName           string   `json:"tenant_name"`
	TenantPhone          string   `json:"tenant_phone"`
	TenantEmail          string   `json:"tenant_email"`
	TenancyAgreements    []string `json:"tenancy_agreements"`

	Invoices       []string `json:"invoices"`
	OtherDocuments []string `json:"other_documents"`

	SignatureData        string `json:"signature_data" validate:"required"`
	SignatureMethod      string `json:"signature_method" validate:"required,oneof=drawn typed uploaded"`
	DeclarationTruth     bool   `json:"declaration_truth"`
	DeclarationAuthority bool   `json:"declaration_authority"`
	DeclarationConsent   bool   `json:"declaration_consent"`
}

var validate *validator.Validate

func init() {
	validate = newValidator()
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so error paths match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(incidentStepRules, IncidentStep{})
	v.RegisterStructValidation(buildingDamageStepRules, BuildingDamageStep{})
	v.RegisterStructValidation(theftStepRules, TheftStep{})
	v.RegisterStructValidation(occupancyStepRules, OccupancyStep{})
	v.RegisterStructValidation(declarationStepRules, DeclarationStep{})
	v.RegisterStructValidation(claimPayloadRules, ClaimPayload{})
	return v
}

// The cross-field refine rules are shared between the step schemas and the
// full-claim schema so the two can never disagree.

func refineIncident(sl validator.StructLevel, description string) {
	if len(strings.TrimSpace(description)) < MinIncidentDescriptionLen {
		sl.ReportError(description, "incident_description", "IncidentDescription", "min_len", fmt.Sprint(MinIncidentDescriptionLen))
	}
}

func refineBuildingDamage(sl validator.StructLevel, has bool, description string, photos, quotes []string) {
	if !has {
		return
	}
	if len(strings.TrimSpace(description)) < MinSubClaimDescriptionLen {
		sl.ReportError(description, "building_damage_description", "BuildingDamageDescription", "min_len", fmt.Sprint(MinSubClaimDescriptionLen))
	}
	if len(photos) < MinDamagePhotos {
		sl.ReportError(photos, "damage_photos", "DamagePhotos", "min_count", fmt.Sprint(MinDamagePhotos))
	}
	if len(quotes) < MinRepairQuotes {
		sl.ReportError(quotes, "repair_quotes", "RepairQuotes", "min_count", fmt.Sprint(MinRepairQuotes))
	}
}

func refineTheft(sl validator.StructLevel, has bool, description string, reported bool, reference string, reports []string) {
	if !has {
		return
	}
	if len(strings.TrimSpace(description)) < MinSubClaimDescriptionLen {
		sl.ReportError(description, "theft_description", "TheftDescription", "min_len", fmt.Sprint(MinSubClaimDescriptionLen))
	}
	if !reported {
		return
	}
	if strings.TrimSpace(reference) == "" {
		sl.ReportError(reference, "police_reference", "PoliceReference", "required_with_flag", "police_reported")
	}
	if len(reports) < MinPoliceReports {
		sl.ReportError(reports, "police_reports", "PoliceReports", "min_count", fmt.Sprint(MinPoliceReports))
	}
}

func refineOccupancy(sl validator.StructLevel, tenanted bool, name, phone, email string, agreements []string) {
	if !tenanted {
		return
	}
	if strings.TrimSpace(name) == "" {
		sl.ReportError(name, "tenant_name", "TenantName", "required_with_flag", "is_investment_property")
	}
	if strings.TrimSpace(phone) == "" {
		sl.ReportError(phone, "tenant_phone", "TenantPhone", "required_with_flag", "is_investment_property")
	}
	if email == "" || validate.Var(email, "email") != nil {
		sl.ReportError(email, "tenant_email", "TenantEmail", "email", "")
	}
	if len(agreements) < MinTenancyAgreements {
		sl.ReportError(agreements, "tenancy_agreements", "TenancyAgreements", "min_count", fmt.Sprint(MinTenancyAgreements))
	}
}

func refineDeclaration(sl validator.StructLevel, signature string, truth, authority, consent bool) {
	// Each acknowledgement independently blocks submission; "truthy" is not
	// good enough, the box must actually be ticked.
	if !truth {
		sl.ReportError(truth, "declaration_truth", "DeclarationTruth", "must_accept", "")
	}
	if !authority {
		sl.ReportError(authority, "declaration_authority", "DeclarationAuthority", "must_accept", "")
	}
	if !consent {
		sl.ReportError(consent, "declaration_consent", "DeclarationConsent", "must_accept", "")
	}
	if signature != "" {
		if !strings.HasPrefix(signature, "data:") {
			sl.ReportError(signature, "signature_data", "SignatureData", "signature", "")
		} else if len(signature) < MinSignatureDataLen {
			sl.ReportError(signature, "signature_data", "SignatureData", "signature", "")
		}
	}
}

func incidentStepRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(IncidentStep)
	refineIncident(sl, s.IncidentDescription)
}

func buildingDamageStepRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(BuildingDamageStep)
	refineBuildingDamage(sl, s.HasBuildingDamage, s.BuildingDamageDescription, s.DamagePhotos, s.RepairQuotes)
}

func theftStepRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(TheftStep)
	refineTheft(sl, s.HasTheftVandalism, s.TheftDescription, s.PoliceReported, s.PoliceReference, s.PoliceReports)
}

func occupancyStepRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(OccupancyStep)
	refineOccupancy(sl, s.IsInvestmentProperty, s.TenantName, s.TenantPhone, s.TenantEmail, s.TenancyAgreements)
}

func declarationStepRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(DeclarationStep)
	refineDeclaration(sl, s.SignatureData, s.DeclarationTruth, s.DeclarationAuthority, s.DeclarationConsent)
}

func claimPayloadRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(ClaimPayload)
	refineIncident(sl, p.IncidentDescription)
	refineBuildingDamage(sl, p.HasBuildingDamage, p.BuildingDamageDescription, p.DamagePhotos, p.RepairQuotes)
	refineTheft(sl, p.HasTheftVandalism, p.TheftDescription, p.PoliceReported, p.PoliceReference, p.PoliceReports)
	refineOccupancy(sl, p.IsInvestmentProperty, p.TenantName, p.TenantPhone, p.TenantEmail, p.TenancyAgreements)
	refineDeclaration(sl, p.SignatureData, p.DeclarationTruth, p.DeclarationAuthority, p.DeclarationConsent)
}

// ValidateStep checks data against the schema for the given step. data must be
// the step's payload type.
func ValidateStep(step Step, data any) ValidationError {
	switch step {
	case StepContact:
		return check(data, ContactStep{})
	case StepProperty:
		return check(data, PropertyStep{})
	case StepIncident:
		return check(data, IncidentStep{})
	case StepBuildingDamage:
		return check(data, BuildingDamageStep{})
	case StepTheft:
		return check(data, TheftStep{})
	case StepOccupancy:
		return check(data, OccupancyStep{})
	case StepDocuments:
		return check(data, DocumentsStep{})
	case StepDeclaration:
		return check(data, DeclarationStep{})
	}
	return ValidationError{{Field: "step", Message: fmt.Sprintf("unknown step %d", int(step))}}
}

func check(data, want any) ValidationError {
	if reflect.TypeOf(data) != reflect.TypeOf(want) {
		if reflect.TypeOf(data) == reflect.PointerTo(reflect.TypeOf(want)) {
			data = reflect.ValueOf(data).Elem().Interface()
		} else {
			return ValidationError{{Field: "step", Message: fmt.Sprintf("expected %T, got %T", want, data)}}
		}
	}
	return translate(validate.Struct(data))
}

// ValidateClaim runs the authoritative full-claim check. It returns nil when
// the payload satisfies every rule, including the gated sub-claim minimums.
func ValidateClaim(p *ClaimPayload) ValidationError {
	if p == nil {
		return ValidationError{{Field: "claim", Message: "payload is required"}}
	}
	return translate(validate.Struct(*p))
}

func translate(err error) ValidationError {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationError{{Field: "payload", Message: err.Error()}}
	}
	out := make(ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Message: messageFor(fe)})
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	case "min_len":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "min_count":
		return fmt.Sprintf("at least %s file(s) required", fe.Param())
	case "required_with_flag":
		return "this field is required"
	case "must_accept":
		return "this declaration must be accepted"
	case "signature":
		return "signature is empty or not a valid image"
	}
	return "is invalid"
}

// stepByField maps every full-claim field to the wizard step it is entered on,
// so a submission-time failure can send the user back to the right step.
var stepByField = map[string]Step{
	"claimant_name":  StepContact,
	"claimant_email": StepContact,
	"claimant_phone": StepContact,

	"address":           StepProperty,
	"block":             StepProperty,
	"unit":              StepProperty,
	"place_id":          StepProperty,
	"construction_info": StepProperty,

	"incident_date":        StepIncident,
	"incident_type":        StepIncident,
	"incident_description": StepIncident,

	"has_building_damage":         StepBuildingDamage,
	"building_damage_description": StepBuildingDamage,
	"damage_photos":               StepBuildingDamage,
	"repair_quotes":               StepBuildingDamage,

	"has_theft_vandalism": StepTheft,
	"theft_description":   StepTheft,
	"police_reported":     StepTheft,
	"police_reference":    StepTheft,
	"police_reports":      StepTheft,

	"is_investment_property": StepOccupancy,
	"tenant_name":            StepOccupancy,
	"tenant_phone":           StepOccupancy,
	"tenant_email":           StepOccupancy,
	"tenancy_agreements":     StepOccupancy,

	"invoices":        StepDocuments,
	"other_documents": StepDocuments,

	"signature_data":        StepDeclaration,
	"signature_method":      StepDeclaration,
	"declaration_truth":     StepDeclaration,
	"declaration_authority": StepDeclaration,
	"declaration_consent":   StepDeclaration,
}

// StepForField returns the wizard step that owns the given full-claim field
// path, defaulting to the declaration (final) step for unknown fields.
func StepForField(field string) Step {
	if s, ok := stepByField[field]; ok {
		return s
	}
	return StepDeclaration
}
