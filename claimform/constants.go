package claimform

// Business thresholds for the claim form. These are the single source of
// truth: the per-step schemas, the full-claim validator and the admin-side
// integrity checks all read the same constants, so the limits cannot drift
// between layers.
const (
	// Incident
	MinIncidentDescriptionLen = 50

	// Sub-claim descriptions (building damage, theft/vandalism)
	MinSubClaimDescriptionLen = 20

	// Required file counts, gated by the sub-claim flags
	MinDamagePhotos      = 2
	MinRepairQuotes      = 1
	MinPoliceReports     = 1
	MinTenancyAgreements = 1

	// A drawn signature shorter than this is an empty or near-empty canvas
	// exported as a data URI.
	MinSignatureDataLen = 100

	// Wire format for incident and follow-up dates
	DateLayout = "2006-01-02"
)

// IncidentTypes is the closed set of incident type tags.
var IncidentTypes = []string{
	"fire",
	"flood",
	"storm",
	"escape_of_water",
	"subsidence",
	"impact",
	"theft_vandalism",
	"other",
}

// SignatureMethods lists how a declaration signature may be captured.
var SignatureMethods = []string{"drawn", "typed", "uploaded"}
