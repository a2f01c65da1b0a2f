package utils

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"claims-portal-api/models"
)

// claimCSVHeader fixes the export column order. Changing it breaks downstream
// spreadsheets, so append only.
var claimCSVHeader = []string{
	"reference_number",
	"status",
	"current_stage",
	"claimant_name",
	"claimant_email",
	"claimant_phone",
	"address",
	"incident_date",
	"incident_type",
	"has_building_damage",
	"has_theft_vandalism",
	"is_investment_property",
	"submitted_at",
	"update_at",
}

// ClaimsCSV renders a claim list as CSV with a fixed column order. Pure: the
// same input always yields byte-identical output. Quoting and escaping follow
// RFC 4180 via encoding/csv.
func ClaimsCSV(claims []models.Claim) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(claimCSVHeader); err != nil {
		return nil, err
	}
	for _, c := range claims {
		row := []string{
			c.ReferenceNumber,
			c.Status,
			c.CurrentStage,
			c.ClaimantName,
			c.ClaimantEmail,
			c.ClaimantPhone,
			c.Address,
			c.IncidentDate.Format("2006-01-02"),
			c.IncidentType,
			strconv.FormatBool(c.HasBuildingDamage),
			strconv.FormatBool(c.HasTheftVandalism),
			strconv.FormatBool(c.IsInvestmentProperty),
			c.SubmittedAt.Format(time.RFC3339),
			c.UpdateAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
