package utils

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"claims-portal-api/models"
)

func exportClaim() models.Claim {
	return models.Claim{
		ReferenceNumber:      "BIC-AAA1-0001",
		Status:               models.ClaimStatusPending,
		CurrentStage:         "with_insurer",
		ClaimantName:         `Priya "PJ" Shah`,
		ClaimantEmail:        "priya.shah@example.com",
		ClaimantPhone:        "07700900456",
		Address:              "Flat 9, Harbour Point, Cardiff",
		IncidentDate:         time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		IncidentType:         "escape_of_water",
		HasBuildingDamage:    true,
		IsInvestmentProperty: false,
		SubmittedAt:          time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
		UpdateAt:             time.Date(2026, 8, 20, 14, 5, 0, 0, time.UTC),
	}
}

func TestClaimsCSVIsDeterministic(t *testing.T) {
	claims := []models.Claim{exportClaim()}

	first, err := ClaimsCSV(claims)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	second, err := ClaimsCSV(claims)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("repeated exports of the same data must be byte-identical")
	}
}

func TestClaimsCSVHeaderOrderIsFixed(t *testing.T) {
	out, err := ClaimsCSV(nil)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only for an empty list, got %d records", len(records))
	}

	want := "reference_number,status,current_stage,claimant_name,claimant_email,claimant_phone," +
		"address,incident_date,incident_type,has_building_damage,has_theft_vandalism," +
		"is_investment_property,submitted_at,update_at"
	if got := strings.Join(records[0], ","); got != want {
		t.Fatalf("header order changed:\ngot  %s\nwant %s", got, want)
	}
}

func TestClaimsCSVEscapesCommasAndQuotes(t *testing.T) {
	out, err := ClaimsCSV([]models.Claim{exportClaim()})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}

	row := records[1]
	if row[3] != `Priya "PJ" Shah` {
		t.Errorf("quotes not round-tripped: %q", row[3])
	}
	if row[6] != "Flat 9, Harbour Point, Cardiff" {
		t.Errorf("embedded commas not round-tripped: %q", row[6])
	}
	if row[7] != "2026-08-14" {
		t.Errorf("incident date format: %q", row[7])
	}
	if row[12] != "2026-08-15T09:30:00Z" {
		t.Errorf("submitted_at format: %q", row[12])
	}
	if row[9] != "true" || row[11] != "false" {
		t.Errorf("bool rendering: %q / %q", row[9], row[11])
	}
}
