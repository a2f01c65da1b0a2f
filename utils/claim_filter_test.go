package utils

import (
	"reflect"
	"testing"

	"claims-portal-api/models"
)

func sampleClaims() []models.Claim {
	return []models.Claim{
		{ClaimID: 1, ReferenceNumber: "BIC-AAA1-0001", Status: models.ClaimStatusSubmitted, ClaimantName: "Priya Shah", Address: "4 Mill Lane, Leeds"},
		{ClaimID: 2, ReferenceNumber: "BIC-AAA2-0002", Status: models.ClaimStatusPending, ClaimantName: "Marcus Webb", Address: "Flat 9, Harbour Point, Cardiff"},
		{ClaimID: 3, ReferenceNumber: "BIC-AAA3-0003", Status: models.ClaimStatusPending, ClaimantName: "Pei-Ling Webb", Address: "22 Castle Road, York"},
		{ClaimID: 4, ReferenceNumber: "BIC-AAA4-0004", Status: models.ClaimStatusClosed, ClaimantName: "Dana Webb", Address: "7 Orchard Close, Bath"},
	}
}

func idsOf(claims []models.Claim) []int {
	out := make([]int, len(claims))
	for i, c := range claims {
		out[i] = c.ClaimID
	}
	return out
}

func TestFilterClaimsCombinesSearchAndStatus(t *testing.T) {
	got := FilterClaims(sampleClaims(), "WEBB", "pending")
	if want := []int{2, 3}; !reflect.DeepEqual(idsOf(got), want) {
		t.Fatalf("expected claims %v, got %v", want, idsOf(got))
	}
}

func TestFilterClaimsMatchesReferenceAndAddress(t *testing.T) {
	byRef := FilterClaims(sampleClaims(), "aaa3", "")
	if len(byRef) != 1 || byRef[0].ClaimID != 3 {
		t.Fatalf("reference search failed: %v", idsOf(byRef))
	}

	byAddr := FilterClaims(sampleClaims(), "harbour point", "")
	if len(byAddr) != 1 || byAddr[0].ClaimID != 2 {
		t.Fatalf("address search failed: %v", idsOf(byAddr))
	}
}

func TestFilterClaimsEmptyTermsMatchEverything(t *testing.T) {
	claims := sampleClaims()
	got := FilterClaims(claims, "", "")
	if !reflect.DeepEqual(idsOf(got), idsOf(claims)) {
		t.Fatalf("empty filters must keep every claim in order, got %v", idsOf(got))
	}
}

func TestFilterClaimsIsIdempotent(t *testing.T) {
	first := FilterClaims(sampleClaims(), "webb", "pending")
	second := FilterClaims(first, "webb", "pending")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("filtering an already-filtered list changed it:\nfirst:  %v\nsecond: %v", idsOf(first), idsOf(second))
	}
}

func TestFilterClaimsDoesNotMutateInput(t *testing.T) {
	claims := sampleClaims()
	FilterClaims(claims, "webb", "pending")
	if !reflect.DeepEqual(idsOf(claims), []int{1, 2, 3, 4}) {
		t.Fatalf("input slice was mutated: %v", idsOf(claims))
	}
}
