package utils

import (
	"strings"

	"claims-portal-api/models"
)

// FilterClaims narrows a claim list by a free-text search term and a status
// filter. Pure: the input slice is never mutated and the relative order of
// matching claims is preserved, so repeated calls over the same data return
// identical results.
//
// The search term matches case-insensitively against the reference number,
// claimant name and property address. An empty term matches everything, as
// does an empty status.
func FilterClaims(claims []models.Claim, search, status string) []models.Claim {
	search = strings.ToLower(strings.TrimSpace(search))
	status = strings.ToLower(strings.TrimSpace(status))

	out := make([]models.Claim, 0, len(claims))
	for _, c := range claims {
		if status != "" && strings.ToLower(c.Status) != status {
			continue
		}
		if search != "" && !claimMatches(&c, search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func claimMatches(c *models.Claim, search string) bool {
	return strings.Contains(strings.ToLower(c.ReferenceNumber), search) ||
		strings.Contains(strings.ToLower(c.ClaimantName), search) ||
		strings.Contains(strings.ToLower(c.Address), search)
}
