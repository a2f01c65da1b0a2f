package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"claims-portal-api/config"

	"github.com/sirupsen/logrus"
)

// GeocodeService wraps the third-party property-data API used for address
// autocomplete and construction metadata. Both calls are best-effort: the
// form works without them, so callers treat an empty result as "no data".
type GeocodeService struct {
	httpClient *http.Client
	log        *logrus.Logger
}

func NewGeocodeService() *GeocodeService {
	return &GeocodeService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        config.GetLogger(),
	}
}

// AddressSuggestion is one autocomplete candidate.
type AddressSuggestion struct {
	Label    string `json:"label"`
	PlaceID  string `json:"place_id"`
	Postcode string `json:"postcode,omitempty"`
}

// Lookup returns address suggestions for a partial query.
func (g *GeocodeService) Lookup(ctx context.Context, query string) ([]AddressSuggestion, error) {
	endpoint := os.Getenv("PLACES_API_URL")
	if endpoint == "" {
		return nil, fmt.Errorf("address lookup not configured (PLACES_API_URL)")
	}

	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return []AddressSuggestion{}, nil
	}

	reqURL := fmt.Sprintf("%s/search?q=%s", strings.TrimRight(endpoint, "/"), url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if key := os.Getenv("PLACES_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api returned %d", resp.StatusCode)
	}

	var parsed struct {
		Results []AddressSuggestion `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if parsed.Results == nil {
		parsed.Results = []AddressSuggestion{}
	}
	return parsed.Results, nil
}

// ConstructionInfo fetches construction metadata for a place as a raw JSON
// blob, stored verbatim on the claim. Failures are logged and an empty string
// returned; the claim is valid without the metadata.
func (g *GeocodeService) ConstructionInfo(ctx context.Context, placeID string) string {
	endpoint := os.Getenv("PLACES_API_URL")
	if endpoint == "" || strings.TrimSpace(placeID) == "" {
		return ""
	}

	reqURL := fmt.Sprintf("%s/construction?place_id=%s", strings.TrimRight(endpoint, "/"), url.QueryEscape(placeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return ""
	}
	if key := os.Getenv("PLACES_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		config.LogError(g.log, "geocode", "ConstructionInfo", "request failed",
			map[string]any{"place_id": placeID}, err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || !json.Valid(body) {
		return ""
	}
	return string(body)
}
