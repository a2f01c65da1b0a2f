package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConstructionInfoReturnsMetadata(t *testing.T) {
	const metadata = `{"wall_type":"brick","roof_type":"slate","year_built":1978}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/construction" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("place_id"); got != "pl_123" {
			t.Errorf("unexpected place_id %q", got)
		}
		w.Write([]byte(metadata))
	}))
	defer srv.Close()
	t.Setenv("PLACES_API_URL", srv.URL)

	got := NewGeocodeService().ConstructionInfo(context.Background(), "pl_123")
	if got != metadata {
		t.Fatalf("expected raw metadata blob, got %q", got)
	}
}

func TestConstructionInfoEmptyWhenNotConfigured(t *testing.T) {
	t.Setenv("PLACES_API_URL", "")

	if got := NewGeocodeService().ConstructionInfo(context.Background(), "pl_123"); got != "" {
		t.Fatalf("expected empty result without a provider, got %q", got)
	}
}

func TestConstructionInfoEmptyOnProviderFailure(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"invalid json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()
			t.Setenv("PLACES_API_URL", srv.URL)

			if got := NewGeocodeService().ConstructionInfo(context.Background(), "pl_123"); got != "" {
				t.Fatalf("provider failure must yield an empty result, got %q", got)
			}
		})
	}
}

func TestLookupShortQueryReturnsNoSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("a query under three characters must not hit the provider")
	}))
	defer srv.Close()
	t.Setenv("PLACES_API_URL", srv.URL)

	got, err := NewGeocodeService().Lookup(context.Background(), "ab")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected an empty, non-nil suggestion list, got %#v", got)
	}
}

func TestLookupParsesSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"label":"1 Quay Street, Cardiff","place_id":"pl_123","postcode":"CF10 5DB"}]}`))
	}))
	defer srv.Close()
	t.Setenv("PLACES_API_URL", srv.URL)

	got, err := NewGeocodeService().Lookup(context.Background(), "quay street")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if len(got) != 1 || got[0].PlaceID != "pl_123" || got[0].Postcode != "CF10 5DB" {
		t.Fatalf("unexpected suggestions: %#v", got)
	}
}
