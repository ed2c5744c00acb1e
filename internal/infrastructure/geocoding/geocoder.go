// Package geocoding resolves street addresses to coordinates.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rentwise/backend/internal/domain/shared/valueobject"
	"github.com/rentwise/backend/internal/infrastructure/config"
)

// Errors returned by Geocode
var (
	ErrNoResults = errors.New("geocoding returned no results")
	ErrDisabled  = errors.New("geocoding is disabled")
)

// Geocoder resolves an address to a point
type Geocoder interface {
	Geocode(ctx context.Context, address string) (valueobject.GeoPoint, error)
}

// HTTPGeocoder calls a Google-Maps-compatible geocode JSON endpoint
type HTTPGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGeocoder creates a geocoder; a nil client gets one with cfg.Timeout
func NewHTTPGeocoder(cfg config.GeocodingConfig, client *http.Client) *HTTPGeocoder {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPGeocoder{baseURL: cfg.BaseURL, apiKey: cfg.APIKey, client: client}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the location of the first result
func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (valueobject.GeoPoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return valueobject.GeoPoint{}, errors.New("address is required")
	}

	q := url.Values{}
	q.Set("address", address)
	if g.apiKey != "" {
		q.Set("key", g.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return valueobject.GeoPoint{}, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return valueobject.GeoPoint{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return valueobject.GeoPoint{}, fmt.Errorf("geocode request failed with status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return valueobject.GeoPoint{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return valueobject.GeoPoint{}, ErrNoResults
	default:
		return valueobject.GeoPoint{}, fmt.Errorf("geocode failed: %s %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return valueobject.GeoPoint{}, ErrNoResults
	}

	loc := body.Results[0].Geometry.Location
	return valueobject.NewGeoPoint(loc.Lat, loc.Lng)
}

// Noop is the geocoder used when geocoding is disabled
type Noop struct{}

// Geocode always fails with ErrDisabled
func (Noop) Geocode(context.Context, string) (valueobject.GeoPoint, error) {
	return valueobject.GeoPoint{}, ErrDisabled
}

// New returns an HTTPGeocoder when enabled, otherwise Noop
func New(cfg config.GeocodingConfig) Geocoder {
	if !cfg.Enabled {
		return Noop{}
	}
	return NewHTTPGeocoder(cfg, nil)
}

var (
	_ Geocoder = (*HTTPGeocoder)(nil)
	_ Geocoder = Noop{}
)
