package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rentwise/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *HTTPGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPGeocoder(config.GeocodingConfig{Enabled: true, BaseURL: srv.URL, APIKey: "k", Timeout: time.Second}, nil)
}

func TestHTTPGeocoder_Geocode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the first result", func(t *testing.T) {
		g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "12 Harbour St, Sydney, Australia", r.URL.Query().Get("address"))
			assert.Equal(t, "k", r.URL.Query().Get("key"))
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":-33.8688,"lng":151.2093}}},{"geometry":{"location":{"lat":1,"lng":1}}}]}`))
		})

		p, err := g.Geocode(ctx, "12 Harbour St, Sydney, Australia")
		require.NoError(t, err)
		assert.InDelta(t, -33.8688, p.Latitude, 1e-9)
		assert.InDelta(t, 151.2093, p.Longitude, 1e-9)
	})

	t.Run("zero results", func(t *testing.T) {
		g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		})
		_, err := g.Geocode(ctx, "nowhere")
		assert.ErrorIs(t, err, ErrNoResults)
	})

	t.Run("api error status", func(t *testing.T) {
		g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
		})
		_, err := g.Geocode(ctx, "somewhere")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REQUEST_DENIED")
	})

	t.Run("http error", func(t *testing.T) {
		g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := g.Geocode(ctx, "somewhere")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":95,"lng":0}}}]}`))
		})
		_, err := g.Geocode(ctx, "somewhere")
		assert.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	_, ok := New(config.GeocodingConfig{}).(Noop)
	assert.True(t, ok)

	_, err := Noop{}.Geocode(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDisabled)

	_, ok = New(config.GeocodingConfig{Enabled: true, BaseURL: "http://localhost"}).(*HTTPGeocoder)
	assert.True(t, ok)
}
