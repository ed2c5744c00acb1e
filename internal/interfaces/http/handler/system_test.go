package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("rentwise", "1.2.3")
	c, w := testContext(http.MethodGet, "/system/info")

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "rentwise", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("rentwise", "dev")
	c, w := testContext(http.MethodGet, "/system/ping")

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w).Data.(map[string]any)["message"])
}

func TestSystemHandler_Ready(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler("rentwise", "dev")
		h.AddCheck("database", func(context.Context) error { return nil })
		c, w := testContext(http.MethodGet, "/health/ready")

		h.Ready(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ok", resp.Checks["database"])
	})

	t.Run("failing check answers 503", func(t *testing.T) {
		h := NewSystemHandler("rentwise", "dev")
		h.AddCheck("database", func(context.Context) error { return nil })
		h.AddCheck("redis", func(context.Context) error { return errors.New("dial tcp: refused") })
		c, w := testContext(http.MethodGet, "/health/ready")

		h.Ready(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unavailable", resp.Status)
		assert.Equal(t, "dial tcp: refused", resp.Checks["redis"])
		assert.Equal(t, "ok", resp.Checks["database"])
	})
}

func TestSystemHandler_Live(t *testing.T) {
	h := NewSystemHandler("rentwise", "dev")
	c, w := testContext(http.MethodGet, "/health")

	h.Live(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
