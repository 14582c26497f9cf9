package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("sales-api", "1.2.3")

	w, resp := serve(t, http.MethodGet, "/health", "/health", nil, h.Health)

	assert.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	decodeData(t, resp, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "sales-api", health.Name)
	assert.Equal(t, "1.2.3", health.Version)
	assert.NotEmpty(t, health.GoVersion)
}

func TestSystemHandler_Ready(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler("sales-api", "dev",
			ReadinessCheck{Name: "database", Check: func(context.Context) error { return nil }},
			ReadinessCheck{Name: "cache", Check: func(context.Context) error { return nil }},
		)

		w, resp := serve(t, http.MethodGet, "/ready", "/ready", nil, h.Ready)

		assert.Equal(t, http.StatusOK, w.Code)
		var ready ReadyResponse
		decodeData(t, resp, &ready)
		assert.Equal(t, "ready", ready.Status)
		assert.Equal(t, map[string]string{"database": "ok", "cache": "ok"}, ready.Checks)
	})

	t.Run("failing check returns 503", func(t *testing.T) {
		h := NewSystemHandler("sales-api", "dev",
			ReadinessCheck{Name: "database", Check: func(context.Context) error { return errors.New("dial tcp: refused") }},
			ReadinessCheck{Name: "cache", Check: func(context.Context) error { return nil }},
		)

		w, resp := serve(t, http.MethodGet, "/ready", "/ready", nil, h.Ready)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "SERVICE_UNAVAILABLE", resp.Error.Code)

		var ready ReadyResponse
		decodeData(t, resp, &ready)
		assert.Equal(t, "unavailable", ready.Status)
		assert.Equal(t, "error", ready.Checks["database"])
		assert.Equal(t, "ok", ready.Checks["cache"])
	})

	t.Run("checks run under a deadline", func(t *testing.T) {
		h := NewSystemHandler("sales-api", "dev", ReadinessCheck{Name: "database", Check: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				return errors.New("no deadline")
			}
			return nil
		}})

		w, _ := serve(t, http.MethodGet, "/ready", "/ready", nil, h.Ready)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
