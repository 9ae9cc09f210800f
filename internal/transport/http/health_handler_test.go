package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sueldoreal/internal/services"
)

func TestHealthEndpoints(t *testing.T) {
	logger := testLogger()
	handler := NewHealthHandler(services.NewHealthService("1.2.0", "2023-07-01", logger), logger)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var status services.HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "1.2.0", status.Version)
	})

	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.LivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
		assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
	})

	t.Run("readiness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
		assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	})

	t.Run("version", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var info map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.NotEmpty(t, info["version"])
	})
}
