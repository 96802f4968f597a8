package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferren/application-rollup-backend/internal/adapters/secondary/memstore"
	"github.com/ferren/application-rollup-backend/internal/core/domain"
)

func TestHealthHandler(t *testing.T) {
	store := memstore.NewDatasetStore()
	store.Put(domain.PeriodCurrent, &domain.Dataset{FileName: "export.csv"})
	handler := NewHealthHandler(store, "1.2.3")

	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
	})

	t.Run("readiness reports loaded datasets", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Equal(t, 1, resp.Datasets)
		assert.NotEmpty(t, resp.Uptime)
	})

	t.Run("detailed health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp, "memory")
		assert.Contains(t, resp, "goroutines")
	})
}
