package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	"github.com/ferren/application-rollup-backend/internal/core/mocks"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
	"github.com/ferren/application-rollup-backend/internal/infrastructure/logging"
)

func newRollupRouter(coordinator ports.ReportCoordinator) chi.Router {
	logger := logging.NewNopLogger()
	handler := NewRollupHandler(coordinator, NewErrorHandler(logger), logger)

	r := chi.NewRouter()
	r.Route("/rollup", handler.RegisterRoutes)
	return r
}

func reportFixture() *domain.Report {
	rows := []domain.Row{
		{Region: "North", District: "Delta", Office: "Main", AppKey: "A-1", Status: "Draft"},
		{Region: "North", District: "Delta", Office: "Main", AppKey: "A-2", Status: "Submitted"},
		{Region: "South", District: "Echo", Office: "Annex", AppKey: "A-3", Status: "Draft"},
	}
	statuses := []string{"Draft", "Submitted"}
	root := domain.BuildTree(rows, statuses)
	return &domain.Report{
		Statuses:    statuses,
		AllStatuses: statuses,
		Root:        root,
		Targets:     domain.EmptyTargets(domain.DefaultGrowthFactor),
		RowCount:    root.Total,
		GeneratedAt: time.Now().UTC(),
	}
}

func TestRollupHandler_HandleGetReport(t *testing.T) {
	t.Run("no report yet", func(t *testing.T) {
		coordinator := mocks.NewMockReportCoordinator()
		coordinator.On("State").Return(ports.ReportState{
			Message: "no current-period dataset loaded",
		})

		req := httptest.NewRequest(http.MethodGet, "/rollup", nil)
		rec := httptest.NewRecorder()
		newRollupRouter(coordinator).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data ReportDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "no current-period dataset loaded", body.Data.Message)
		assert.False(t, body.Data.Failed)
		assert.NotNil(t, body.Data.Regions)
		assert.Empty(t, body.Data.Regions)
		assert.Empty(t, body.Data.Statuses)
	})

	t.Run("computed report", func(t *testing.T) {
		report := reportFixture()
		coordinator := mocks.NewMockReportCoordinator()
		coordinator.On("State").Return(ports.ReportState{
			RequestID: 3,
			Report:    report,
			Message:   "3 applications across 2 regions",
		})

		req := httptest.NewRequest(http.MethodGet, "/rollup", nil)
		rec := httptest.NewRecorder()
		newRollupRouter(coordinator).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data ReportDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		dto := body.Data
		assert.Equal(t, uint64(3), dto.RequestID)
		assert.Equal(t, []string{"Draft", "Submitted"}, dto.Statuses)
		assert.Equal(t, 3, dto.RowCount)
		require.NotNil(t, dto.GeneratedAt)

		// Region rows in key order, grand total appended last.
		require.Len(t, dto.Regions, 3)
		assert.Equal(t, "North", dto.Regions[0].Key)
		assert.Equal(t, "South", dto.Regions[1].Key)
		assert.Equal(t, GrandTotalKey, dto.Regions[2].Key)
		assert.Equal(t, 3, dto.Regions[2].Total)
		assert.Nil(t, dto.Regions[2].Children, "grand total row carries no children")

		// Without a prior dataset targets fall back to current totals.
		assert.Equal(t, 3, dto.Regions[0].Target)
		assert.Equal(t, 4, dto.Regions[2].Target)
		assert.False(t, dto.Targets.Available)
	})

	t.Run("failed computation", func(t *testing.T) {
		coordinator := mocks.NewMockReportCoordinator()
		coordinator.On("State").Return(ports.ReportState{
			RequestID: 7,
			Message:   "required columns missing: Status",
			Failed:    true,
		})

		req := httptest.NewRequest(http.MethodGet, "/rollup", nil)
		rec := httptest.NewRecorder()
		newRollupRouter(coordinator).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "failures render inside the DTO")

		var body struct {
			Data ReportDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Data.Failed)
		assert.Empty(t, body.Data.Regions)
	})
}

func TestRollupHandler_HandleRefresh(t *testing.T) {
	coordinator := mocks.NewMockReportCoordinator()
	coordinator.On("Refresh").Return(uint64(42))

	req := httptest.NewRequest(http.MethodPost, "/rollup/refresh", nil)
	rec := httptest.NewRecorder()
	newRollupRouter(coordinator).ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body struct {
		Data RefreshResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(42), body.Data.RequestID)
	coordinator.AssertExpectations(t)
}

func TestToReportDTO_HiddenStatuses(t *testing.T) {
	rows := []domain.Row{
		{Region: "North", District: "Delta", Office: "Main", AppKey: "A-1", Status: "Draft"},
		{Region: "North", District: "Delta", Office: "Main", AppKey: "A-2", Status: "Cancelled"},
	}
	all := []string{"Draft", "Cancelled"}
	root := domain.BuildTree(rows, all)
	report := &domain.Report{
		Statuses:    []string{"Draft"},
		AllStatuses: all,
		Root:        root,
		Targets:     domain.EmptyTargets(domain.DefaultGrowthFactor),
		RowCount:    root.Total,
		GeneratedAt: time.Now().UTC(),
	}

	dto := toReportDTO(ports.ReportState{RequestID: 1, Report: report})

	require.Len(t, dto.Regions, 2)
	north := dto.Regions[0]
	assert.NotContains(t, north.ByStatus, "Cancelled", "hidden status is not rendered")
	assert.Equal(t, 2, north.Total, "hidden status still counts toward the total")
}
