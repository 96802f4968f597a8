package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
	"github.com/ferren/application-rollup-backend/internal/core/mocks"
	"github.com/ferren/application-rollup-backend/internal/core/services"
	"github.com/ferren/application-rollup-backend/internal/infrastructure/logging"
)

func testReport(rows []domain.Row) *domain.Report {
	statuses := []string{"Draft"}
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

func currentDataset() *domain.Dataset {
	return makeDataset(stdHeaders, [][]string{
		{"North", "Delta", "Main", "A-1", "Draft"},
	})
}

func waitForSettled(t *testing.T, c *services.Coordinator) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !c.State().Computing
	}, time.Second, 5*time.Millisecond)
}

func TestCoordinator_InitialState(t *testing.T) {
	c := services.NewCoordinator(
		mocks.NewMockDatasetStore(),
		mocks.NewMockRollupService(),
		mocks.NopBroadcaster{},
		logging.NewNopLogger(),
	)

	state := c.State()
	assert.Zero(t, state.RequestID)
	assert.False(t, state.Computing)
	assert.Nil(t, state.Report)
	assert.False(t, state.Failed)
	assert.Equal(t, apperrors.ErrNoCurrentDataset.Error(), state.Message)
}

func TestCoordinator_Refresh_NoDataset(t *testing.T) {
	store := mocks.NewMockDatasetStore()
	store.On("Get", domain.PeriodCurrent).Return(nil, false)

	c := services.NewCoordinator(store, mocks.NewMockRollupService(), mocks.NopBroadcaster{}, logging.NewNopLogger())

	id := c.Refresh()
	assert.Equal(t, uint64(1), id)
	waitForSettled(t, c)

	state := c.State()
	assert.Equal(t, id, state.RequestID)
	assert.Nil(t, state.Report)
	assert.False(t, state.Failed)
	assert.Equal(t, apperrors.ErrNoCurrentDataset.Error(), state.Message)
	store.AssertExpectations(t)
}

func TestCoordinator_Refresh_Success(t *testing.T) {
	ds := currentDataset()
	report := testReport([]domain.Row{
		{Region: "North", District: "Delta", Office: "Main", AppKey: "A-1", Status: "Draft"},
		{Region: "North", District: "Delta", Office: "Main", AppKey: "A-2", Status: "Draft"},
	})

	store := mocks.NewMockDatasetStore()
	store.On("Get", domain.PeriodCurrent).Return(ds, true)
	store.On("Get", domain.PeriodPrior).Return(nil, false)

	rollup := mocks.NewMockRollupService()
	rollup.On("Compute", mock.Anything, ds, (*domain.Dataset)(nil)).Return(report, nil)

	broadcaster := mocks.NewMockEventBroadcaster()
	broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventReportUpdated
	})).Return(nil)

	c := services.NewCoordinator(store, rollup, broadcaster, logging.NewNopLogger())

	id := c.Refresh()
	waitForSettled(t, c)

	state := c.State()
	assert.Equal(t, id, state.RequestID)
	require.NotNil(t, state.Report)
	assert.Equal(t, 2, state.Report.RowCount)
	assert.False(t, state.Failed)
	assert.Equal(t, "2 applications across 1 regions", state.Message)

	broadcaster.AssertExpectations(t)
	rollup.AssertExpectations(t)
}

func TestCoordinator_Refresh_Failure(t *testing.T) {
	ds := currentDataset()
	schemaErr := &apperrors.SchemaError{MissingColumns: []string{"Status"}}

	store := mocks.NewMockDatasetStore()
	store.On("Get", domain.PeriodCurrent).Return(ds, true)
	store.On("Get", domain.PeriodPrior).Return(nil, false)

	rollup := mocks.NewMockRollupService()
	rollup.On("Compute", mock.Anything, ds, (*domain.Dataset)(nil)).Return(nil, schemaErr)

	broadcaster := mocks.NewMockEventBroadcaster()
	broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventReportFailed
	})).Return(nil)

	c := services.NewCoordinator(store, rollup, broadcaster, logging.NewNopLogger())

	c.Refresh()
	waitForSettled(t, c)

	state := c.State()
	assert.True(t, state.Failed)
	assert.Nil(t, state.Report, "failure never leaves a stale report visible")
	assert.Equal(t, schemaErr.Error(), state.Message)
	broadcaster.AssertExpectations(t)
}

func TestCoordinator_Refresh_ClearsStateImmediately(t *testing.T) {
	ds := currentDataset()
	gate := make(chan struct{})

	store := mocks.NewMockDatasetStore()
	store.On("Get", domain.PeriodCurrent).Return(ds, true)
	store.On("Get", domain.PeriodPrior).Return(nil, false)

	rollup := mocks.NewMockRollupService()
	rollup.On("Compute", mock.Anything, ds, (*domain.Dataset)(nil)).
		Run(func(mock.Arguments) { <-gate }).
		Return(testReport(nil), nil)

	c := services.NewCoordinator(store, rollup, mocks.NopBroadcaster{}, logging.NewNopLogger())

	id := c.Refresh()

	state := c.State()
	assert.Equal(t, id, state.RequestID)
	assert.True(t, state.Computing)
	assert.Nil(t, state.Report)
	assert.Equal(t, "computing report", state.Message)

	close(gate)
	c.Shutdown()
}

// A slow first computation must not overwrite the result of a newer request
// that finished before it.
func TestCoordinator_StaleResultDiscarded(t *testing.T) {
	ds := currentDataset()

	slowReport := testReport([]domain.Row{
		{Region: "North", District: "Delta", Office: "Main", AppKey: "OLD", Status: "Draft"},
	})
	freshReport := testReport([]domain.Row{
		{Region: "North", District: "Delta", Office: "Main", AppKey: "NEW-1", Status: "Draft"},
		{Region: "North", District: "Delta", Office: "Main", AppKey: "NEW-2", Status: "Draft"},
	})

	store := mocks.NewMockDatasetStore()
	store.On("Get", domain.PeriodCurrent).Return(ds, true)
	store.On("Get", domain.PeriodPrior).Return(nil, false)

	slowStarted := make(chan struct{})
	slowGate := make(chan struct{})

	rollup := mocks.NewMockRollupService()
	rollup.On("Compute", mock.Anything, ds, (*domain.Dataset)(nil)).
		Run(func(mock.Arguments) {
			close(slowStarted)
			<-slowGate
		}).
		Return(slowReport, nil).
		Once()
	rollup.On("Compute", mock.Anything, ds, (*domain.Dataset)(nil)).
		Return(freshReport, nil).
		Once()

	c := services.NewCoordinator(store, rollup, mocks.NopBroadcaster{}, logging.NewNopLogger())

	first := c.Refresh()
	<-slowStarted

	second := c.Refresh()
	require.Greater(t, second, first)

	// The newer request finishes first and becomes visible.
	require.Eventually(t, func() bool {
		s := c.State()
		return !s.Computing && s.Report != nil
	}, time.Second, 5*time.Millisecond)

	// Now let the superseded computation finish; its result must be dropped.
	close(slowGate)
	c.Shutdown()

	state := c.State()
	assert.Equal(t, second, state.RequestID)
	require.NotNil(t, state.Report)
	assert.Equal(t, 2, state.Report.RowCount, "stale result must not replace the newer one")
	rollup.AssertExpectations(t)
}

func TestCoordinator_RefreshIDsIncrease(t *testing.T) {
	store := mocks.NewMockDatasetStore()
	store.On("Get", domain.PeriodCurrent).Return(nil, false)

	c := services.NewCoordinator(store, mocks.NewMockRollupService(), mocks.NopBroadcaster{}, logging.NewNopLogger())

	var last uint64
	for i := 0; i < 5; i++ {
		id := c.Refresh()
		assert.Greater(t, id, last)
		last = id
	}
	c.Shutdown()
}
