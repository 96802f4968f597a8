package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// MockDatasetStore is a mock implementation of ports.DatasetStore
type MockDatasetStore struct {
	mock.Mock
}

func NewMockDatasetStore() *MockDatasetStore {
	return &MockDatasetStore{}
}

func (m *MockDatasetStore) Put(period domain.Period, ds *domain.Dataset) {
	m.Called(period, ds)
}

func (m *MockDatasetStore) Get(period domain.Period) (*domain.Dataset, bool) {
	args := m.Called(period)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Dataset), args.Bool(1)
}

func (m *MockDatasetStore) Clear(period domain.Period) bool {
	args := m.Called(period)
	return args.Bool(0)
}

func (m *MockDatasetStore) Summaries() []domain.DatasetSummary {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.DatasetSummary)
}

// MockRollupService is a mock implementation of ports.RollupService
type MockRollupService struct {
	mock.Mock
}

func NewMockRollupService() *MockRollupService {
	return &MockRollupService{}
}

func (m *MockRollupService) Compute(ctx context.Context, current, prior *domain.Dataset) (*domain.Report, error) {
	args := m.Called(ctx, current, prior)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Login(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

// MockReportCoordinator is a mock implementation of ports.ReportCoordinator
type MockReportCoordinator struct {
	mock.Mock
}

func NewMockReportCoordinator() *MockReportCoordinator {
	return &MockReportCoordinator{}
}

func (m *MockReportCoordinator) Refresh() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockReportCoordinator) State() ports.ReportState {
	args := m.Called()
	return args.Get(0).(ports.ReportState)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// NopBroadcaster is a no-op EventBroadcaster for tests that do not care
// about events.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(domain.Event) error { return nil }
