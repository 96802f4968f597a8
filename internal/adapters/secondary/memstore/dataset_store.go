// Package memstore holds the uploaded datasets in process memory. The
// service deliberately has no persistence: datasets live as long as the
// process and are re-uploaded after a restart.
package memstore

import (
	"sync"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// DatasetStore is a mutex-guarded holder of the two dataset slots.
type DatasetStore struct {
	mu    sync.RWMutex
	slots map[domain.Period]*domain.Dataset
}

var _ ports.DatasetStore = (*DatasetStore)(nil)

// NewDatasetStore creates an empty store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		slots: make(map[domain.Period]*domain.Dataset, 2),
	}
}

// Put replaces the slot's dataset atomically.
func (s *DatasetStore) Put(period domain.Period, ds *domain.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[period] = ds
}

// Get returns the slot's dataset, if loaded.
func (s *DatasetStore) Get(period domain.Period) (*domain.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.slots[period]
	return ds, ok
}

// Clear empties the slot and reports whether a dataset was present.
func (s *DatasetStore) Clear(period domain.Period) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slots[period]
	delete(s.slots, period)
	return ok
}

// Summaries describes the loaded datasets, current period first.
func (s *DatasetStore) Summaries() []domain.DatasetSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DatasetSummary, 0, len(s.slots))
	for _, period := range []domain.Period{domain.PeriodCurrent, domain.PeriodPrior} {
		ds, ok := s.slots[period]
		if !ok {
			continue
		}
		out = append(out, domain.DatasetSummary{
			ID:         ds.ID,
			Period:     period,
			FileName:   ds.FileName,
			SheetName:  ds.SheetName,
			Rows:       ds.RowCount(),
			UploadedAt: ds.UploadedAt,
		})
	}
	return out
}
