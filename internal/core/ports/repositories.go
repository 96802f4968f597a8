package ports

import (
	"github.com/ferren/application-rollup-backend/internal/core/domain"
)

// DatasetStore defines the port for holding the two uploaded dataset slots.
// Implementations must be safe for concurrent use; a Put fully replaces the
// slot's previous dataset.
type DatasetStore interface {
	Put(period domain.Period, ds *domain.Dataset)
	Get(period domain.Period) (*domain.Dataset, bool)
	Clear(period domain.Period) bool
	Summaries() []domain.DatasetSummary
}
