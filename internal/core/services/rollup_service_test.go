package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
	"github.com/ferren/application-rollup-backend/internal/core/services"
	"github.com/ferren/application-rollup-backend/internal/infrastructure/logging"
)

var stdHeaders = []string{"Region", "District", "Office", "Application No", "Status"}

func newRollupService(t *testing.T, cfg services.RollupConfig) *services.RollupService {
	t.Helper()
	return services.NewRollupService(cfg, logging.NewNopLogger())
}

func TestRollupService_Compute(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates the current dataset", func(t *testing.T) {
		svc := newRollupService(t, services.DefaultRollupConfig())
		current := makeDataset(stdHeaders, [][]string{
			{"North", "Delta", "Main", "A-1", "Draft"},
			{"North", "Delta", "Main", "A-2", "Submitted"},
			{"South", "Echo", "Annex", "A-3", "Draft"},
			{"South", "Echo", "Annex", "", "Draft"},
		})

		report, err := svc.Compute(ctx, current, nil)
		require.NoError(t, err)

		assert.Equal(t, 3, report.RowCount)
		assert.Equal(t, []string{"Draft", "Submitted"}, report.Statuses)
		assert.Equal(t, 2, report.Root.ByStatus["Draft"])

		north, ok := report.Root.Child("North")
		require.True(t, ok)
		assert.Equal(t, 2, north.Total)
	})

	t.Run("case variants of one status count into one column", func(t *testing.T) {
		svc := newRollupService(t, services.DefaultRollupConfig())
		current := makeDataset(stdHeaders, [][]string{
			{"North", "Delta", "Main", "A-1", "Draft"},
			{"North", "Delta", "Main", "A-2", "draft"},
			{"North", "Delta", "Main", "A-3", "DRAFT"},
		})

		report, err := svc.Compute(ctx, current, nil)
		require.NoError(t, err)

		require.Len(t, report.Statuses, 1)
		assert.Equal(t, 3, report.Root.ByStatus[report.Statuses[0]])
		assert.Equal(t, 3, report.RowCount)
	})

	t.Run("hidden statuses are removed from display but count in totals", func(t *testing.T) {
		cfg := services.DefaultRollupConfig()
		cfg.HiddenStatuses = []string{"cancelled"}
		svc := newRollupService(t, cfg)

		current := makeDataset(stdHeaders, [][]string{
			{"North", "Delta", "Main", "A-1", "Draft"},
			{"North", "Delta", "Main", "A-2", "Cancelled"},
		})

		report, err := svc.Compute(ctx, current, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"Draft"}, report.Statuses)
		assert.Equal(t, []string{"Draft", "Cancelled"}, report.AllStatuses)
		assert.Equal(t, 2, report.Root.Total, "hidden status still counts toward totals")
	})

	t.Run("prior dataset drives targets", func(t *testing.T) {
		svc := newRollupService(t, services.DefaultRollupConfig())
		current := makeDataset(stdHeaders, [][]string{
			{"North", "Delta", "Main", "A-1", "Draft"},
		})
		prior := makeDataset(stdHeaders, [][]string{
			{"North", "Delta", "Main", "P-1", "Approved"},
			{"North", "Delta", "Main", "P-2", "Approved"},
			{"South", "Echo", "Annex", "P-3", "Approved"},
		})

		report, err := svc.Compute(ctx, current, prior)
		require.NoError(t, err)

		assert.True(t, report.Targets.Available)
		assert.Equal(t, 3, report.Targets.PriorTotal)
		assert.Equal(t, 4, report.Targets.Grand)
		assert.Equal(t, 3, report.Targets.ByRegion["North"])
	})

	t.Run("no prior dataset leaves targets unavailable", func(t *testing.T) {
		svc := newRollupService(t, services.DefaultRollupConfig())
		current := makeDataset(stdHeaders, [][]string{
			{"North", "Delta", "Main", "A-1", "Draft"},
		})

		report, err := svc.Compute(ctx, current, nil)
		require.NoError(t, err)
		assert.False(t, report.Targets.Available)
	})

	t.Run("nil current dataset", func(t *testing.T) {
		svc := newRollupService(t, services.DefaultRollupConfig())
		_, err := svc.Compute(ctx, nil, nil)
		assert.ErrorIs(t, err, apperrors.ErrNoCurrentDataset)
	})

	t.Run("schema error in current dataset fails the computation", func(t *testing.T) {
		svc := newRollupService(t, services.DefaultRollupConfig())
		current := makeDataset([]string{"Unrelated"}, [][]string{{"x"}})

		_, err := svc.Compute(ctx, current, nil)
		var schemaErr *apperrors.SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})

	t.Run("schema error in prior dataset fails the computation", func(t *testing.T) {
		svc := newRollupService(t, services.DefaultRollupConfig())
		current := makeDataset(stdHeaders, [][]string{
			{"North", "Delta", "Main", "A-1", "Draft"},
		})
		prior := makeDataset([]string{"Unrelated"}, [][]string{{"x"}})

		_, err := svc.Compute(ctx, current, prior)
		var schemaErr *apperrors.SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})

	t.Run("empty dataset yields an empty report", func(t *testing.T) {
		svc := newRollupService(t, services.DefaultRollupConfig())
		current := makeDataset(stdHeaders, nil)

		report, err := svc.Compute(ctx, current, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, report.RowCount)
		assert.Empty(t, report.Statuses)
		assert.Empty(t, report.Root.Children())
	})
}
