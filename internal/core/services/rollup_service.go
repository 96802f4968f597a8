package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// RollupConfig holds the tunable policy knobs of the computation: the column
// names, the canonical status ordering, the statuses hidden from the
// displayed dimension, and the growth factor behind targets.
type RollupConfig struct {
	Columns           ColumnSpec
	CanonicalStatuses []string
	HiddenStatuses    []string
	GrowthFactor      float64
}

// DefaultRollupConfig returns the standard policy: canonical business status
// order, nothing hidden, 10% growth.
func DefaultRollupConfig() RollupConfig {
	return RollupConfig{
		Columns:           DefaultColumnSpec(),
		CanonicalStatuses: domain.CanonicalStatusOrder,
		GrowthFactor:      domain.DefaultGrowthFactor,
	}
}

// RollupService implements the aggregation and target pipeline.
type RollupService struct {
	normalizer *Normalizer
	ranker     *domain.StatusRanker
	hidden     map[string]bool
	growth     float64
	logger     *slog.Logger
}

var _ ports.RollupService = (*RollupService)(nil)

// NewRollupService creates the rollup service from its configuration.
func NewRollupService(cfg RollupConfig, logger *slog.Logger) *RollupService {
	hidden := make(map[string]bool, len(cfg.HiddenStatuses))
	for _, s := range cfg.HiddenStatuses {
		hidden[domain.CanonicalKey(s)] = true
	}

	growth := cfg.GrowthFactor
	if growth <= 0 {
		growth = domain.DefaultGrowthFactor
	}

	return &RollupService{
		normalizer: NewNormalizer(cfg.Columns),
		ranker:     domain.NewStatusRanker(cfg.CanonicalStatuses),
		hidden:     hidden,
		growth:     growth,
		logger:     logger.With("service", "rollup"),
	}
}

type targetResult struct {
	targets domain.TargetSet
	err     error
}

// Compute runs the full pipeline over the current dataset and, when present,
// the prior one. The prior-period target derivation shares nothing with the
// aggregation and runs concurrently with it; the result waits for both.
func (s *RollupService) Compute(ctx context.Context, current, prior *domain.Dataset) (*domain.Report, error) {
	if current == nil {
		return nil, apperrors.ErrNoCurrentDataset
	}

	targetCh := make(chan targetResult, 1)
	go func() {
		targetCh <- s.computeTargets(prior)
	}()

	rows, err := s.normalizer.Normalize(current)
	if err != nil {
		return nil, err
	}

	ranked := s.rankStatuses(rows)
	reps := domain.Representatives(ranked)
	for i := range rows {
		if !rows[i].Countable() {
			continue
		}
		// All countable statuses are in the vocabulary; remapping folds
		// repeated spellings into one column.
		rows[i].Status = reps[domain.CanonicalKey(rows[i].Status)]
	}

	root := domain.BuildTree(rows, ranked)

	tr := <-targetCh
	if tr.err != nil {
		return nil, tr.err
	}

	report := &domain.Report{
		Statuses:    s.displayedStatuses(ranked),
		AllStatuses: ranked,
		Root:        root,
		Targets:     tr.targets,
		RowCount:    root.Total,
		GeneratedAt: time.Now().UTC(),
	}

	s.logger.DebugContext(ctx, "report computed",
		"rows", report.RowCount,
		"regions", len(root.Children()),
		"statuses", len(ranked),
		"targets_available", tr.targets.Available,
	)
	return report, nil
}

// rankStatuses orders the status vocabulary of the identifier-bearing rows.
func (s *RollupService) rankStatuses(rows []domain.Row) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Countable() {
			values = append(values, row.Status)
		}
	}
	return s.ranker.Rank(values)
}

// displayedStatuses removes the configured hidden statuses from the ranked
// vocabulary. Hidden statuses still count toward node totals.
func (s *RollupService) displayedStatuses(ranked []string) []string {
	displayed := make([]string, 0, len(ranked))
	for _, status := range ranked {
		if !s.hidden[domain.CanonicalKey(status)] {
			displayed = append(displayed, status)
		}
	}
	return displayed
}

// computeTargets normalizes the prior dataset and derives the target set. A
// nil prior dataset yields the unavailable set, not an error.
func (s *RollupService) computeTargets(prior *domain.Dataset) targetResult {
	if prior == nil {
		return targetResult{targets: domain.EmptyTargets(s.growth)}
	}

	rows, err := s.normalizer.Normalize(prior)
	if err != nil {
		return targetResult{targets: domain.EmptyTargets(s.growth), err: err}
	}
	return targetResult{targets: domain.ComputeTargets(rows, s.growth)}
}
