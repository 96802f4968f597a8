package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// Coordinator runs the rollup pipeline off the request path and guarantees
// that only the result of the most recently issued request ever becomes
// visible. Requests carry a strictly increasing identifier; an older result
// arriving after a newer request has been issued is dropped silently.
// Superseded work is never interrupted, only suppressed.
type Coordinator struct {
	store       ports.DatasetStore
	rollup      ports.RollupService
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger

	gen atomic.Uint64

	mu    sync.RWMutex
	state ports.ReportState

	// wg tracks in-flight computations for clean shutdown.
	wg sync.WaitGroup
}

var _ ports.ReportCoordinator = (*Coordinator)(nil)

// NewCoordinator creates the coordinator. It starts with no visible report.
func NewCoordinator(
	store ports.DatasetStore,
	rollup ports.RollupService,
	broadcaster ports.EventBroadcaster,
	logger *slog.Logger,
) *Coordinator {
	c := &Coordinator{
		store:       store,
		rollup:      rollup,
		broadcaster: broadcaster,
		logger:      logger.With("service", "coordinator"),
	}
	c.state = ports.ReportState{Message: apperrors.ErrNoCurrentDataset.Error()}
	return c
}

// Refresh allocates the next request identifier, clears all visible output
// (so a mid-computation failure can never leave stale targets behind a fresh
// display), and schedules the computation. It returns immediately.
func (c *Coordinator) Refresh() uint64 {
	id := c.gen.Add(1)

	c.mu.Lock()
	c.state = ports.ReportState{
		RequestID: id,
		Computing: true,
		Message:   "computing report",
	}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(id)
	}()
	return id
}

// State returns a copy of the shared visible state.
func (c *Coordinator) State() ports.ReportState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Shutdown waits for in-flight computations to finish.
func (c *Coordinator) Shutdown() {
	c.wg.Wait()
}

// run executes one tagged computation end to end.
func (c *Coordinator) run(id uint64) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic during report computation", "request_id", id, "panic", r)
			c.applyFailure(id, fmt.Errorf("%s", apperrors.ComputationFallbackMessage))
		}
	}()

	ctx := context.Background()

	current, ok := c.store.Get(domain.PeriodCurrent)
	if !ok {
		c.applyEmpty(id, apperrors.ErrNoCurrentDataset.Error())
		return
	}
	prior, _ := c.store.Get(domain.PeriodPrior)

	start := time.Now()
	report, err := c.rollup.Compute(ctx, current, prior)
	if err != nil {
		c.applyFailure(id, err)
		return
	}

	c.applyReport(id, report, time.Since(start))
}

// isLatest reports whether the identifier still names the newest request.
func (c *Coordinator) isLatest(id uint64) bool {
	return id == c.gen.Load()
}

// applyReport installs a successful result, unless superseded.
func (c *Coordinator) applyReport(id uint64, report *domain.Report, elapsed time.Duration) {
	c.mu.Lock()
	if !c.isLatest(id) {
		c.mu.Unlock()
		c.logStale(id)
		return
	}

	message := fmt.Sprintf("%d applications across %d regions",
		report.RowCount, len(report.Root.Children()))
	if report.RowCount == 0 {
		message = "no applications found in the current period"
	}

	c.state = ports.ReportState{
		RequestID: id,
		Report:    report,
		Message:   message,
	}
	c.mu.Unlock()

	c.logger.Info("report applied",
		"request_id", id,
		"rows", report.RowCount,
		"duration_ms", elapsed.Milliseconds(),
	)
	_ = c.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventReportUpdated,
		RequestID: id,
		Payload: map[string]any{
			"rowCount":    report.RowCount,
			"generatedAt": report.GeneratedAt,
			"message":     message,
		},
	})
}

// applyFailure surfaces a failure message, unless superseded. Visible output
// was already cleared when the request was issued.
func (c *Coordinator) applyFailure(id uint64, err error) {
	message := apperrors.DisplayMessage(err)

	c.mu.Lock()
	if !c.isLatest(id) {
		c.mu.Unlock()
		c.logStale(id)
		return
	}
	c.state = ports.ReportState{
		RequestID: id,
		Message:   message,
		Failed:    true,
	}
	c.mu.Unlock()

	c.logger.Warn("report computation failed",
		"request_id", id,
		"error", err.Error(),
	)
	_ = c.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventReportFailed,
		RequestID: id,
		Payload:   map[string]any{"message": message},
	})
}

// applyEmpty installs the no-dataset state, unless superseded.
func (c *Coordinator) applyEmpty(id uint64, message string) {
	c.mu.Lock()
	if !c.isLatest(id) {
		c.mu.Unlock()
		c.logStale(id)
		return
	}
	c.state = ports.ReportState{RequestID: id, Message: message}
	c.mu.Unlock()
}

func (c *Coordinator) logStale(id uint64) {
	c.logger.Debug("discarding stale result",
		"request_id", id,
		"latest_id", c.gen.Load(),
	)
}
