package ports

import (
	"context"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
)

// AuthService defines the port for dashboard authentication.
type AuthService interface {
	Login(ctx context.Context, password string) (string, error)
}

// RollupService defines the core computation: normalize both datasets, rank
// the status vocabulary, build the rollup tree, and derive targets. The
// prior dataset may be nil, in which case targets come back unavailable.
type RollupService interface {
	Compute(ctx context.Context, current, prior *domain.Dataset) (*domain.Report, error)
}

// ReportState is the single piece of shared visible state: the latest
// applied report plus the display message for the most recent request.
type ReportState struct {
	// RequestID is the identifier of the most recently issued request.
	RequestID uint64

	// Computing is true while that request is still in flight.
	Computing bool

	// Report is the latest applied result; nil when no result is visible
	// (never computed, cleared, or the last request failed).
	Report *domain.Report

	// Message is the textual status or error message for direct display.
	Message string

	// Failed marks Message as an error rather than a progress note.
	Failed bool
}

// ReportCoordinator defines the port for the offloaded computation pipeline.
// Refresh allocates a strictly increasing request identifier, clears visible
// state, and schedules the computation; a result tagged with a superseded
// identifier is discarded silently.
type ReportCoordinator interface {
	Refresh() uint64
	State() ReportState
}

// EventBroadcaster defines the port for pushing real-time events to
// connected dashboard clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
