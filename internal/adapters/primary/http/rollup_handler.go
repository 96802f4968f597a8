package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// RollupHandler exposes the computed report and explicit refresh requests.
type RollupHandler struct {
	coordinator  ports.ReportCoordinator
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewRollupHandler creates a new rollup handler.
func NewRollupHandler(coordinator ports.ReportCoordinator, errorHandler *ErrorHandler, logger *slog.Logger) *RollupHandler {
	return &RollupHandler{
		coordinator:  coordinator,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "rollup"),
	}
}

// RegisterRoutes registers rollup routes.
func (h *RollupHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetReport)
	r.Post("/refresh", h.HandleRefresh)
}

// HandleGetReport handles GET /rollup. It always succeeds: an absent or
// failed report is represented inside the DTO, not as an HTTP error.
func (h *RollupHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	state := h.coordinator.State()
	WriteSuccess(w, toReportDTO(state))
}

// RefreshResponse acknowledges a scheduled recomputation.
type RefreshResponse struct {
	RequestID uint64 `json:"requestId"`
}

// HandleRefresh handles POST /rollup/refresh
func (h *RollupHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	id := h.coordinator.Refresh()
	h.logger.InfoContext(r.Context(), "refresh requested", "request_id", id)
	WriteAccepted(w, RefreshResponse{RequestID: id})
}
