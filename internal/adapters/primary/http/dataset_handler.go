package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferren/application-rollup-backend/internal/adapters/secondary/tabular"
	"github.com/ferren/application-rollup-backend/internal/core/domain"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// DatasetHandler manages the two uploaded dataset slots. Every successful
// mutation schedules a recomputation, which first resets the visible report
// and targets to "unavailable".
type DatasetHandler struct {
	store        ports.DatasetStore
	parser       *tabular.Parser
	coordinator  ports.ReportCoordinator
	broadcaster  ports.EventBroadcaster
	maxBytes     int64
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(
	store ports.DatasetStore,
	parser *tabular.Parser,
	coordinator ports.ReportCoordinator,
	broadcaster ports.EventBroadcaster,
	maxBytes int64,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		store:        store,
		parser:       parser,
		coordinator:  coordinator,
		broadcaster:  broadcaster,
		maxBytes:     maxBytes,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "dataset"),
	}
}

// RegisterRoutes registers dataset routes.
func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/{period}", h.HandleUpload)
	r.Delete("/{period}", h.HandleDelete)
}

// HandleList handles GET /datasets
func (h *DatasetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.store.Summaries())
}

// UploadResponse describes a stored dataset and the refresh it triggered.
type UploadResponse struct {
	Dataset   domain.DatasetSummary `json:"dataset"`
	RequestID uint64                `json:"requestId"`
}

// HandleUpload handles POST /datasets/{period}
func (h *DatasetHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrMissingUploadField)
		return
	}
	defer func() { _ = file.Close() }()

	ds, err := h.parser.Parse(header.Filename, file)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.store.Put(period, ds)
	requestID := h.coordinator.Refresh()

	h.logger.InfoContext(r.Context(), "dataset uploaded",
		"period", period,
		"file", ds.FileName,
		"rows", ds.RowCount(),
		"request_id", requestID,
	)
	_ = h.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventDatasetReplaced,
		RequestID: requestID,
		Payload:   map[string]any{"period": period},
	})

	WriteCreated(w, UploadResponse{
		Dataset: domain.DatasetSummary{
			ID:         ds.ID,
			Period:     period,
			FileName:   ds.FileName,
			SheetName:  ds.SheetName,
			Rows:       ds.RowCount(),
			UploadedAt: ds.UploadedAt,
		},
		RequestID: requestID,
	})
}

// HandleDelete handles DELETE /datasets/{period}
func (h *DatasetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if !h.store.Clear(period) {
		h.errorHandler.Handle(w, r, apperrors.ErrDatasetNotFound)
		return
	}

	requestID := h.coordinator.Refresh()
	h.logger.InfoContext(r.Context(), "dataset cleared",
		"period", period,
		"request_id", requestID,
	)
	_ = h.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventDatasetReplaced,
		RequestID: requestID,
		Payload:   map[string]any{"period": period},
	})

	WriteNoContent(w)
}

// parsePeriod resolves the {period} path parameter.
func parsePeriod(r *http.Request) (domain.Period, error) {
	period := domain.Period(chi.URLParam(r, "period"))
	if !period.IsValid() {
		return "", apperrors.ErrInvalidPeriod
	}
	return period, nil
}
