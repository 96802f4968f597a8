package domain

// EventType enumerates the real-time events pushed to dashboard clients.
type EventType string

const (
	// EventReportUpdated carries a freshly computed report summary.
	EventReportUpdated EventType = "report.updated"
	// EventReportFailed carries the display message for a failed computation.
	EventReportFailed EventType = "report.failed"
	// EventDatasetReplaced announces that a dataset slot changed and a
	// recomputation is in flight.
	EventDatasetReplaced EventType = "dataset.replaced"
)

// Event is the envelope broadcast over the WebSocket hub.
type Event struct {
	Type      EventType `json:"type"`
	RequestID uint64    `json:"requestId"`
	Payload   any       `json:"payload,omitempty"`
}
