package http

import (
	"time"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// GrandTotalKey labels the synthetic rollup row appended after the region
// groups. It is the root aggregate re-labeled, never recomputed.
const GrandTotalKey = "Grand Total"

// NodeDTO is one group in the rendered rollup tree. ByStatus carries the
// displayed statuses only; Total includes hidden statuses as well.
type NodeDTO struct {
	Key      string         `json:"key"`
	ByStatus map[string]int `json:"byStatus"`
	Total    int            `json:"total"`
	Children []NodeDTO      `json:"children,omitempty"`
}

// RegionDTO is a level-0 group row with its progress target.
type RegionDTO struct {
	NodeDTO
	Target int `json:"target"`
}

// TargetsDTO describes the baseline target set.
type TargetsDTO struct {
	Available  bool `json:"available"`
	PriorTotal int  `json:"priorTotal,omitempty"`
	Grand      int  `json:"grand,omitempty"`
}

// ReportDTO is the full response of GET /rollup.
type ReportDTO struct {
	RequestID   uint64      `json:"requestId"`
	Computing   bool        `json:"computing"`
	Message     string      `json:"message"`
	Failed      bool        `json:"failed"`
	Statuses    []string    `json:"statuses"`
	Regions     []RegionDTO `json:"regions"`
	Targets     TargetsDTO  `json:"targets"`
	RowCount    int         `json:"rowCount"`
	GeneratedAt *time.Time  `json:"generatedAt,omitempty"`
}

// toReportDTO flattens the coordinator's visible state for rendering.
func toReportDTO(state ports.ReportState) ReportDTO {
	dto := ReportDTO{
		RequestID: state.RequestID,
		Computing: state.Computing,
		Message:   state.Message,
		Failed:    state.Failed,
		Statuses:  []string{},
		Regions:   []RegionDTO{},
	}

	report := state.Report
	if report == nil {
		return dto
	}

	dto.Statuses = report.Statuses
	dto.RowCount = report.RowCount
	generatedAt := report.GeneratedAt
	dto.GeneratedAt = &generatedAt
	dto.Targets = TargetsDTO{
		Available:  report.Targets.Available,
		PriorTotal: report.Targets.PriorTotal,
		Grand:      report.Targets.GrandTarget(report.Root.Total),
	}

	for _, region := range report.Root.Children() {
		dto.Regions = append(dto.Regions, RegionDTO{
			NodeDTO: toNodeDTO(region, report.Statuses),
			Target:  report.Targets.ForRegion(region.Key, region.Total),
		})
	}

	// The grand-total row is the root re-labeled and always comes last.
	grand := toNodeDTO(report.Root, report.Statuses)
	grand.Key = GrandTotalKey
	grand.Children = nil
	dto.Regions = append(dto.Regions, RegionDTO{
		NodeDTO: grand,
		Target:  report.Targets.GrandTarget(report.Root.Total),
	})

	return dto
}

// toNodeDTO renders a rollup node and its descendants.
func toNodeDTO(node *domain.Node, statuses []string) NodeDTO {
	byStatus := make(map[string]int, len(statuses))
	for _, s := range statuses {
		byStatus[s] = node.ByStatus[s]
	}

	dto := NodeDTO{
		Key:      node.Key,
		ByStatus: byStatus,
		Total:    node.Total,
	}
	for _, child := range node.Children() {
		dto.Children = append(dto.Children, toNodeDTO(child, statuses))
	}
	return dto
}
