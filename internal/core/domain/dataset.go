package domain

import (
	"time"

	"github.com/google/uuid"
)

// Period identifies one of the two dataset slots.
type Period string

const (
	PeriodCurrent Period = "current"
	PeriodPrior   Period = "prior"
)

// IsValid reports whether the period names a known slot.
func (p Period) IsValid() bool {
	return p == PeriodCurrent || p == PeriodPrior
}

// Dataset is one uploaded table: raw headers and string cell values, plus the
// source sheet names kept for schema diagnostics. Cells hold everything below
// the header row.
type Dataset struct {
	ID         uuid.UUID
	FileName   string
	SheetName  string
	SheetNames []string
	Headers    []string
	Cells      [][]string
	UploadedAt time.Time
}

// RowCount returns the number of data rows (header excluded).
func (d *Dataset) RowCount() int {
	return len(d.Cells)
}

// DatasetSummary describes a loaded dataset for listing endpoints.
type DatasetSummary struct {
	ID         uuid.UUID `json:"id"`
	Period     Period    `json:"period"`
	FileName   string    `json:"fileName"`
	SheetName  string    `json:"sheetName,omitempty"`
	Rows       int       `json:"rows"`
	UploadedAt time.Time `json:"uploadedAt"`
}
