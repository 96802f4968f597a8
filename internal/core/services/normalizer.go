package services

import (
	"strings"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
)

// ColumnSpec names the required columns of an uploaded export. Matching
// against actual headers is case-insensitive and whitespace-collapsing, so
// "application  no" resolves "Application No".
type ColumnSpec struct {
	Region   string
	District string
	Office   string
	AppKey   string
	Status   string
}

// DefaultColumnSpec returns the column names used by the standard tracking
// spreadsheet export.
func DefaultColumnSpec() ColumnSpec {
	return ColumnSpec{
		Region:   "Region",
		District: "District",
		Office:   "Office",
		AppKey:   "Application No",
		Status:   "Status",
	}
}

// required returns the column names in reporting order.
func (c ColumnSpec) required() []string {
	return []string{c.Region, c.District, c.Office, c.AppKey, c.Status}
}

// Normalizer turns raw dataset rows into canonical domain rows. It is a pure
// transformation with no side effects.
type Normalizer struct {
	columns ColumnSpec
}

// NewNormalizer creates a normalizer for the given column specification.
func NewNormalizer(columns ColumnSpec) *Normalizer {
	return &Normalizer{columns: columns}
}

// Normalize resolves the required columns against the dataset headers and
// converts every data row. Any unresolvable required column fails the whole
// operation with a SchemaError naming all missing columns and the source's
// available sheet names.
func (n *Normalizer) Normalize(ds *domain.Dataset) ([]domain.Row, error) {
	index, err := n.resolveColumns(ds)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Row, 0, len(ds.Cells))
	for _, cells := range ds.Cells {
		rows = append(rows, domain.Row{
			Region:   categorical(cells, index[n.columns.Region]),
			District: categorical(cells, index[n.columns.District]),
			Office:   categorical(cells, index[n.columns.Office]),
			Status:   categorical(cells, index[n.columns.Status]),
			// The identifier stays empty when blank: emptiness drives the
			// aggregation filter, unlike a blank category.
			AppKey: cell(cells, index[n.columns.AppKey]),
		})
	}
	return rows, nil
}

// resolveColumns maps each required column name to its header position.
func (n *Normalizer) resolveColumns(ds *domain.Dataset) (map[string]int, error) {
	byKey := make(map[string]int, len(ds.Headers))
	for i, header := range ds.Headers {
		key := domain.CanonicalKey(header)
		if _, ok := byKey[key]; !ok {
			byKey[key] = i
		}
	}

	index := make(map[string]int, 5)
	var missing []string
	for _, name := range n.columns.required() {
		pos, ok := byKey[domain.CanonicalKey(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		index[name] = pos
	}

	if len(missing) > 0 {
		return nil, &apperrors.SchemaError{
			MissingColumns:  missing,
			AvailableSheets: ds.SheetNames,
		}
	}
	return index, nil
}

// cell returns the trimmed value at idx, or "" when the row is short.
func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// categorical is cell with the blank sentinel substituted for empty values.
func categorical(cells []string, idx int) string {
	if v := cell(cells, idx); v != "" {
		return v
	}
	return domain.BlankSentinel
}
