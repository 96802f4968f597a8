// Package tabular parses uploaded spreadsheet exports into in-memory
// datasets. The core never touches file formats; everything downstream of
// this package works on domain.Dataset values.
package tabular

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
)

// Parser dispatches an upload to the right format parser by file extension.
type Parser struct {
	preferredSheet string
}

// NewParser creates a parser. preferredSheet applies to workbook uploads
// only; empty means the first sheet.
func NewParser(preferredSheet string) *Parser {
	return &Parser{preferredSheet: preferredSheet}
}

// Parse reads an uploaded file into a dataset.
func (p *Parser) Parse(fileName string, r io.Reader) (*domain.Dataset, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return ParseCSV(r, fileName)
	case ".xlsx", ".xlsm":
		return ParseWorkbook(r, fileName, p.preferredSheet)
	default:
		return nil, apperrors.ErrUnsupportedFormat
	}
}
