package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
)

// ParseCSV reads a CSV export into a dataset. The first record is the header
// row; short records are tolerated and padded during normalization.
func ParseCSV(r io.Reader, fileName string) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, apperrors.ErrEmptyUpload
	}

	// A CSV has no sheets; the file name stands in as the single table name
	// for schema diagnostics.
	tableName := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))

	return &domain.Dataset{
		ID:         uuid.New(),
		FileName:   fileName,
		SheetName:  tableName,
		SheetNames: []string{tableName},
		Headers:    records[0],
		Cells:      records[1:],
		UploadedAt: time.Now().UTC(),
	}, nil
}
