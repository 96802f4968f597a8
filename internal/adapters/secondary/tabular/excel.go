package tabular

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
)

// ParseWorkbook reads one sheet of an XLSX workbook into a dataset. An empty
// preferredSheet selects the first sheet; a preferred sheet missing from the
// workbook is an error that lists every available sheet name.
func ParseWorkbook(r io.Reader, fileName, preferredSheet string) (*domain.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ErrEmptyUpload
	}

	sheet := sheets[0]
	if preferredSheet != "" {
		sheet = ""
		want := domain.CanonicalKey(preferredSheet)
		for _, name := range sheets {
			if domain.CanonicalKey(name) == want {
				sheet = name
				break
			}
		}
		if sheet == "" {
			return nil, &apperrors.SheetNotFoundError{
				Sheet:           preferredSheet,
				AvailableSheets: sheets,
			}
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyUpload
	}

	return &domain.Dataset{
		ID:         uuid.New(),
		FileName:   fileName,
		SheetName:  sheet,
		SheetNames: sheets,
		Headers:    rows[0],
		Cells:      rows[1:],
		UploadedAt: time.Now().UTC(),
	}, nil
}
