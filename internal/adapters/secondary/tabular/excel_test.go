package tabular_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ferren/application-rollup-backend/internal/adapters/secondary/tabular"
	apperrors "github.com/ferren/application-rollup-backend/internal/core/errors"
)

// buildWorkbook writes an in-memory XLSX with the given sheets. Each sheet
// maps to its rows, written from cell A1.
func buildWorkbook(t *testing.T, sheets map[string][][]string, order []string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for rowIdx, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbook(t *testing.T) {
	rows := [][]string{
		{"Region", "District", "Office", "Application No", "Status"},
		{"North", "Delta", "Main", "A-1", "Draft"},
	}

	t.Run("reads the first sheet by default", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]string{"Applications": rows}, []string{"Applications"})

		ds, err := tabular.ParseWorkbook(r, "export.xlsx", "")
		require.NoError(t, err)

		assert.Equal(t, "Applications", ds.SheetName)
		assert.Equal(t, []string{"Applications"}, ds.SheetNames)
		assert.Equal(t, rows[0], ds.Headers)
		require.Len(t, ds.Cells, 1)
		assert.Equal(t, rows[1], ds.Cells[0])
	})

	t.Run("preferred sheet matches case-insensitively", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]string{
			"Notes":        {{"note"}},
			"Applications": rows,
		}, []string{"Notes", "Applications"})

		ds, err := tabular.ParseWorkbook(r, "export.xlsx", "applications")
		require.NoError(t, err)
		assert.Equal(t, "Applications", ds.SheetName)
		assert.Equal(t, []string{"Notes", "Applications"}, ds.SheetNames)
	})

	t.Run("missing preferred sheet lists available sheets", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]string{"Notes": {{"note"}}}, []string{"Notes"})

		_, err := tabular.ParseWorkbook(r, "export.xlsx", "Applications")
		require.Error(t, err)

		var sheetErr *apperrors.SheetNotFoundError
		require.ErrorAs(t, err, &sheetErr)
		assert.Equal(t, "Applications", sheetErr.Sheet)
		assert.Equal(t, []string{"Notes"}, sheetErr.AvailableSheets)
	})

	t.Run("empty sheet", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]string{"Empty": nil}, []string{"Empty"})

		_, err := tabular.ParseWorkbook(r, "export.xlsx", "")
		assert.ErrorIs(t, err, apperrors.ErrEmptyUpload)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := tabular.ParseWorkbook(bytes.NewReader([]byte("plain text")), "export.xlsx", "")
		assert.Error(t, err)
	})
}
