package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"matchprep/internal/errors"
)

const excelSheet = "Sheet1"

// WriteExcel exports a table to an Excel workbook. Missing cells are left
// blank. The export is a convenience for manual inspection; the CSV written
// by WriteCSV remains the authoritative persisted form.
func WriteExcel(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for Excel output", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, 0, t.NumColumns()+1)
	header = append(header, t.IDName())
	for _, name := range t.Columns() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(excelSheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write Excel header row", err)
	}

	columns := t.Columns()
	for i, id := range t.IDs() {
		row := make([]interface{}, 0, len(header))
		row = append(row, id)
		for _, name := range columns {
			series, _ := t.Column(name)
			if !series.Valid[i] {
				row = append(row, nil)
				continue
			}
			row = append(row, series.Values[i])
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to address Excel row %d", i+2), err)
		}
		if err := f.SetSheetRow(excelSheet, cell, &row); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write Excel row %d", i+2), err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to save Excel file %s", path), err)
	}

	slog.Info("exported table to Excel",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()))

	return nil
}
