package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"matchprep/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV loads a table from a CSV file. The first header field names the
// identifier column; every other column is parsed as numeric. Empty cells and
// cells that do not parse as numbers become missing values, so free-text
// columns survive the load as all-missing series until they are dropped by
// name.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open table file %s", path), err)
	}
	defer file.Close()

	return readCSV(file, path)
}

func readCSV(r io.Reader, path string) (*Table, error) {
	buffered := bufio.NewReader(r)
	if prefix, err := buffered.Peek(len(utf8BOM)); err == nil && string(prefix) == string(utf8BOM) {
		buffered.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read header of %s", path), err)
	}
	if len(header) == 0 || strings.TrimSpace(header[0]) == "" {
		return nil, errors.NewSchemaError(fmt.Sprintf("table %s has no identifier column", path), nil)
	}

	table := NewTable(strings.TrimSpace(header[0]))
	columns := make([]*Series, len(header)-1)
	for i := range columns {
		columns[i] = &Series{}
	}

	var ids []string
	unparsed := make(map[string]int)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read row of %s", path), err)
		}

		ids = append(ids, strings.TrimSpace(record[0]))
		for i, series := range columns {
			cell := ""
			if i+1 < len(record) {
				cell = strings.TrimSpace(record[i+1])
			}
			if cell == "" {
				series.Append(0, false)
				continue
			}
			value, parseErr := strconv.ParseFloat(cell, 64)
			if parseErr != nil {
				series.Append(0, false)
				unparsed[header[i+1]]++
				continue
			}
			series.Append(value, true)
		}
	}

	if err := table.SetIDs(ids); err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("inconsistent rows in %s", path), err)
	}
	for i, series := range columns {
		name := strings.TrimSpace(header[i+1])
		if err := table.AddColumn(name, series); err != nil {
			return nil, errors.NewSchemaError(fmt.Sprintf("invalid column in %s", path), err)
		}
	}

	for name, count := range unparsed {
		slog.Debug("non-numeric cells treated as missing",
			slog.String("path", path),
			slog.String("column", name),
			slog.Int("cell_count", count))
	}

	slog.Info("loaded table",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumColumns()))

	return table, nil
}

// WriteCSV persists a table to a CSV file. Floats are encoded at full
// precision so a reload reproduces the exact values; missing cells are
// written as empty fields. A UTF-8 BOM is prepended for Excel compatibility.
func WriteCSV(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for table output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create table file %s", path), err)
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return errors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{t.IDName()}, t.Columns()...)
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write header row", err)
	}

	columns := t.Columns()
	for i, id := range t.IDs() {
		record := make([]string, 0, len(header))
		record = append(record, id)
		for _, name := range columns {
			series, _ := t.Column(name)
			if !series.Valid[i] {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(series.Values[i], 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush table file", err)
	}

	slog.Info("persisted table",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))

	return nil
}
