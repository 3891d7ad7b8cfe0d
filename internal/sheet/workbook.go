package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ycliao/jobtrack/internal/domain"
	"github.com/ycliao/jobtrack/internal/store"
)

// WriteWorkbook writes one sheet per non-empty dataset. Datasets with
// no rows are left out, matching the tool's export behavior since the
// beginning.
func WriteWorkbook(w io.Writer, tables map[domain.Dataset]*store.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, d := range domain.All() {
		t := tables[d]
		if t == nil || len(t.Rows) == 0 {
			continue
		}

		sheet := d.SheetName()
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
			}
		}

		if err := writeRow(f, sheet, 1, t.Columns); err != nil {
			return err
		}
		for ri, row := range t.Rows {
			if err := writeRow(f, sheet, ri+2, row); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	for ci, v := range cells {
		cell, err := excelize.CoordinatesToCellName(ci+1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to address cell %d,%d: %w", ci+1, rowNum, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// ReadWorkbook reads every sheet of an uploaded workbook, classifies
// each one to a dataset, and reconciles it to the dataset schema.
// Sheets that cannot be matched are skipped with a log entry rather
// than failing the whole upload.
func ReadWorkbook(r io.Reader) (map[domain.Dataset]*store.Table, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	out := make(map[domain.Dataset]*store.Table)
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			slog.Warn("could not read sheet", "sheet", sheet, "error", err)
			continue
		}
		t := tableFromRows(rows)
		if t == nil {
			continue
		}
		d, ok := domain.ClassifySheet(sheet, t.Columns)
		if !ok {
			slog.Warn("skipping unrecognized sheet", "sheet", sheet, "columns", t.Columns)
			continue
		}
		out[d] = Reconcile(t, d)
	}
	return out, sheets, nil
}

// ReadCSV reads a single uploaded CSV into a raw table. The caller
// decides which dataset it belongs to (or classifies it).
func ReadCSV(r io.Reader) (*store.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if t := tableFromRows(records); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("the file has no header row")
}

// tableFromRows builds a raw table from sheet rows: first row is the
// header, remaining rows are padded to the header width. Returns nil
// for an empty sheet.
func tableFromRows(rows [][]string) *store.Table {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	t := &store.Table{Columns: header, Rows: rows[1:]}
	// GetRows trims trailing empty cells per row, so widths vary.
	for i, row := range t.Rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			t.Rows[i] = padded
		} else if len(row) > len(header) {
			t.Rows[i] = row[:len(header)]
		}
	}
	return t
}
