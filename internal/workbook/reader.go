package workbook

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// ExcelReader reads .xlsx workbooks into the typed workbook model.
type ExcelReader struct {
	logger sheetport.Logger
}

// NewExcelReader creates a workbook reader.
// Panics if logger is nil.
func NewExcelReader(logger sheetport.Logger) *ExcelReader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ExcelReader{logger: logger}
}

// Read implements sheetport.WorkbookReader. The first row of each sheet is
// the header; data rows are parsed cell by cell and padded with nulls to the
// header width. A sheet that fails to read is dropped with a verbose note
// unless every sheet fails, in which case the file as a whole errors.
func (r *ExcelReader) Read(path string) (*sheetport.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	fileName := filepath.Base(path)
	wb := &sheetport.Workbook{
		Path: path,
		Stem: strings.TrimSuffix(fileName, filepath.Ext(fileName)),
	}

	var sheetErrs []error
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			r.logger.Verbose("Skipping unreadable sheet %q in %s: %v", name, fileName, err)
			sheetErrs = append(sheetErrs, fmt.Errorf("sheet %q: %w", name, err))
			continue
		}
		wb.Sheets = append(wb.Sheets, buildSheet(fileName, name, rows))
	}

	if len(wb.Sheets) == 0 && len(sheetErrs) > 0 {
		return nil, fmt.Errorf("reading %s: %w", fileName, errors.Join(sheetErrs...))
	}
	return wb, nil
}

// buildSheet turns raw string rows into a rectangular typed sheet. Rows in
// which every cell is blank are dropped; cells beyond the header width are
// ignored, matching what the header declares the table to be.
func buildSheet(fileName, sheetName string, rows [][]string) sheetport.Sheet {
	sheet := sheetport.Sheet{File: fileName, Name: sheetName}
	if len(rows) == 0 {
		return sheet
	}

	sheet.Columns = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		sheet.Columns[i] = strings.TrimSpace(h)
	}

	width := len(sheet.Columns)
	for _, raw := range rows[1:] {
		cells := make([]sheetport.Cell, width)
		blank := true
		for i := range cells {
			if i < len(raw) {
				cells[i] = ParseCell(raw[i])
			} else {
				cells[i] = sheetport.NullCell()
			}
			if !cells[i].IsNull() {
				blank = false
			}
		}
		if blank {
			continue
		}
		sheet.Rows = append(sheet.Rows, cells)
	}

	return sheet
}
