package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rkmishra-dev/sheetport/internal/logging"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// writeTestWorkbook saves an xlsx file with the given sheets, each a slice of
// string rows. The default "Sheet1" is renamed to the first sheet name.
func writeTestWorkbook(t *testing.T, path string, sheets map[string][][]string, order []string) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetName("Sheet1", order[0]))
	for _, name := range order[1:] {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}

	for name, rows := range sheets {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	require.NoError(t, f.SaveAs(path))
}

func TestExcelReader_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Patients.xlsx")
	writeTestWorkbook(t, path, map[string][][]string{
		"People": {
			{"Name", "Age", "Visit Date"},
			{"Asha", "41", "2024-03-15"},
			{"Bindu", "37", ""},
		},
		"Empty": {},
	}, []string{"People", "Empty"})

	wb, err := NewExcelReader(logging.NewNullLogger()).Read(path)
	require.NoError(t, err)

	assert.Equal(t, "Patients", wb.Stem)
	require.Len(t, wb.Sheets, 2)

	people := wb.Sheets[0]
	assert.Equal(t, "Patients.xlsx", people.File)
	assert.Equal(t, "People", people.Name)
	assert.Equal(t, []string{"Name", "Age", "Visit Date"}, people.Columns)
	require.Len(t, people.Rows, 2)
	assert.Equal(t, sheetport.TextCell("Asha"), people.Rows[0][0])
	assert.Equal(t, sheetport.IntCell(41), people.Rows[0][1])
	assert.Equal(t, sheetport.KindTimestamp, people.Rows[0][2].Kind)
	assert.True(t, people.Rows[1][2].IsNull(), "missing trailing cell padded with null")

	assert.True(t, wb.Sheets[1].IsEmpty())
}

func TestExcelReader_DropsBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaps.xlsx")
	writeTestWorkbook(t, path, map[string][][]string{
		"Data": {
			{"A", "B"},
			{"1", "2"},
			{"", ""},
			{"3", "4"},
		},
	}, []string{"Data"})

	wb, err := NewExcelReader(logging.NewNullLogger()).Read(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Len(t, wb.Sheets[0].Rows, 2)
}

func TestExcelReader_UnreadableFile(t *testing.T) {
	_, err := NewExcelReader(logging.NewNullLogger()).Read(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestNewExcelReader_NilLoggerPanics(t *testing.T) {
	assert.Panics(t, func() { NewExcelReader(nil) })
}
