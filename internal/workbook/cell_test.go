package workbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want sheetport.Cell
	}{
		{"empty is null", "", sheetport.NullCell()},
		{"whitespace is null", "   ", sheetport.NullCell()},
		{"integer", "42", sheetport.IntCell(42)},
		{"negative integer", "-7", sheetport.IntCell(-7)},
		{"float", "3.14", sheetport.FloatCell(3.14)},
		{"scientific notation", "1e3", sheetport.FloatCell(1000)},
		{"digit stays numeric not bool", "1", sheetport.IntCell(1)},
		{"bool true word", "Yes", sheetport.BoolCell(true)},
		{"bool false word", "FALSE", sheetport.BoolCell(false)},
		{"iso date", "2024-03-15",
			sheetport.TimestampCell(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"us date", "03/15/2024",
			sheetport.TimestampCell(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"date and time", "2024-03-15 09:30:00",
			sheetport.TimestampCell(time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))},
		{"bare time lands on zero date", "09:30:00",
			sheetport.TimestampCell(time.Date(0, 1, 1, 9, 30, 0, 0, time.UTC))},
		{"plain text", "hello", sheetport.TextCell("hello")},
		{"text trimmed", "  hello  ", sheetport.TextCell("hello")},
		{"almost a date", "2024-13-45", sheetport.TextCell("2024-13-45")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCell(tt.in))
		})
	}
}
