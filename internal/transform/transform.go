// Package transform normalizes typed sheet rows into database parameter
// values and hosts the named sheet repair plug-ins.
package transform

import (
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rkmishra-dev/sheetport/internal/schema"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// Transform normalizes one row for insertion under the given schema columns.
// Each cell becomes a pgtype value matching its column's storage type; null
// cells and cells that cannot be coerced become invalid (SQL NULL) values.
// The row must be rectangular with the schema.
func Transform(row []sheetport.Cell, columns []schema.Column) []any {
	out := make([]any, len(columns))
	for i, col := range columns {
		out[i] = coerce(row[i], col.Type)
	}
	return out
}

func coerce(c sheetport.Cell, t schema.ColumnType) any {
	if c.IsNull() {
		return nullFor(t)
	}

	switch t {
	case schema.TypeBigInt:
		if c.Kind == sheetport.KindInteger {
			return pgtype.Int8{Int64: c.Int, Valid: true}
		}
	case schema.TypeDouble:
		if c.IsNumeric() {
			return pgtype.Float8{Float64: c.AsFloat(), Valid: true}
		}
	case schema.TypeBoolean:
		if c.Kind == sheetport.KindBool {
			return pgtype.Bool{Bool: c.Bool, Valid: true}
		}
	case schema.TypeTimestamp:
		if c.Kind == sheetport.KindTimestamp {
			return pgtype.Timestamp{Time: c.Time, Valid: true}
		}
	case schema.TypeDate:
		if c.Kind == sheetport.KindTimestamp {
			y, m, d := c.Time.Date()
			return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
		}
	case schema.TypeTime:
		if c.Kind == sheetport.KindTimestamp {
			return pgtype.Time{Microseconds: microsSinceMidnight(c.Time), Valid: true}
		}
	case schema.TypeText:
		return pgtype.Text{String: renderText(c), Valid: true}
	}

	// Inference saw the whole column, so a kind mismatch here means the cell
	// slipped past it (a repaired row, for instance). Store NULL rather than
	// fail the sheet.
	return nullFor(t)
}

func nullFor(t schema.ColumnType) any {
	switch t {
	case schema.TypeBigInt:
		return pgtype.Int8{}
	case schema.TypeDouble:
		return pgtype.Float8{}
	case schema.TypeBoolean:
		return pgtype.Bool{}
	case schema.TypeTimestamp:
		return pgtype.Timestamp{}
	case schema.TypeDate:
		return pgtype.Date{}
	case schema.TypeTime:
		return pgtype.Time{}
	default:
		return pgtype.Text{}
	}
}

func microsSinceMidnight(t time.Time) int64 {
	h, m, s := t.Clock()
	return (int64(h)*3600+int64(m)*60+int64(s))*1e6 + int64(t.Nanosecond())/1e3
}

// renderText formats any cell kind for storage in a TEXT column. Timestamps
// keep only the half they carry: bare dates render as 2006-01-02, bare times
// as 15:04:05.
func renderText(c sheetport.Cell) string {
	switch c.Kind {
	case sheetport.KindInteger:
		return strconv.FormatInt(c.Int, 10)
	case sheetport.KindFloat:
		return strconv.FormatFloat(c.Float, 'f', -1, 64)
	case sheetport.KindBool:
		return strconv.FormatBool(c.Bool)
	case sheetport.KindTimestamp:
		switch schema.RefineTimestamp([]sheetport.Cell{c}) {
		case schema.TypeDate:
			return c.Time.Format(sheetport.DateLayout)
		case schema.TypeTime:
			return c.Time.Format(sheetport.TimeLayout)
		default:
			return c.Time.Format(sheetport.DateTimeLayout)
		}
	default:
		return c.Text
	}
}
