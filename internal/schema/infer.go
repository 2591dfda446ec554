package schema

import (
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// ColumnType is the storage type chosen for a column by whole-column inference.
type ColumnType int

const (
	TypeBigInt ColumnType = iota
	TypeDouble
	TypeBoolean
	TypeTimestamp
	TypeDate
	TypeTime
	TypeText
)

// String returns the PostgreSQL type name for the column type.
func (t ColumnType) String() string {
	switch t {
	case TypeBigInt:
		return "BIGINT"
	case TypeDouble:
		return "DOUBLE PRECISION"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeDate:
		return "DATE"
	case TypeTime:
		return "TIME"
	default:
		return "TEXT"
	}
}

// Infer maps an observed column's values to a storage type.
//
// Policy, in priority order over the non-null cells: every cell an integer →
// BIGINT; every cell numeric (integer or float) → DOUBLE PRECISION; every cell
// a boolean → BOOLEAN; every cell a timestamp → TIMESTAMP; anything mixed →
// TEXT. An all-null or empty column defaults to TEXT.
//
// This is whole-column, single-pass inference. No sampling, no promotion
// across columns.
func Infer(cells []sheetport.Cell) ColumnType {
	var (
		seen                         bool
		allInt, allNum, allBool, allTime = true, true, true, true
	)

	for _, c := range cells {
		if c.IsNull() {
			continue
		}
		seen = true

		allInt = allInt && c.Kind == sheetport.KindInteger
		allNum = allNum && c.IsNumeric()
		allBool = allBool && c.Kind == sheetport.KindBool
		allTime = allTime && c.Kind == sheetport.KindTimestamp
	}

	if !seen {
		return TypeText
	}

	switch {
	case allInt:
		return TypeBigInt
	case allNum:
		return TypeDouble
	case allBool:
		return TypeBoolean
	case allTime:
		return TypeTimestamp
	default:
		return TypeText
	}
}

// RefineTimestamp narrows a Timestamp column to DATE or TIME when its values
// carry only one half of the information. A column whose timestamps all sit on
// the zero date holds bare times; one whose timestamps are all at midnight
// holds bare dates. Mixed columns stay TIMESTAMP.
func RefineTimestamp(cells []sheetport.Cell) ColumnType {
	dateOnly, timeOnly := true, true
	for _, c := range cells {
		if c.Kind != sheetport.KindTimestamp {
			continue
		}
		h, m, s := c.Time.Clock()
		if h != 0 || m != 0 || s != 0 || c.Time.Nanosecond() != 0 {
			dateOnly = false
		}
		if c.Time.Year() != 0 {
			timeOnly = false
		}
	}

	switch {
	case timeOnly:
		return TypeTime
	case dateOnly:
		return TypeDate
	default:
		return TypeTimestamp
	}
}
