package sheetport

import (
	"fmt"
	"time"
)

// CellKind discriminates the tagged union a spreadsheet cell is modeled as.
// Every cell maps to exactly one kind; inference and transformation are total
// over this set.
type CellKind int

const (
	KindNull CellKind = iota
	KindInteger
	KindFloat
	KindBool
	KindTimestamp
	KindText
)

// String returns a human-readable string representation of the CellKind.
func (k CellKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Cell is one loosely-typed spreadsheet value. Only the payload field matching
// Kind is meaningful; the zero value is a null cell.
type Cell struct {
	Kind  CellKind
	Int   int64
	Float float64
	Bool  bool
	Time  time.Time
	Text  string
}

// Constructors keep call sites honest about which payload field is set.

func NullCell() Cell                 { return Cell{Kind: KindNull} }
func IntCell(v int64) Cell           { return Cell{Kind: KindInteger, Int: v} }
func FloatCell(v float64) Cell       { return Cell{Kind: KindFloat, Float: v} }
func BoolCell(v bool) Cell           { return Cell{Kind: KindBool, Bool: v} }
func TimestampCell(v time.Time) Cell { return Cell{Kind: KindTimestamp, Time: v} }
func TextCell(v string) Cell         { return Cell{Kind: KindText, Text: v} }

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.Kind == KindNull }

// IsNumeric reports whether the cell holds an integer or floating point value.
func (c Cell) IsNumeric() bool { return c.Kind == KindInteger || c.Kind == KindFloat }

// AsFloat returns the cell's numeric value. Only meaningful for numeric cells.
func (c Cell) AsFloat() float64 {
	if c.Kind == KindInteger {
		return float64(c.Int)
	}
	return c.Float
}

// Sheet is one tabular unit within a workbook: a header row of column names
// and the data rows beneath it. Rows are rectangular — every row has exactly
// len(Columns) cells, padded with nulls where the source row was short.
type Sheet struct {
	File    string // Source file name (with extension)
	Name    string // Sheet name within the workbook
	Columns []string
	Rows    [][]Cell
}

// IsEmpty reports whether the sheet has no data rows, or only rows in which
// every cell is null. Such sheets are skipped, not failed.
func (s *Sheet) IsEmpty() bool {
	for _, row := range s.Rows {
		for _, cell := range row {
			if !cell.IsNull() {
				return false
			}
		}
	}
	return true
}

// Column returns the cells of the named column in row order, or nil if the
// sheet has no such column.
func (s *Sheet) Column(name string) []Cell {
	idx := -1
	for i, c := range s.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	cells := make([]Cell, len(s.Rows))
	for i, row := range s.Rows {
		cells[i] = row[idx]
	}
	return cells
}

// Workbook is a named spreadsheet file containing one or more sheets.
type Workbook struct {
	Path   string  // Full path to the source file
	Stem   string  // File name without directory or extension
	Sheets []Sheet // In workbook order
}

// FolderScanner enumerates importable spreadsheet files in a folder.
type FolderScanner interface {
	// Scan returns the paths of supported spreadsheet files in the folder,
	// in deterministic order. Returns ErrFolderNotFound if the folder does
	// not exist and ErrNoSpreadsheets if it contains no supported files.
	Scan(folderPath string) ([]string, error)
}

// WorkbookReader reads a spreadsheet file into the Workbook model.
type WorkbookReader interface {
	// Read parses the file at path. Sheets that cannot be read are omitted
	// only if others succeed; a file-level parse failure returns an error.
	Read(path string) (*Workbook, error)
}
