package schema

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// Column is one (sanitized name, storage type) pair of a table definition.
type Column struct {
	Name string
	Type ColumnType
}

// TableSchema is a derived table definition: the sanitized table name and the
// ordered column list. The synthetic auto-incrementing primary key is implicit
// and rendered at DDL time.
type TableSchema struct {
	Name    string
	Columns []Column
}

// Build derives a TableSchema from a sheet. Each source column's name is
// sanitized (collisions within the sheet resolved by numeric suffix, unnamed
// columns fall back to col_N) and its storage type inferred from its values.
func Build(sheet *sheetport.Sheet, tableName string) TableSchema {
	uniq := NewUniquer()
	// Reserve the synthetic key so a source column named "id" gets suffixed
	// instead of colliding with it.
	uniq.Resolve(sheetport.PrimaryKeyColumn)

	columns := make([]Column, len(sheet.Columns))
	for i, name := range sheet.Columns {
		sanitized := Sanitize(name)
		if sanitized == "" {
			sanitized = fmt.Sprintf("col_%d", i+1)
		}
		// Index, not name: duplicate source headers must not alias each other.
		cells := make([]sheetport.Cell, len(sheet.Rows))
		for r, row := range sheet.Rows {
			cells[r] = row[i]
		}
		colType := Infer(cells)
		if colType == TypeTimestamp {
			colType = RefineTimestamp(cells)
		}
		columns[i] = Column{
			Name: uniq.Resolve(sanitized),
			Type: colType,
		}
	}

	return TableSchema{Name: tableName, Columns: columns}
}

// DropSQL renders the destructive pre-create statement.
func (t TableSchema) DropSQL() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{t.Name}.Sanitize())
}

// CreateSQL renders the CREATE TABLE statement: the synthetic primary key
// followed by the inferred columns. TEXT columns carry the run's
// case/accent-insensitive collation.
func (t TableSchema) CreateSQL() string {
	defs := make([]string, 0, len(t.Columns)+1)
	defs = append(defs, fmt.Sprintf("%s BIGSERIAL PRIMARY KEY",
		pgx.Identifier{sheetport.PrimaryKeyColumn}.Sanitize()))

	for _, col := range t.Columns {
		def := fmt.Sprintf("%s %s", pgx.Identifier{col.Name}.Sanitize(), col.Type)
		if col.Type == TypeText {
			def += fmt.Sprintf(" COLLATE %s", pgx.Identifier{sheetport.CollationName}.Sanitize())
		}
		defs = append(defs, def)
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)",
		pgx.Identifier{t.Name}.Sanitize(), strings.Join(defs, ", "))
}

// InsertColumns returns the quoted column list for bulk insertion, in schema
// order, excluding the synthetic primary key.
func (t TableSchema) InsertColumns() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}
