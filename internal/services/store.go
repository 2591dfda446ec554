package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rkmishra-dev/sheetport/internal/schema"
	"github.com/rkmishra-dev/sheetport/internal/transform"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// TableStore is the importer's view of table-level database operations.
// Implementations are bound to the run's single session connection.
type TableStore interface {
	// Existing returns which of the candidate table names already exist.
	Existing(ctx context.Context, names []string) ([]string, error)

	// Replace drops and recreates the table. Destructive and
	// non-transactional: DDL is applied immediately.
	Replace(ctx context.Context, ts schema.TableSchema) error

	// Insert bulk-loads the sheet's rows inside a single transaction.
	// On any error the transaction is rolled back and zero rows persist.
	Insert(ctx context.Context, ts schema.TableSchema, sheet *sheetport.Sheet) (int64, error)

	// List reports all tables in the public schema with column and row counts.
	List(ctx context.Context) ([]sheetport.TableStat, error)
}

// PgTableStore implements TableStore over the session's acquired connection.
//
// Thread-Safety: NOT safe for concurrent use; the importer is sequential and
// the underlying *pgxpool.Conn is single-threaded.
type PgTableStore struct {
	conn   *pgxpool.Conn
	logger sheetport.Logger
}

// NewPgTableStore creates a TableStore bound to the session connection.
// Panics if conn or logger is nil.
func NewPgTableStore(conn *pgxpool.Conn, logger sheetport.Logger) *PgTableStore {
	if conn == nil {
		panic("conn cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &PgTableStore{conn: conn, logger: logger}
}

// Existing implements TableStore.
func (s *PgTableStore) Existing(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows, err := s.conn.Query(ctx,
		`SELECT tablename FROM pg_tables WHERE schemaname = 'public' AND tablename = ANY($1) ORDER BY tablename`,
		names)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing tables: %w", err)
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		existing = append(existing, name)
	}
	return existing, rows.Err()
}

// Replace implements TableStore.
func (s *PgTableStore) Replace(ctx context.Context, ts schema.TableSchema) error {
	s.logger.Verbose("Dropping table %q if present", ts.Name)
	if _, err := s.conn.Exec(ctx, ts.DropSQL()); err != nil {
		return fmt.Errorf("failed to drop table %q: %w", ts.Name, err)
	}

	s.logger.Verbose("Creating table %q with %d columns", ts.Name, len(ts.Columns))
	if _, err := s.conn.Exec(ctx, ts.CreateSQL()); err != nil {
		return fmt.Errorf("failed to create table %q: %w", ts.Name, err)
	}
	return nil
}

// Insert implements TableStore. Rows go through COPY for throughput; the
// surrounding transaction guarantees all-or-nothing per sheet.
func (s *PgTableStore) Insert(ctx context.Context, ts schema.TableSchema, sheet *sheetport.Sheet) (int64, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{ts.Name},
		ts.InsertColumns(),
		pgx.CopyFromSlice(len(sheet.Rows), func(i int) ([]any, error) {
			return transform.Transform(sheet.Rows[i], ts.Columns), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %q: %w", ts.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit %q: %w", ts.Name, err)
	}
	return copied, nil
}

// List implements TableStore. Row counts are exact (COUNT(*)), which is fine
// at import scale.
func (s *PgTableStore) List(ctx context.Context) ([]sheetport.TableStat, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT t.tablename,
		       (SELECT count(*) FROM information_schema.columns c
		        WHERE c.table_schema = t.schemaname AND c.table_name = t.tablename)
		FROM pg_tables t
		WHERE t.schemaname = 'public'
		ORDER BY t.tablename`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var stats []sheetport.TableStat
	for rows.Next() {
		var stat sheetport.TableStat
		if err := rows.Scan(&stat.Name, &stat.Columns); err != nil {
			return nil, fmt.Errorf("failed to scan table stat: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range stats {
		query := fmt.Sprintf("SELECT count(*) FROM %s", pgx.Identifier{stats[i].Name}.Sanitize())
		if err := s.conn.QueryRow(ctx, query).Scan(&stats[i].Rows); err != nil {
			return nil, fmt.Errorf("failed to count rows in %q: %w", stats[i].Name, err)
		}
	}

	return stats, nil
}

var _ TableStore = (*PgTableStore)(nil)
