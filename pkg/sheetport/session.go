package sheetport

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionPreparer abstracts session preparation for testability.
type SessionPreparer interface {
	PrepareSession(ctx context.Context, config ImportConfig) (*Session, error)
}

// Session encapsulates a connected import session: the pool and the single
// acquired connection the whole run uses.
//
// The importer is fully sequential; one connection is held for the duration of
// the run and released on every exit path through Close().
//
// Thread-Safety: NOT safe for concurrent use.
//
// Lifecycle:
//  1. Created by SessionManager.PrepareSession()
//  2. Used for all per-sheet work
//  3. Cleaned up via Close() (idempotent)
//
// Example usage:
//
//	session, err := sessions.PrepareSession(ctx, config)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
type Session struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
}

// NewSession creates a new Session instance.
// This is intended to be called by SessionManager, not by external code.
//
// Panics if pool or conn is nil (programmer error - SessionManager
// should never create a Session with nil resources).
func NewSession(pool *pgxpool.Pool, conn *pgxpool.Conn) *Session {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if conn == nil {
		panic("conn cannot be nil")
	}

	return &Session{
		pool: pool,
		conn: conn,
	}
}

// Pool returns the connection pool for the session.
// The pool is valid until Close() is called. Nil-receiver safe.
func (s *Session) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// Conn returns the acquired pooled connection for the session.
// The connection is valid until Close() is called. Nil-receiver safe.
func (s *Session) Conn() *pgxpool.Conn {
	if s == nil {
		return nil
	}
	return s.conn
}

// Close releases all resources associated with the session.
// This method is idempotent, nil-receiver safe, and safe to call multiple
// times.
//
// Resource cleanup order:
//  1. Release the acquired connection back to the pool
//  2. Close the connection pool
//
// After calling Close(), the Session should not be used.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	return nil
}
