package sheetport

import "context"

// Approver decides whether a destructive operation may proceed.
// Implementations may prompt the user interactively or approve automatically.
type Approver interface {
	// RequestApproval asks for confirmation before the run replaces the listed
	// existing tables in dbName. Returns (true, nil) to proceed.
	RequestApproval(ctx context.Context, dbName string, tables []string) (bool, error)
}
