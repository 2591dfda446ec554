package ui

import (
	"context"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// AutoApprover implements sheetport.Approver for non-interactive runs. It
// logs what will be replaced and approves. Used when stdin is not a terminal;
// a blocking prompt in a cron job or pipeline would hang forever.
type AutoApprover struct {
	logger sheetport.Logger
}

// NewAutoApprover creates an AutoApprover.
// Panics if logger is nil.
func NewAutoApprover(logger sheetport.Logger) sheetport.Approver {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &AutoApprover{logger: logger}
}

// RequestApproval approves after logging the tables to be replaced.
func (a *AutoApprover) RequestApproval(ctx context.Context, dbName string, tables []string) (bool, error) {
	a.logger.Info("Replacing %d existing table(s) in %q without confirmation (non-interactive)", len(tables), dbName)
	for _, table := range tables {
		a.logger.Verbose("  will replace: %s", table)
	}
	return true, nil
}

var _ sheetport.Approver = (*AutoApprover)(nil)
