// Package ui implements console interaction: approval prompts for
// destructive operations and the final summary rendering.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// InteractiveApprover implements sheetport.Approver with a console prompt.
// The import drops and recreates every table it touches, so replacing
// existing tables requires an explicit confirmation.
type InteractiveApprover struct{}

// NewInteractiveApprover creates an InteractiveApprover.
func NewInteractiveApprover() sheetport.Approver {
	return &InteractiveApprover{}
}

// RequestApproval lists the tables about to be replaced and asks the user to
// type "yes" to proceed.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, dbName string, tables []string) (bool, error) {
	fmt.Fprintf(os.Stderr, "\n⚠️  WARNING: the import will DROP and RECREATE %d existing table(s) in %q:\n", len(tables), dbName)
	for _, table := range tables {
		fmt.Fprintf(os.Stderr, "  - %s\n", table)
	}
	fmt.Fprintln(os.Stderr, "All rows currently in these tables will be permanently deleted!")
	fmt.Fprint(os.Stderr, "\nType 'yes' to continue: ")

	// Read in a goroutine so Ctrl+C cancels the prompt.
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if strings.EqualFold(input, "yes") {
			fmt.Fprintln(os.Stderr, "✓ Confirmed. Proceeding with import...")
			return true, nil
		}
		fmt.Fprintln(os.Stderr, "✗ Not confirmed. Import cancelled.")
		return false, nil
	}
}

var _ sheetport.Approver = (*InteractiveApprover)(nil)
