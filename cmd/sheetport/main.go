package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rkmishra-dev/sheetport/internal/cli"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(sheetport.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(sheetport.ExitCodeForError(err))
	}
}
