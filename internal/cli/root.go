// Package cli wires the command surface: flag parsing, configuration
// resolution, and dependency construction for the import pipeline.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sheetport",
	Short: "Spreadsheet folder to PostgreSQL importer",
	Long: `sheetport loads a folder of Excel workbooks into PostgreSQL: one table per
sheet, column types inferred from the data, identifiers sanitized, and every
sheet committed in its own transaction so one broken file never poisons the
rest of the batch.

Exit Codes:
  0  - Success, or run cancelled by the user
  1  - General error (including database connection failure)
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  12 - User denied table-overwrite approval`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for sheetport")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
