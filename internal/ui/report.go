package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// WriteSummary renders the end-of-run report: per-sheet outcomes, the
// succeeded/empty/failed tally, and the resulting tables when listed.
func WriteSummary(w io.Writer, summary *sheetport.ImportSummary) {
	fmt.Fprintf(w, "\nImport summary (run %s)\n", summary.RunID)
	fmt.Fprintf(w, "Files found: %d\n\n", summary.Files)

	if len(summary.Results) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tSHEET\tTABLE\tROWS\tOUTCOME")
		for _, r := range summary.Results {
			detail := r.Outcome.String()
			if r.Err != "" {
				detail = fmt.Sprintf("%s: %s", r.Outcome, r.Err)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.File, r.Sheet, r.Table, r.Rows, detail)
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\nSucceeded: %d  Empty: %d  Failed: %d  (%s)\n",
		summary.Succeeded(), summary.Empty(), summary.Failed(), summary.Duration)

	if len(summary.Tables) > 0 {
		fmt.Fprintln(w, "\nResulting tables:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TABLE\tCOLUMNS\tROWS")
		for _, t := range summary.Tables {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", t.Name, t.Columns, t.Rows)
		}
		tw.Flush()
	}
}
