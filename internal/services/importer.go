package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rkmishra-dev/sheetport/internal/schema"
	"github.com/rkmishra-dev/sheetport/internal/transform"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// ImportService orchestrates an import run: scan the folder, read workbooks,
// repair known defects, derive schemas, and load each sheet into its own
// table. Per-sheet failures become summary entries; only connection-level
// problems abort the run.
//
// Thread-Safety: NOT safe for concurrent use. The pipeline is sequential by
// design; one run owns one session.
type ImportService struct {
	sessions     sheetport.SessionPreparer
	scanner      sheetport.FolderScanner
	reader       sheetport.WorkbookReader
	storeFactory func(*pgxpool.Conn) TableStore
	fixers       []transform.SheetFixer
	approver     sheetport.Approver
	logger       sheetport.Logger
}

// NewImportService creates an ImportService with all dependencies injected.
//
// Panics if any dependency is nil (fixers may be empty but not nil-elemented).
func NewImportService(
	sessions sheetport.SessionPreparer,
	scanner sheetport.FolderScanner,
	reader sheetport.WorkbookReader,
	storeFactory func(*pgxpool.Conn) TableStore,
	fixers []transform.SheetFixer,
	approver sheetport.Approver,
	logger sheetport.Logger,
) *ImportService {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if scanner == nil {
		panic("scanner cannot be nil")
	}
	if reader == nil {
		panic("reader cannot be nil")
	}
	if storeFactory == nil {
		panic("storeFactory cannot be nil")
	}
	for _, f := range fixers {
		if f == nil {
			panic("fixer cannot be nil")
		}
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &ImportService{
		sessions:     sessions,
		scanner:      scanner,
		reader:       reader,
		storeFactory: storeFactory,
		fixers:       fixers,
		approver:     approver,
		logger:       logger,
	}
}

// plannedSheet is one sheet with its resolved target table, fixed during the
// planning pass so approval and processing agree on names.
type plannedSheet struct {
	sheet *sheetport.Sheet
	table string // "" for empty sheets, which get no table
}

// Run executes the import and returns the summary. The returned error is
// non-nil only for run-level failures (connection, approval, missing folder);
// sheet failures are reported inside the summary.
func (s *ImportService) Run(ctx context.Context, config sheetport.ImportConfig) (*sheetport.ImportSummary, error) {
	start := time.Now()
	summary := &sheetport.ImportSummary{RunID: uuid.New()}

	if err := config.Validate(); err != nil {
		return summary, err
	}

	s.logger.Verbose("Starting import run %s", summary.RunID)

	session, err := s.sessions.PrepareSession(ctx, config)
	if err != nil {
		return summary, err
	}
	defer session.Close()

	store := s.storeFactory(session.Conn())

	paths, err := s.scanner.Scan(config.FolderPath)
	if err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}
	summary.Files = len(paths)
	s.logger.Info("Found %d spreadsheet file(s) in %s", len(paths), config.FolderPath)

	planned := s.plan(paths, summary)

	if err := s.approveReplacements(ctx, config, store, planned); err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}

	for _, p := range planned {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("%w: %w", sheetport.ErrCancelled, err)
		}
		summary.Results = append(summary.Results, s.processSheet(ctx, store, p))
	}

	if !config.SkipTableListing {
		tables, err := store.List(ctx)
		if err != nil {
			s.logger.Error("Could not list tables: %v", err)
		} else {
			summary.Tables = tables
		}
	}

	summary.Duration = time.Since(start)
	s.logger.Info("Import finished: %d succeeded, %d empty, %d failed (%s)",
		summary.Succeeded(), summary.Empty(), summary.Failed(), summary.Duration.Round(time.Millisecond))

	return summary, nil
}

// plan reads every workbook and resolves target table names. A workbook with
// a single sheet is named after the file alone; multi-sheet workbooks get
// file_sheet names. Collisions across the run get numeric suffixes. Unreadable
// files become failed results immediately.
func (s *ImportService) plan(paths []string, summary *sheetport.ImportSummary) []plannedSheet {
	uniq := schema.NewUniquer()
	var planned []plannedSheet

	for _, path := range paths {
		wb, err := s.reader.Read(path)
		if err != nil {
			s.logger.Error("Failed to read %s: %v", path, err)
			summary.Results = append(summary.Results, sheetport.SheetResult{
				File:    path,
				Outcome: sheetport.OutcomeFailed,
				Err:     err.Error(),
			})
			continue
		}

		for i := range wb.Sheets {
			sheet := &wb.Sheets[i]

			table := ""
			if !sheet.IsEmpty() {
				base := wb.Stem
				if len(wb.Sheets) > 1 {
					base = wb.Stem + "_" + sheet.Name
				}
				table = uniq.Resolve(schema.Sanitize(base))
			}

			planned = append(planned, plannedSheet{sheet: sheet, table: table})
		}
	}

	return planned
}

// approveReplacements asks the approver before the run drops tables that
// already exist. Skipped under --force.
func (s *ImportService) approveReplacements(ctx context.Context, config sheetport.ImportConfig, store TableStore, planned []plannedSheet) error {
	if config.Force {
		return nil
	}

	var names []string
	for _, p := range planned {
		if p.table != "" {
			names = append(names, p.table)
		}
	}

	existing, err := store.Existing(ctx, names)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}

	approved, err := s.approver.RequestApproval(ctx, config.DatabaseName, existing)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("replacing %d existing table(s): %w", len(existing), sheetport.ErrApprovalDenied)
	}
	return nil
}

// processSheet handles one sheet end to end and converts every failure into a
// result value so the run continues.
func (s *ImportService) processSheet(ctx context.Context, store TableStore, p plannedSheet) sheetport.SheetResult {
	result := sheetport.SheetResult{
		File:  p.sheet.File,
		Sheet: p.sheet.Name,
		Table: p.table,
	}

	if p.sheet.IsEmpty() {
		s.logger.Info("- Skipped empty sheet %q in %s", p.sheet.Name, p.sheet.File)
		result.Outcome = sheetport.OutcomeEmpty
		return result
	}

	for _, fixer := range s.fixers {
		if !fixer.Matches(p.sheet) {
			continue
		}
		if fixed := fixer.Fix(p.sheet); fixed > 0 {
			s.logger.Info("⚙ %s repaired %d row(s) in %q", fixer.Name(), fixed, p.sheet.Name)
			result.Fixed += fixed
		}
	}

	ts := schema.Build(p.sheet, p.table)

	if err := store.Replace(ctx, ts); err != nil {
		s.logger.Error("Sheet %q in %s failed: %v", p.sheet.Name, p.sheet.File, err)
		result.Outcome = sheetport.OutcomeFailed
		result.Err = err.Error()
		return result
	}

	rows, err := store.Insert(ctx, ts, p.sheet)
	if err != nil {
		s.logger.Error("Sheet %q in %s failed, rolled back: %v", p.sheet.Name, p.sheet.File, err)
		result.Outcome = sheetport.OutcomeFailed
		result.Err = err.Error()
		return result
	}

	s.logger.Info("✓ Imported %d row(s) into %q", rows, p.table)
	result.Outcome = sheetport.OutcomeSucceeded
	result.Rows = int(rows)
	return result
}
