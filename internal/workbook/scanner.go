package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// Extensions accepted by the folder scan. Legacy .xls files are listed so
// their failure surfaces as a per-file result instead of being silently
// ignored.
var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

// Scanner enumerates spreadsheet files in a dataset folder.
type Scanner struct{}

// NewScanner creates a folder scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan implements sheetport.FolderScanner. Results are full paths sorted by
// file name, so repeated runs over the same folder import in the same order.
func (s *Scanner) Scan(folderPath string) ([]string, error) {
	info, err := os.Stat(folderPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", sheetport.ErrFolderNotFound, folderPath)
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("reading folder %s: %w", folderPath, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// Office lock files left behind by an open editor.
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if !spreadsheetExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		paths = append(paths, filepath.Join(folderPath, name))
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", sheetport.ErrNoSpreadsheets, folderPath)
	}

	sort.Strings(paths)
	return paths, nil
}
