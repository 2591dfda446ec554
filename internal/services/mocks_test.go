package services

import (
	"context"
	"fmt"

	"github.com/rkmishra-dev/sheetport/internal/schema"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// Test doubles shared by the unit tests in this package.

type mockSessionPreparer struct {
	session *sheetport.Session
	err     error
	calls   int
}

func (m *mockSessionPreparer) PrepareSession(ctx context.Context, config sheetport.ImportConfig) (*sheetport.Session, error) {
	m.calls++
	return m.session, m.err
}

type mockScanner struct {
	paths []string
	err   error
}

func (m *mockScanner) Scan(folderPath string) ([]string, error) {
	return m.paths, m.err
}

type mockReader struct {
	workbooks map[string]*sheetport.Workbook
	errs      map[string]error
}

func (m *mockReader) Read(path string) (*sheetport.Workbook, error) {
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if wb, ok := m.workbooks[path]; ok {
		return wb, nil
	}
	return nil, fmt.Errorf("unexpected path %s", path)
}

type mockStore struct {
	existing   []string
	existsErr  error
	replaceErr map[string]error // by table name
	insertErr  map[string]error
	tables     []sheetport.TableStat
	listErr    error

	replaced []string
	inserted map[string]int
}

func newMockStore() *mockStore {
	return &mockStore{inserted: make(map[string]int)}
}

func (m *mockStore) Existing(ctx context.Context, names []string) ([]string, error) {
	return m.existing, m.existsErr
}

func (m *mockStore) Replace(ctx context.Context, ts schema.TableSchema) error {
	if err := m.replaceErr[ts.Name]; err != nil {
		return err
	}
	m.replaced = append(m.replaced, ts.Name)
	return nil
}

func (m *mockStore) Insert(ctx context.Context, ts schema.TableSchema, sheet *sheetport.Sheet) (int64, error) {
	if err := m.insertErr[ts.Name]; err != nil {
		return 0, err
	}
	m.inserted[ts.Name] = len(sheet.Rows)
	return int64(len(sheet.Rows)), nil
}

func (m *mockStore) List(ctx context.Context) ([]sheetport.TableStat, error) {
	return m.tables, m.listErr
}

type mockApprover struct {
	approved bool
	err      error
	calls    int
	tables   []string
}

func (m *mockApprover) RequestApproval(ctx context.Context, dbName string, tables []string) (bool, error) {
	m.calls++
	m.tables = tables
	return m.approved, m.err
}

type mockLogger struct{}

func (m *mockLogger) Verbose(format string, args ...interface{}) {}
func (m *mockLogger) Info(format string, args ...interface{})    {}
func (m *mockLogger) Error(format string, args ...interface{})   {}
