package wizards

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

type mockTester struct {
	info   string
	err    error
	called bool
	gotCfg sheetport.ConnectionConfig
}

func (m *mockTester) TestConnection(_ context.Context, cfg sheetport.ConnectionConfig) (string, error) {
	m.called = true
	m.gotCfg = cfg
	return m.info, m.err
}

func drainCmds(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, drainCmds(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findTestResult(msgs []tea.Msg) (testResultMsg, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(testResultMsg); ok {
			return m, true
		}
	}
	return testResultMsg{}, false
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func update(t *testing.T, m tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	t.Helper()
	result, cmd := m.Update(msg)
	return result, cmd
}

func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	msg := cmd()
	_, ok := msg.(tea.QuitMsg)
	return ok
}

func asWizard(t *testing.T, m tea.Model) ImportWizard {
	t.Helper()
	w, ok := m.(ImportWizard)
	if !ok {
		t.Fatalf("expected ImportWizard, got %T", m)
	}
	return w
}

func typeString(t *testing.T, m tea.Model, s string) tea.Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, keyMsg(string(r)))
	}
	return m
}

// submitDefaults presses Enter through every field, accepting the pre-filled
// defaults, and submits the form.
func submitDefaults(t *testing.T, m tea.Model) (tea.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for i := 0; i < fieldCount; i++ {
		m, cmd = update(t, m, keyMsg("enter"))
	}
	return m, cmd
}

func TestImportWizard_InitialState(t *testing.T) {
	w := NewImportWizard()
	if w.step != stepInputForm {
		t.Errorf("initial step = %d, want stepInputForm (%d)", w.step, stepInputForm)
	}
	if w.focusIndex != 0 {
		t.Errorf("initial focusIndex = %d, want 0", w.focusIndex)
	}
	if len(w.inputs) != fieldCount {
		t.Fatalf("form should have %d inputs, got %d", fieldCount, len(w.inputs))
	}
}

func TestImportWizard_FormDefaults(t *testing.T) {
	w := NewImportWizard()

	if got := w.inputs[fieldHost].Value(); got != "localhost" {
		t.Errorf("host default = %q, want %q", got, "localhost")
	}
	if got := w.inputs[fieldPort].Value(); got != "5432" {
		t.Errorf("port default = %q, want %q", got, "5432")
	}
	if got := w.inputs[fieldUsername].Value(); got != "root" {
		t.Errorf("username default = %q, want %q", got, "root")
	}
	if got := w.inputs[fieldPassword].Value(); got != "" {
		t.Errorf("password should be empty, got %q", got)
	}
	if got := w.inputs[fieldDatabase].Value(); got != "hospital_db" {
		t.Errorf("database default = %q, want %q", got, "hospital_db")
	}
	if got := w.inputs[fieldFolder].Value(); got != "dataset" {
		t.Errorf("folder default = %q, want %q", got, "dataset")
	}
}

func TestImportWizard_EnterAdvancesFields(t *testing.T) {
	w := NewImportWizard()
	var m tea.Model = w

	for i := 0; i < fieldCount-1; i++ {
		m, _ = update(t, m, keyMsg("enter"))
		wiz := asWizard(t, m)
		if wiz.focusIndex != i+1 {
			t.Errorf("after Enter on field %d, focusIndex = %d, want %d", i, wiz.focusIndex, i+1)
		}
		if wiz.step != stepInputForm {
			t.Errorf("should still be on input step, got %d", wiz.step)
		}
	}

	// Enter on the last field submits the form
	m, _ = update(t, m, keyMsg("enter"))
	wiz := asWizard(t, m)
	if wiz.step != stepTestConnection {
		t.Errorf("after Enter on last field, step = %d, want stepTestConnection (%d)", wiz.step, stepTestConnection)
	}
	if !wiz.testing {
		t.Error("should be testing after form submit")
	}
}

func TestImportWizard_BuildResultDefaults(t *testing.T) {
	w := NewImportWizard()

	m, _ := submitDefaults(t, w)
	wiz := asWizard(t, m)

	cfg := wiz.result.Config
	if cfg.Host != "localhost" {
		t.Errorf("config.Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 5432 {
		t.Errorf("config.Port = %d, want 5432", cfg.Port)
	}
	if cfg.Username != "root" {
		t.Errorf("config.Username = %q, want %q", cfg.Username, "root")
	}
	if cfg.Database != "hospital_db" {
		t.Errorf("config.Database = %q, want %q", cfg.Database, "hospital_db")
	}
	if cfg.AuthMethod != sheetport.AuthMethodStandard {
		t.Errorf("config.AuthMethod = %v, want Standard", cfg.AuthMethod)
	}
	if wiz.result.Folder != "dataset" {
		t.Errorf("result.Folder = %q, want %q", wiz.result.Folder, "dataset")
	}
}

func TestImportWizard_ValidationEmptyDatabase(t *testing.T) {
	w := NewImportWizard()
	w.inputs[fieldDatabase].SetValue("")
	var m tea.Model = w

	m, _ = submitDefaults(t, m)
	wiz := asWizard(t, m)

	if wiz.step == stepTestConnection {
		t.Fatal("should NOT advance to test connection with empty database")
	}
	if wiz.validationErr != "database name is required" {
		t.Errorf("validationErr = %q, want %q", wiz.validationErr, "database name is required")
	}

	// Typing clears the error
	m, _ = update(t, m, keyMsg("x"))
	wiz = asWizard(t, m)
	if wiz.validationErr != "" {
		t.Errorf("validationErr should be cleared after typing, got %q", wiz.validationErr)
	}
}

func TestImportWizard_ValidationEmptyFolder(t *testing.T) {
	w := NewImportWizard()
	w.inputs[fieldFolder].SetValue("")
	var m tea.Model = w

	m, _ = submitDefaults(t, m)
	wiz := asWizard(t, m)

	if wiz.validationErr != "folder path is required" {
		t.Errorf("validationErr = %q, want %q", wiz.validationErr, "folder path is required")
	}
}

func TestImportWizard_ValidationBadPort(t *testing.T) {
	w := NewImportWizard()
	w.inputs[fieldPort].SetValue("abc")
	var m tea.Model = w

	m, _ = submitDefaults(t, m)
	wiz := asWizard(t, m)

	if wiz.step == stepTestConnection {
		t.Fatal("should NOT advance with a non-numeric port")
	}
	if !strings.Contains(wiz.validationErr, "port") {
		t.Errorf("validation error should mention port, got %q", wiz.validationErr)
	}
}

func TestImportWizard_EmptyPortFallsBackToDefault(t *testing.T) {
	w := NewImportWizard()
	w.inputs[fieldPort].SetValue("")
	var m tea.Model = w

	m, _ = submitDefaults(t, m)
	wiz := asWizard(t, m)

	if wiz.step != stepTestConnection {
		t.Fatalf("empty port should pass validation, step = %d", wiz.step)
	}
	if wiz.result.Config.Port != 5432 {
		t.Errorf("empty port should default to 5432, got %d", wiz.result.Config.Port)
	}
}

func TestImportWizard_TestSuccessThenQuit(t *testing.T) {
	w := NewImportWizard()

	m, _ := submitDefaults(t, w)

	m, _ = update(t, m, testResultMsg{success: true, info: "PostgreSQL 16.1"})
	wiz := asWizard(t, m)
	if !wiz.testDone {
		t.Fatal("testDone should be true after testResultMsg")
	}
	if !wiz.testOK {
		t.Fatal("testOK should be true for success")
	}

	m, cmd := update(t, m, keyMsg("enter"))
	wiz = asWizard(t, m)

	if wiz.step != stepDone {
		t.Errorf("after Enter on success screen, step = %d, want stepDone (%d)", wiz.step, stepDone)
	}
	if !wiz.result.Tested {
		t.Error("result.Tested should be true")
	}
	if !isQuitCmd(cmd) {
		t.Error("expected tea.Quit command after confirming success")
	}
}

func TestImportWizard_TestFailureKeepsTypedValues(t *testing.T) {
	w := NewImportWizard()
	w.inputs[fieldDatabase].SetValue("clinic_db")
	var m tea.Model = w

	m, _ = submitDefaults(t, m)
	m, _ = update(t, m, testResultMsg{success: false, err: fmt.Errorf("connection refused")})
	wiz := asWizard(t, m)
	if wiz.testOK {
		t.Fatal("testOK should be false for failure")
	}

	// Enter goes back to the form with previous values intact
	m, cmd := update(t, m, keyMsg("enter"))
	wiz = asWizard(t, m)
	if wiz.step != stepInputForm {
		t.Errorf("after Enter on failure, step = %d, want stepInputForm", wiz.step)
	}
	if isQuitCmd(cmd) {
		t.Error("should NOT quit after test failure")
	}
	if got := wiz.inputs[fieldDatabase].Value(); got != "clinic_db" {
		t.Errorf("database value lost after failure, got %q", got)
	}
	if wiz.focusIndex != 0 {
		t.Errorf("focus should return to first field, got %d", wiz.focusIndex)
	}
}

func TestImportWizard_MockTesterCalledOnSubmit(t *testing.T) {
	mock := &mockTester{info: "PostgreSQL 16.1"}
	w := NewImportWizard(WithTester(mock))

	m, cmd := submitDefaults(t, w)
	wiz := asWizard(t, m)
	if wiz.step != stepTestConnection {
		t.Fatalf("expected stepTestConnection, got %d", wiz.step)
	}

	msgs := drainCmds(cmd)
	result, ok := findTestResult(msgs)
	if !ok {
		t.Fatal("expected testResultMsg from cmd execution")
	}
	if !result.success {
		t.Errorf("expected success, got err: %v", result.err)
	}
	if result.info != "PostgreSQL 16.1" {
		t.Errorf("info = %q, want %q", result.info, "PostgreSQL 16.1")
	}
	if !mock.called {
		t.Error("mock tester should have been called")
	}
	if mock.gotCfg.Host != "localhost" {
		t.Errorf("mock got host = %q, want localhost", mock.gotCfg.Host)
	}
	if mock.gotCfg.Database != "postgres" {
		t.Errorf("mock got database = %q, want postgres (tests against management DB)", mock.gotCfg.Database)
	}
}

func TestImportWizard_EndToEndWithMockTester(t *testing.T) {
	mock := &mockTester{info: "PostgreSQL 16.1"}
	w := NewImportWizard(WithTester(mock))

	m, cmd := submitDefaults(t, w)

	msgs := drainCmds(cmd)
	result, _ := findTestResult(msgs)
	m, _ = update(t, m, result)

	m, cmd = update(t, m, keyMsg("enter"))
	wiz := asWizard(t, m)

	if wiz.step != stepDone {
		t.Errorf("step = %d, want stepDone", wiz.step)
	}
	if !isQuitCmd(cmd) {
		t.Fatal("expected tea.Quit")
	}

	r := wiz.Result()
	if r.Cancelled {
		t.Error("should not be cancelled")
	}
	if !r.Tested {
		t.Error("should be tested")
	}
	if r.Config.Database != "hospital_db" {
		t.Errorf("database = %q, want hospital_db", r.Config.Database)
	}
	if r.Folder != "dataset" {
		t.Errorf("folder = %q, want dataset", r.Folder)
	}
}

func TestImportWizard_EscCancels(t *testing.T) {
	w := NewImportWizard()

	m, cmd := update(t, w, keyMsg("esc"))
	wiz := asWizard(t, m)
	if !wiz.result.Cancelled {
		t.Error("Esc on the form should cancel")
	}
	if !isQuitCmd(cmd) {
		t.Error("expected tea.Quit command on cancel")
	}
}

func TestImportWizard_CtrlC_Cancels(t *testing.T) {
	w := NewImportWizard()
	m, cmd := update(t, w, tea.KeyMsg{Type: tea.KeyCtrlC})

	if !isQuitCmd(cmd) {
		t.Error("ctrl+c should produce tea.Quit")
	}
	if !asWizard(t, m).result.Cancelled {
		t.Error("ctrl+c should set Cancelled")
	}
}

func TestImportWizard_TabNavigation(t *testing.T) {
	w := NewImportWizard()
	var m tea.Model = w

	m, _ = update(t, m, keyMsg("tab"))
	wiz := asWizard(t, m)
	if wiz.focusIndex != 1 {
		t.Errorf("after tab, focusIndex = %d, want 1", wiz.focusIndex)
	}

	m, _ = update(t, m, keyMsg("shift+tab"))
	wiz = asWizard(t, m)
	if wiz.focusIndex != 0 {
		t.Errorf("after shift+tab, focusIndex = %d, want 0", wiz.focusIndex)
	}
}

func TestImportWizard_TabAtBoundary(t *testing.T) {
	w := NewImportWizard()
	var m tea.Model = w

	// Shift+tab at first field stays at 0
	m, _ = update(t, m, keyMsg("shift+tab"))
	wiz := asWizard(t, m)
	if wiz.focusIndex != 0 {
		t.Errorf("shift+tab at first field: focusIndex = %d, want 0", wiz.focusIndex)
	}

	// Tab to last field
	for i := 0; i < fieldCount-1; i++ {
		m, _ = update(t, m, keyMsg("tab"))
	}
	wiz = asWizard(t, m)
	if wiz.focusIndex != fieldCount-1 {
		t.Fatalf("after tabs, focusIndex = %d, want %d", wiz.focusIndex, fieldCount-1)
	}

	// Tab at last field stays put
	m, _ = update(t, m, keyMsg("tab"))
	wiz = asWizard(t, m)
	if wiz.focusIndex != fieldCount-1 {
		t.Errorf("tab at last field: focusIndex = %d, want %d", wiz.focusIndex, fieldCount-1)
	}
}

func TestImportWizard_TypedValuesFlowIntoResult(t *testing.T) {
	mock := &mockTester{info: "ok"}
	w := NewImportWizard(WithTester(mock))
	w.inputs[fieldHost].SetValue("db.example.com")
	w.inputs[fieldDatabase].SetValue("")
	w.inputs[fieldFolder].SetValue("")
	var m tea.Model = w

	// Walk to the database field and type a name
	for i := 0; i < fieldDatabase; i++ {
		m, _ = update(t, m, keyMsg("enter"))
	}
	m = typeString(t, m, "clinic_db")
	m, _ = update(t, m, keyMsg("enter"))
	m = typeString(t, m, "exports")
	m, _ = update(t, m, keyMsg("enter"))

	wiz := asWizard(t, m)
	if wiz.step != stepTestConnection {
		t.Fatalf("expected stepTestConnection, got %d", wiz.step)
	}
	if wiz.result.Config.Host != "db.example.com" {
		t.Errorf("host = %q, want db.example.com", wiz.result.Config.Host)
	}
	if wiz.result.Config.Database != "clinic_db" {
		t.Errorf("database = %q, want clinic_db", wiz.result.Config.Database)
	}
	if wiz.result.Folder != "exports" {
		t.Errorf("folder = %q, want exports", wiz.result.Folder)
	}
}

func TestImportWizard_View_FormStep(t *testing.T) {
	w := NewImportWizard()
	view := w.View()

	if !strings.Contains(view, "Import Setup") {
		t.Error("View at form step should contain 'Import Setup'")
	}
	for _, label := range []string{"Host:", "Port:", "Username:", "Password:", "Database:", "Folder:"} {
		if !strings.Contains(view, label) {
			t.Errorf("View at form step should contain %q", label)
		}
	}
}

func TestImportWizard_View_TestConnectionStep(t *testing.T) {
	w := NewImportWizard()
	m, _ := submitDefaults(t, w)

	m, _ = update(t, m, testResultMsg{success: true, info: "PostgreSQL 16.1"})
	view := m.View()
	if !strings.Contains(view, "Connected successfully") {
		t.Error("View after success should contain 'Connected successfully'")
	}

	w2 := NewImportWizard()
	m2, _ := submitDefaults(t, w2)
	m2, _ = update(t, m2, testResultMsg{success: false, err: fmt.Errorf("refused")})
	view2 := m2.View()
	if !strings.Contains(view2, "Connection failed") {
		t.Error("View after failure should contain 'Connection failed'")
	}
}
