// Package wizards contains the interactive setup flows shown when sheetport
// runs without enough flags to connect on its own.
package wizards

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jackc/pgx/v5"

	"github.com/rkmishra-dev/sheetport/internal/db"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// ConnectionTester tests database connectivity.
type ConnectionTester interface {
	TestConnection(ctx context.Context, cfg sheetport.ConnectionConfig) (info string, err error)
}

type pgxTester struct{}

func (pgxTester) TestConnection(ctx context.Context, cfg sheetport.ConnectionConfig) (string, error) {
	conn, err := pgx.Connect(ctx, db.BuildConnectionString(&cfg))
	if err != nil {
		return "", err
	}
	defer conn.Close(ctx)

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", err
	}

	if idx := strings.Index(version, ","); idx > 0 {
		version = version[:idx]
	}
	return version, nil
}

// WizardOption configures an ImportWizard.
type WizardOption func(*ImportWizard)

// WithTester injects a ConnectionTester (for testing/mocking).
func WithTester(t ConnectionTester) WizardOption {
	return func(w *ImportWizard) {
		w.tester = t
	}
}

// Form field order.
const (
	fieldHost = iota
	fieldPort
	fieldUsername
	fieldPassword
	fieldDatabase
	fieldFolder
	fieldCount
)

// ImportResult holds what the wizard collected.
type ImportResult struct {
	Cancelled bool
	Config    sheetport.ConnectionConfig
	Folder    string
	Tested    bool
}

// ImportWizard collects the connection parameters and the spreadsheet folder
// for an import run, then verifies the server is reachable before handing the
// values back to the CLI.
type ImportWizard struct {
	step wizardStep

	inputs        []textinput.Model
	focusIndex    int
	validationErr string

	spinner  spinner.Model
	testing  bool
	testDone bool
	testOK   bool
	testErr  error
	testInfo string

	result ImportResult

	width  int
	height int

	styles wizardStyles
	keys   wizardKeys

	tester ConnectionTester
}

type wizardStep int

const (
	stepInputForm wizardStep = iota
	stepTestConnection
	stepDone
)

type wizardStyles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Description lipgloss.Style
	Help        lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Box         lipgloss.Style
	Label       lipgloss.Style
	FocusedBox  lipgloss.Style
}

type wizardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
	Tab    key.Binding
}

func defaultWizardStyles() wizardStyles {
	return wizardStyles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginBottom(1),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginLeft(4),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Box:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		FocusedBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")).Padding(0, 1),
	}
}

func defaultWizardKeys() wizardKeys {
	return wizardKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Select: key.NewBinding(key.WithKeys("enter")),
		Back:   key.NewBinding(key.WithKeys("esc")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q")),
		Tab:    key.NewBinding(key.WithKeys("tab")),
	}
}

// NewImportWizard creates a new import setup wizard with every field
// pre-filled with the tool's defaults.
func NewImportWizard(opts ...WizardOption) ImportWizard {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	w := ImportWizard{
		step:    stepInputForm,
		spinner: s,
		width:   80,
		height:  24,
		styles:  defaultWizardStyles(),
		keys:    defaultWizardKeys(),
		tester:  pgxTester{},
	}
	for _, opt := range opts {
		opt(&w)
	}
	w.inputs = createInputs()
	w.inputs[0].Focus()
	return w
}

func createInputs() []textinput.Model {
	host := textinput.New()
	host.SetValue(sheetport.DefaultHost)
	host.CharLimit = 256
	host.Width = 40

	port := textinput.New()
	port.SetValue(strconv.Itoa(sheetport.DefaultPort))
	port.CharLimit = 5
	port.Width = 10

	username := textinput.New()
	username.SetValue(sheetport.DefaultUser)
	username.CharLimit = 64
	username.Width = 40

	password := textinput.New()
	password.Placeholder = "Enter password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 256
	password.Width = 40

	database := textinput.New()
	database.SetValue(sheetport.DefaultDatabase)
	database.CharLimit = 64
	database.Width = 40

	folder := textinput.New()
	folder.SetValue(sheetport.DefaultFolder)
	folder.CharLimit = 256
	folder.Width = 40

	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldHost] = host
	inputs[fieldPort] = port
	inputs[fieldUsername] = username
	inputs[fieldPassword] = password
	inputs[fieldDatabase] = database
	inputs[fieldFolder] = folder
	return inputs
}

// Init implements tea.Model.
func (w ImportWizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (w ImportWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		// ctrl+c always quits
		if msg.String() == "ctrl+c" {
			w.result.Cancelled = true
			return w, tea.Quit
		}

		switch w.step {
		case stepInputForm:
			return w.updateInputForm(msg)
		case stepTestConnection:
			return w.updateTestConnection(msg)
		}

	case testResultMsg:
		w.testing = false
		w.testDone = true
		w.testOK = msg.success
		w.testErr = msg.err
		w.testInfo = msg.info
		return w, nil

	case spinner.TickMsg:
		if w.testing {
			var cmd tea.Cmd
			w.spinner, cmd = w.spinner.Update(msg)
			return w, cmd
		}

	default:
		// Forward non-key messages (focus, blink cursor) to the active input
		if w.step == stepInputForm && w.focusIndex >= 0 && w.focusIndex < len(w.inputs) {
			var cmd tea.Cmd
			w.inputs[w.focusIndex], cmd = w.inputs[w.focusIndex].Update(msg)
			return w, cmd
		}
	}

	return w, nil
}

func (w ImportWizard) updateInputForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Tab), msg.String() == "down":
		if w.focusIndex < len(w.inputs)-1 {
			w.inputs[w.focusIndex].Blur()
			w.focusIndex++
			return w, w.inputs[w.focusIndex].Focus()
		}
	case msg.String() == "shift+tab", msg.String() == "up":
		if w.focusIndex > 0 {
			w.inputs[w.focusIndex].Blur()
			w.focusIndex--
			return w, w.inputs[w.focusIndex].Focus()
		}
	case key.Matches(msg, w.keys.Select):
		// Enter on non-last field advances to next field
		if w.focusIndex < len(w.inputs)-1 {
			w.inputs[w.focusIndex].Blur()
			w.focusIndex++
			return w, w.inputs[w.focusIndex].Focus()
		}
		// Enter on last field submits the form
		if err := w.validateInputs(); err != nil {
			w.validationErr = err.Error()
			return w, nil
		}
		w.validationErr = ""
		w.buildResult()
		w.step = stepTestConnection
		w.testing = true
		w.testDone = false
		return w, tea.Batch(w.spinner.Tick, w.testConnection())
	case key.Matches(msg, w.keys.Back):
		w.result.Cancelled = true
		return w, tea.Quit
	default:
		w.validationErr = ""
		var cmd tea.Cmd
		w.inputs[w.focusIndex], cmd = w.inputs[w.focusIndex].Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *ImportWizard) validateInputs() error {
	if w.inputs[fieldDatabase].Value() == "" {
		return fmt.Errorf("database name is required")
	}
	if w.inputs[fieldFolder].Value() == "" {
		return fmt.Errorf("folder path is required")
	}
	if v := w.inputs[fieldPort].Value(); v != "" {
		if port, err := strconv.Atoi(v); err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("port must be a number between 1 and 65535")
		}
	}
	return nil
}

func (w *ImportWizard) buildResult() {
	cfg := sheetport.ConnectionConfig{
		AuthMethod:       sheetport.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
		SSLMode:          "prefer",
	}

	cfg.Host = w.inputs[fieldHost].Value()
	if cfg.Host == "" {
		cfg.Host = sheetport.DefaultHost
	}
	if port, err := strconv.Atoi(w.inputs[fieldPort].Value()); err == nil && port > 0 {
		cfg.Port = port
	} else {
		cfg.Port = sheetport.DefaultPort
	}
	cfg.Username = w.inputs[fieldUsername].Value()
	if cfg.Username == "" {
		cfg.Username = sheetport.DefaultUser
	}
	cfg.Password = w.inputs[fieldPassword].Value()
	cfg.Database = w.inputs[fieldDatabase].Value()

	w.result.Config = cfg
	w.result.Folder = w.inputs[fieldFolder].Value()
}

type testResultMsg struct {
	success bool
	err     error
	info    string
}

func (w *ImportWizard) testConnection() tea.Cmd {
	// Test against the management database to verify server connectivity.
	// The target database may not exist yet; sheetport creates it at import.
	testCfg := w.result.Config
	testCfg.Database = sheetport.DefaultManagementDB
	tester := w.tester
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		info, err := tester.TestConnection(ctx, testCfg)
		if err != nil {
			return testResultMsg{success: false, err: err}
		}
		return testResultMsg{success: true, info: info}
	}
}

func (w ImportWizard) updateTestConnection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !w.testDone {
		return w, nil // Still testing
	}

	switch {
	case key.Matches(msg, w.keys.Select):
		if w.testOK {
			w.result.Tested = true
			w.step = stepDone
			return w, tea.Quit
		}
		// Test failed, go back to edit
		w.step = stepInputForm
		return w, w.refocusForm()
	case key.Matches(msg, w.keys.Back):
		w.step = stepInputForm
		return w, w.refocusForm()
	}
	return w, nil
}

// refocusForm returns to the form keeping the values the user already typed.
func (w *ImportWizard) refocusForm() tea.Cmd {
	for i := range w.inputs {
		w.inputs[i].Blur()
	}
	w.focusIndex = 0
	return w.inputs[0].Focus()
}

// View implements tea.Model.
func (w ImportWizard) View() string {
	var b strings.Builder

	b.WriteString(w.styles.Title.Render("sheetport - Import Setup"))
	b.WriteString("\n")

	switch w.step {
	case stepInputForm:
		b.WriteString(w.viewForm())
	case stepTestConnection:
		b.WriteString(w.viewTestConnection())
	}

	return b.String()
}

var fieldLabels = [fieldCount]string{
	fieldHost:     "Host:",
	fieldPort:     "Port:",
	fieldUsername: "Username:",
	fieldPassword: "Password:",
	fieldDatabase: "Database:",
	fieldFolder:   "Folder:",
}

var fieldHints = map[int]string{
	fieldDatabase: "target database, created automatically if it doesn't exist",
	fieldFolder:   "directory containing the .xlsx/.xls files to import",
}

func (w ImportWizard) viewForm() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Connection and folder"))
	b.WriteString("\n\n")

	for i, input := range w.inputs {
		style := w.styles.Box
		if i == w.focusIndex {
			style = w.styles.FocusedBox
		}
		b.WriteString(w.styles.Label.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(style.Render(input.View()))
		if hint, ok := fieldHints[i]; ok {
			b.WriteString("\n")
			b.WriteString(w.styles.Description.Render(hint))
		}
		b.WriteString("\n\n")
	}

	if w.validationErr != "" {
		b.WriteString(w.styles.Error.Render("Error: " + w.validationErr))
		b.WriteString("\n\n")
	}

	b.WriteString(w.styles.Help.Render("tab/↓ next • shift+tab/↑ prev • enter submit • esc cancel"))

	return b.String()
}

func (w ImportWizard) viewTestConnection() string {
	var b strings.Builder

	cfg := w.result.Config
	target := fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)

	b.WriteString(w.styles.Subtitle.Render("Testing Connection"))
	b.WriteString("\n\n")

	b.WriteString("Target: ")
	b.WriteString(target)
	b.WriteString("\n\n")

	if w.testing {
		b.WriteString(w.spinner.View())
		b.WriteString(" Connecting...")
	} else if w.testDone {
		if w.testOK {
			b.WriteString(w.styles.Success.Render("✓ Connected successfully"))
			b.WriteString("\n")
			b.WriteString(w.styles.Description.Render(w.testInfo))
			b.WriteString("\n\n")
			b.WriteString(w.styles.Help.Render("enter continue • esc go back"))
		} else {
			b.WriteString(w.styles.Error.Render("✗ Connection failed"))
			b.WriteString("\n")
			errMsg := "unknown error"
			if w.testErr != nil {
				errMsg = w.testErr.Error()
			}
			b.WriteString(w.styles.Description.Render(errMsg))
			b.WriteString("\n\n")
			b.WriteString(w.styles.Help.Render("enter try again • esc go back"))
		}
	}

	return b.String()
}

// Result returns the wizard result.
func (w ImportWizard) Result() ImportResult {
	return w.result
}

// RunImportWizard executes the import setup wizard and returns the result.
func RunImportWizard(opts ...WizardOption) (ImportResult, error) {
	wizard := NewImportWizard(opts...)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return ImportResult{Cancelled: true}, err
	}

	return model.(ImportWizard).Result(), nil
}
