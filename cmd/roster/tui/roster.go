// Package tui is the interactive terminal frontend of the roster tool.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alextreichler/shopfront/internal/config"
	"github.com/alextreichler/shopfront/internal/models"
	"github.com/alextreichler/shopfront/internal/roster"
)

const opTimeout = 15 * time.Second

// Repository is the part of *roster.Repo the UI drives.
type Repository interface {
	Load(ctx context.Context, table string) ([]models.Student, error)
	Insert(ctx context.Context, table string, s models.Student) error
	Delete(ctx context.Context, table string, ids []string) (int, error)
	EnsureTable(ctx context.Context, table string) error
	Close(ctx context.Context) error
}

// ConnectFunc opens a Repository. RosterConnect is the production one.
type ConnectFunc func(ctx context.Context, p roster.ConnParams) (Repository, error)

// RosterConnect connects with roster.Connect.
func RosterConnect(ctx context.Context, p roster.ConnParams) (Repository, error) {
	repo, err := roster.Connect(ctx, p)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// focus walks the widgets top to bottom, the order tab follows.
type focus int

const (
	focusDBName focus = iota
	focusUser
	focusPassword
	focusHost
	focusPort
	focusConnect
	focusTable
	focusLoad
	focusName
	focusMSSV
	focusInsert
	focusDelete
	focusGrid
	focusCount
)

func (f focus) isButton() bool {
	switch f {
	case focusConnect, focusLoad, focusInsert, focusDelete:
		return true
	}
	return false
}

type mode int

const (
	modeForm mode = iota
	modeConfirm
	modeMessage
)

// Messages
type connectedMsg struct {
	repo   Repository
	params roster.ConnParams
	err    error
}

type loadedMsg struct {
	students []models.Student
	err      error
}

type insertedMsg struct{ err error }

type deletedMsg struct {
	count int
	err   error
}

type confirmDeleteMsg struct{ ids []string }

type cancelMsg struct{}

// Model is the roster Bubbletea model: connection form, table operations,
// insert/delete row and a multi-select student grid.
type Model struct {
	connect ConnectFunc
	repo    Repository
	conn    roster.ConnParams

	inputs   map[focus]textinput.Model
	focus    focus
	mode     mode
	grid     table.Model
	students []models.Student
	selected map[string]bool
	// busy is set while a database command is in flight; the connection
	// runs one statement at a time.
	busy bool

	confirm ConfirmationDialog
	message MessageBox

	width  int
	height int
}

// NewModel builds the UI with the form prefilled from cfg.
func NewModel(cfg config.RosterConfig, connect ConnectFunc) Model {
	newInput := func(value, placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = 128
		ti.Width = 30
		ti.SetValue(value)
		return ti
	}

	password := newInput(cfg.Conn.Password, "password")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	inputs := map[focus]textinput.Model{
		focusDBName:   newInput(cfg.Conn.DBName, "database"),
		focusUser:     newInput(cfg.Conn.User, "user"),
		focusPassword: password,
		focusHost:     newInput(cfg.Conn.Host, "host"),
		focusPort:     newInput(strconv.Itoa(int(cfg.Conn.Port)), "5432"),
		focusTable:    newInput(cfg.Table, "table"),
		focusName:     newInput("", "full name"),
		focusMSSV:     newInput("", "student id"),
	}

	grid := table.New(
		table.WithColumns([]table.Column{
			{Title: " ", Width: 3},
			{Title: "MSSV", Width: 12},
			{Title: "Họ tên", Width: 30},
		}),
		table.WithHeight(10),
	)

	m := Model{
		connect:  connect,
		inputs:   inputs,
		grid:     grid,
		selected: make(map[string]bool),
	}
	m.focusOn(focusDBName)
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) focusOn(f focus) tea.Cmd {
	if ti, ok := m.inputs[m.focus]; ok {
		ti.Blur()
		m.inputs[m.focus] = ti
	}
	m.grid.Blur()

	m.focus = f
	if f == focusGrid {
		m.grid.Focus()
		return nil
	}
	if ti, ok := m.inputs[f]; ok {
		cmd := ti.Focus()
		m.inputs[f] = ti
		return cmd
	}
	return nil
}

func (m Model) value(f focus) string {
	return strings.TrimSpace(m.inputs[f].Value())
}

func (m *Model) showMessage(kind MessageKind, format string, args ...interface{}) {
	m.message = MessageBox{Kind: kind, Text: fmt.Sprintf(format, args...)}
	m.mode = modeMessage
}

// Commands
func connectCmd(connect ConnectFunc, p roster.ConnParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		repo, err := connect(ctx, p)
		return connectedMsg{repo: repo, params: p, err: err}
	}
}

func loadCmd(repo Repository, table string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		students, err := repo.Load(ctx, table)
		return loadedMsg{students: students, err: err}
	}
}

func insertCmd(repo Repository, table string, s models.Student) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return insertedMsg{err: repo.Insert(ctx, table, s)}
	}
}

func deleteCmd(repo Repository, table string, ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		n, err := repo.Delete(ctx, table, ids)
		return deletedMsg{count: n, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case connectedMsg:
		m.busy = false
		if msg.err != nil {
			m.showMessage(MessageError, "Error connecting to the database: %v", msg.err)
			return m, nil
		}
		if m.repo != nil {
			_ = m.repo.Close(context.Background())
		}
		m.repo = msg.repo
		m.conn = msg.params
		m.showMessage(MessageSuccess, "Connected to the database successfully!")
		return m, nil

	case loadedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStudents(nil)
			m.showMessage(MessageError, "Error loading data: %v", msg.err)
			return m, nil
		}
		m.setStudents(msg.students)
		return m, nil

	case insertedMsg:
		if msg.err != nil {
			m.busy = false
			m.showMessage(MessageError, "Error inserting data: %v", msg.err)
			return m, nil
		}
		m.showMessage(MessageSuccess, "Data inserted successfully!")
		return m, loadCmd(m.repo, m.value(focusTable))

	case confirmDeleteMsg:
		m.mode = modeForm
		m.busy = true
		return m, deleteCmd(m.repo, m.value(focusTable), msg.ids)

	case cancelMsg:
		m.mode = modeForm
		return m, nil

	case deletedMsg:
		m.selected = make(map[string]bool)
		if msg.err != nil {
			m.showMessage(MessageError, "Error deleting data: %v (%d deleted before the failure)", msg.err, msg.count)
		} else {
			m.showMessage(MessageSuccess, "Deleted %d student(s) successfully!", msg.count)
		}
		return m, loadCmd(m.repo, m.value(focusTable))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		switch m.mode {
		case modeMessage:
			switch msg.String() {
			case "enter", "esc", " ":
				m.mode = modeForm
			}
			return m, nil
		case modeConfirm:
			return m, m.confirm.Update(msg)
		default:
			return m.updateForm(msg)
		}
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.quit()
	case "tab":
		return m, m.focusOn((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.focusOn((m.focus + focusCount - 1) % focusCount)
	case "enter":
		if m.busy && m.focus.isButton() {
			return m, nil
		}
		switch m.focus {
		case focusConnect:
			return m.doConnect()
		case focusLoad:
			return m.doLoad()
		case focusInsert:
			return m.doInsert()
		case focusDelete:
			return m.doDelete()
		case focusGrid:
			return m, nil
		default:
			return m, m.focusOn(m.focus + 1)
		}
	case " ":
		if m.focus == focusGrid {
			m.toggleCurrent()
			return m, nil
		}
	}

	if m.focus == focusGrid {
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}
	if ti, ok := m.inputs[m.focus]; ok {
		var cmd tea.Cmd
		ti, cmd = ti.Update(msg)
		m.inputs[m.focus] = ti
		return m, cmd
	}
	return m, nil
}

func (m Model) quit() tea.Cmd {
	if m.repo != nil {
		_ = m.repo.Close(context.Background())
	}
	return tea.Quit
}

func (m Model) doConnect() (tea.Model, tea.Cmd) {
	port, err := config.ParsePort(m.value(focusPort))
	if err != nil {
		m.showMessage(MessageError, "Error connecting to the database: invalid port %q", m.value(focusPort))
		return m, nil
	}
	p := roster.ConnParams{
		DBName:   m.value(focusDBName),
		User:     m.value(focusUser),
		Password: m.inputs[focusPassword].Value(),
		Host:     m.value(focusHost),
		Port:     port,
	}
	m.busy = true
	return m, connectCmd(m.connect, p)
}

func (m Model) doLoad() (tea.Model, tea.Cmd) {
	if m.repo == nil {
		m.showMessage(MessageError, "Error loading data: %v", roster.ErrNotConnected)
		return m, nil
	}
	m.busy = true
	return m, loadCmd(m.repo, m.value(focusTable))
}

func (m Model) doInsert() (tea.Model, tea.Cmd) {
	if m.repo == nil {
		m.showMessage(MessageError, "Error inserting data: %v", roster.ErrNotConnected)
		return m, nil
	}
	s := models.Student{MSSV: m.value(focusMSSV), FullName: m.value(focusName)}
	m.busy = true
	return m, insertCmd(m.repo, m.value(focusTable), s)
}

func (m Model) doDelete() (tea.Model, tea.Cmd) {
	ids := m.SelectedIDs()
	if len(ids) == 0 {
		m.showMessage(MessageWarning, "Please select at least one student to delete!")
		return m, nil
	}
	if m.repo == nil {
		m.showMessage(MessageError, "Error deleting data: %v", roster.ErrNotConnected)
		return m, nil
	}

	m.confirm = NewConfirmationDialog(
		"Confirm Delete",
		fmt.Sprintf("Delete %d student(s) from %s?\n%s", len(ids), m.value(focusTable), strings.Join(ids, ", ")),
	)
	m.confirm.OnConfirm = func() tea.Msg { return confirmDeleteMsg{ids: ids} }
	m.confirm.OnCancel = func() tea.Msg { return cancelMsg{} }
	m.mode = modeConfirm
	return m, nil
}

// SelectedIDs returns the marked student ids in grid order.
func (m Model) SelectedIDs() []string {
	var ids []string
	for _, s := range m.students {
		if m.selected[s.MSSV] {
			ids = append(ids, s.MSSV)
		}
	}
	return ids
}

func (m *Model) toggleCurrent() {
	i := m.grid.Cursor()
	if i < 0 || i >= len(m.students) {
		return
	}
	id := m.students[i].MSSV
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
	m.refreshRows()
}

// setStudents replaces the grid contents, keeping marks on ids still present.
func (m *Model) setStudents(students []models.Student) {
	m.students = students
	keep := make(map[string]bool)
	for _, s := range students {
		if m.selected[s.MSSV] {
			keep[s.MSSV] = true
		}
	}
	m.selected = keep
	m.refreshRows()
	if m.grid.Cursor() >= len(students) {
		m.grid.SetCursor(max(len(students)-1, 0))
	}
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, len(m.students))
	for i, s := range m.students {
		mark := "[ ]"
		if m.selected[s.MSSV] {
			mark = "[x]"
		}
		rows[i] = table.Row{mark, s.MSSV, s.FullName}
	}
	m.grid.SetRows(rows)
}

// View renders the UI
func (m Model) View() string {
	switch m.mode {
	case modeConfirm:
		return m.place(m.confirm.View())
	case modeMessage:
		return m.place(m.message.View())
	}

	field := func(label string, f focus) string {
		return labelStyle.Render(label) + " " + m.inputs[f].View()
	}
	section := func(title string, active bool, lines ...string) string {
		style := boxStyle
		if active {
			style = activeBoxStyle
		}
		return style.Render(sectionTitleStyle.Render(title) + "\n" + strings.Join(lines, "\n"))
	}

	conn := section("Database Connection", m.focus <= focusConnect,
		field("DB Name:", focusDBName),
		field("User:", focusUser),
		field("Password:", focusPassword),
		field("Host:", focusHost),
		field("Port:", focusPort),
		button("Connect", m.focus == focusConnect),
	)
	ops := section("Table Operations", m.focus == focusTable || m.focus == focusLoad,
		field("Table Name:", focusTable),
		button("Load Data", m.focus == focusLoad),
	)
	crud := section("Insert/Delete Data", m.focus >= focusName && m.focus <= focusDelete,
		field("Họ tên:", focusName),
		field("MSSV:", focusMSSV),
		lipgloss.JoinHorizontal(lipgloss.Left, button("Insert", m.focus == focusInsert), "  ", button("Delete", m.focus == focusDelete)),
	)
	gridStyle := boxStyle
	if m.focus == focusGrid {
		gridStyle = activeBoxStyle
	}

	status := mutedStyle.Render("not connected")
	if m.repo != nil {
		status = successStyle.Render("connected") + mutedStyle.Render(" "+m.conn.String())
	}
	status += mutedStyle.Render(fmt.Sprintf(" • %d student(s), %d selected", len(m.students), len(m.selected)))
	if m.busy {
		status += warningStyle.Render(" • working…")
	}

	help := helpStyle.Render(
		FormatKey("tab/shift+tab", "move") + " • " +
			FormatKey("enter", "activate") + " • " +
			FormatKey("space", "select row") + " • " +
			FormatKey("esc", "quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Student Roster"),
		conn,
		ops,
		crud,
		gridStyle.Render(m.grid.View()),
		status,
		help,
	)
}

func (m Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// Run starts the interactive roster UI
func Run(cfg config.RosterConfig, connect ConnectFunc) error {
	p := tea.NewProgram(NewModel(cfg, connect), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
