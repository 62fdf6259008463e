package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/shopfront/internal/config"
	"github.com/alextreichler/shopfront/internal/models"
	"github.com/alextreichler/shopfront/internal/roster"
)

// fakeRepo keeps one table in memory.
type fakeRepo struct {
	students []models.Student
	deleted  [][]string
	closed   bool
	loadErr  error
}

func (f *fakeRepo) Load(ctx context.Context, table string) ([]models.Student, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]models.Student(nil), f.students...), nil
}

func (f *fakeRepo) Insert(ctx context.Context, table string, s models.Student) error {
	if s.MSSV == "" {
		return roster.ErrEmptyID
	}
	f.students = append(f.students, s)
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, table string, ids []string) (int, error) {
	f.deleted = append(f.deleted, ids)
	n := 0
	for _, id := range ids {
		for i, s := range f.students {
			if s.MSSV == id {
				f.students = append(f.students[:i], f.students[i+1:]...)
				n++
				break
			}
		}
	}
	return n, nil
}

func (f *fakeRepo) EnsureTable(ctx context.Context, table string) error { return nil }

func (f *fakeRepo) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

func testConfig() config.RosterConfig {
	return config.RosterConfig{
		Conn:  roster.ConnParams{DBName: "dbtest", User: "postgres", Password: "123456", Host: "localhost", Port: 5432},
		Table: "sinhvien",
	}
}

func newTestModel(repo *fakeRepo, gotParams *roster.ConnParams) Model {
	return NewModel(testConfig(), func(ctx context.Context, p roster.ConnParams) (Repository, error) {
		if gotParams != nil {
			*gotParams = p
		}
		if repo == nil {
			return nil, errors.New("connection refused")
		}
		return repo, nil
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// run feeds the message produced by cmd back into the model, repeating for
// follow-up commands.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		m, cmd = update(t, m, cmd())
	}
	return m
}

// activate focuses f and presses enter on it.
func activate(t *testing.T, m Model, f focus) (Model, tea.Cmd) {
	t.Helper()
	m.focusOn(f)
	return update(t, m, key("enter"))
}

func dismiss(t *testing.T, m Model) Model {
	t.Helper()
	require.Equal(t, modeMessage, m.mode)
	m, _ = update(t, m, key("enter"))
	return m
}

func connected(t *testing.T, repo *fakeRepo) Model {
	t.Helper()
	m := newTestModel(repo, nil)
	m, cmd := activate(t, m, focusConnect)
	m = run(t, m, cmd)
	return dismiss(t, m)
}

func TestConnectUsesFormValues(t *testing.T) {
	var got roster.ConnParams
	m := newTestModel(&fakeRepo{}, &got)

	m.focusOn(focusHost)
	ti := m.inputs[focusHost]
	ti.SetValue("db.internal")
	m.inputs[focusHost] = ti

	m, cmd := activate(t, m, focusConnect)
	require.NotNil(t, cmd)
	m = run(t, m, cmd)

	assert.Equal(t, roster.ConnParams{DBName: "dbtest", User: "postgres", Password: "123456", Host: "db.internal", Port: 5432}, got)
	assert.Equal(t, modeMessage, m.mode)
	assert.Equal(t, MessageSuccess, m.message.Kind)
	assert.Equal(t, "Connected to the database successfully!", m.message.Text)
	assert.NotNil(t, m.repo)
}

func TestConnectFailureShowsError(t *testing.T) {
	m := newTestModel(nil, nil)
	m, cmd := activate(t, m, focusConnect)
	m = run(t, m, cmd)

	assert.Equal(t, MessageError, m.message.Kind)
	assert.Contains(t, m.message.Text, "Error connecting to the database: connection refused")
	assert.Nil(t, m.repo)
}

func TestConnectRejectsInvalidPort(t *testing.T) {
	called := false
	m := NewModel(testConfig(), func(ctx context.Context, p roster.ConnParams) (Repository, error) {
		called = true
		return &fakeRepo{}, nil
	})
	ti := m.inputs[focusPort]
	ti.SetValue("54x2")
	m.inputs[focusPort] = ti

	m, cmd := activate(t, m, focusConnect)
	assert.Nil(t, cmd)
	assert.False(t, called)
	assert.Equal(t, MessageError, m.message.Kind)
	assert.Contains(t, m.message.Text, "invalid port")
}

func TestLoadRequiresConnection(t *testing.T) {
	m := newTestModel(&fakeRepo{}, nil)
	m, cmd := activate(t, m, focusLoad)
	assert.Nil(t, cmd)
	assert.Equal(t, MessageError, m.message.Kind)
	assert.Contains(t, m.message.Text, roster.ErrNotConnected.Error())
}

func TestLoadFillsGrid(t *testing.T) {
	repo := &fakeRepo{students: []models.Student{{MSSV: "001", FullName: "An"}, {MSSV: "002", FullName: "Binh"}}}
	m := connected(t, repo)

	m, cmd := activate(t, m, focusLoad)
	m = run(t, m, cmd)

	assert.Equal(t, modeForm, m.mode, "a successful load shows no dialog")
	assert.Equal(t, repo.students, m.students)
	require.Len(t, m.grid.Rows(), 2)
	assert.Equal(t, "002", m.grid.Rows()[1][1])
	assert.Contains(t, m.View(), "2 student(s)")
}

func TestLoadErrorShowsMessage(t *testing.T) {
	repo := &fakeRepo{loadErr: &roster.QueryError{Op: "load", Table: "sinhvien", Err: errors.New("relation does not exist")}}
	m := connected(t, repo)

	m, cmd := activate(t, m, focusLoad)
	m = run(t, m, cmd)
	assert.Equal(t, MessageError, m.message.Kind)
	assert.Contains(t, m.message.Text, "Error loading data")
	assert.Contains(t, m.message.Text, "relation does not exist")
}

func TestLoadErrorClearsStaleRows(t *testing.T) {
	repo := &fakeRepo{students: []models.Student{{MSSV: "001", FullName: "An"}}}
	m := connected(t, repo)
	m = run(t, m, loadCmd(m.repo, "sinhvien"))
	m.focusOn(focusGrid)
	m, _ = update(t, m, key(" "))
	require.Equal(t, []string{"001"}, m.SelectedIDs())

	repo.loadErr = errors.New("relation does not exist")
	m, cmd := activate(t, m, focusLoad)
	m = run(t, m, cmd)

	assert.Equal(t, MessageError, m.message.Kind)
	assert.Empty(t, m.grid.Rows())
	assert.Empty(t, m.SelectedIDs())
	m = dismiss(t, m)
	m, cmd = activate(t, m, focusDelete)
	assert.Nil(t, cmd)
	assert.Equal(t, MessageWarning, m.message.Kind)
}

func TestActivationIgnoredWhileBusy(t *testing.T) {
	repo := &fakeRepo{students: []models.Student{{MSSV: "001", FullName: "An"}}}
	m := connected(t, repo)

	m, first := activate(t, m, focusLoad)
	require.NotNil(t, first)
	assert.Contains(t, m.View(), "working")

	m, second := update(t, m, key("enter"))
	assert.Nil(t, second, "a second load waits for the first")
	for _, f := range []focus{focusConnect, focusInsert, focusDelete} {
		var cmd tea.Cmd
		m, cmd = activate(t, m, f)
		assert.Nil(t, cmd)
		assert.Equal(t, modeForm, m.mode)
	}

	m = run(t, m, first)
	assert.Len(t, m.grid.Rows(), 1)
	assert.NotContains(t, m.View(), "working")

	m, cmd := activate(t, m, focusLoad)
	assert.NotNil(t, cmd)
}

func TestBusyUntilReloadAfterInsert(t *testing.T) {
	m := connected(t, &fakeRepo{})
	ti := m.inputs[focusMSSV]
	ti.SetValue("003")
	m.inputs[focusMSSV] = ti

	m, cmd := activate(t, m, focusInsert)
	m, reload := update(t, m, cmd())
	require.NotNil(t, reload)
	m = dismiss(t, m)

	_, again := activate(t, m, focusLoad)
	assert.Nil(t, again, "the reload is still in flight")

	m = run(t, m, reload)
	_, again = activate(t, m, focusLoad)
	assert.NotNil(t, again)
}

func TestInsertReloadsGrid(t *testing.T) {
	repo := &fakeRepo{}
	m := connected(t, repo)

	m.focusOn(focusName)
	m, _ = update(t, m, key("Tran Thi C"))
	m, _ = update(t, m, key("tab"))
	assert.Equal(t, focusMSSV, m.focus)
	m, _ = update(t, m, key("003"))

	m, cmd := activate(t, m, focusInsert)
	m = run(t, m, cmd)

	assert.Equal(t, []models.Student{{MSSV: "003", FullName: "Tran Thi C"}}, repo.students)
	assert.Equal(t, "Data inserted successfully!", m.message.Text)
	assert.Equal(t, repo.students, m.students)
}

func TestInsertErrorShowsMessage(t *testing.T) {
	m := connected(t, &fakeRepo{})
	m, cmd := activate(t, m, focusInsert)
	m = run(t, m, cmd)
	assert.Equal(t, MessageError, m.message.Kind)
	assert.Contains(t, m.message.Text, "Error inserting data")
}

func TestDeleteWithoutSelectionWarns(t *testing.T) {
	repo := &fakeRepo{students: []models.Student{{MSSV: "001", FullName: "An"}}}
	m := connected(t, repo)
	m = run(t, m, loadCmd(m.repo, "sinhvien"))

	m, cmd := activate(t, m, focusDelete)
	assert.Nil(t, cmd)
	assert.Equal(t, MessageWarning, m.message.Kind)
	assert.Equal(t, "Please select at least one student to delete!", m.message.Text)
	assert.Empty(t, repo.deleted)
}

func TestDeleteSelectedAfterConfirmation(t *testing.T) {
	repo := &fakeRepo{students: []models.Student{
		{MSSV: "001", FullName: "An"},
		{MSSV: "002", FullName: "Binh"},
		{MSSV: "003", FullName: "Chi"},
	}}
	m := connected(t, repo)
	m = run(t, m, loadCmd(m.repo, "sinhvien"))

	m.focusOn(focusGrid)
	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key(" "))
	assert.Equal(t, []string{"001", "003"}, m.SelectedIDs())
	assert.Equal(t, "[x]", m.grid.Rows()[0][0])

	m, cmd := activate(t, m, focusDelete)
	assert.Nil(t, cmd)
	require.Equal(t, modeConfirm, m.mode)

	m, cmd = update(t, m, key("left"))
	assert.Nil(t, cmd)
	m, cmd = update(t, m, key("enter"))
	m = run(t, m, cmd)

	assert.Equal(t, [][]string{{"001", "003"}}, repo.deleted)
	assert.Equal(t, "Deleted 2 student(s) successfully!", m.message.Text)
	assert.Equal(t, []models.Student{{MSSV: "002", FullName: "Binh"}}, m.students)
	assert.Empty(t, m.SelectedIDs())
}

func TestDeleteCancelled(t *testing.T) {
	repo := &fakeRepo{students: []models.Student{{MSSV: "001", FullName: "An"}}}
	m := connected(t, repo)
	m = run(t, m, loadCmd(m.repo, "sinhvien"))

	m.focusOn(focusGrid)
	m, _ = update(t, m, key(" "))
	m, _ = activate(t, m, focusDelete)
	require.Equal(t, modeConfirm, m.mode)

	// "No" is preselected.
	m, cmd := update(t, m, key("enter"))
	m = run(t, m, cmd)

	assert.Equal(t, modeForm, m.mode)
	assert.Empty(t, repo.deleted)
	assert.Equal(t, []string{"001"}, m.SelectedIDs())
}

func TestTabWrapsAround(t *testing.T) {
	m := newTestModel(&fakeRepo{}, nil)
	assert.Equal(t, focusDBName, m.focus)

	m, _ = update(t, m, key("shift+tab"))
	assert.Equal(t, focusGrid, m.focus)
	m, _ = update(t, m, key("tab"))
	assert.Equal(t, focusDBName, m.focus)
}

func TestQuitClosesConnection(t *testing.T) {
	repo := &fakeRepo{}
	m := connected(t, repo)

	_, cmd := update(t, m, key("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, repo.closed)
}

func TestViewShowsSections(t *testing.T) {
	m := newTestModel(&fakeRepo{}, nil)
	view := m.View()
	for _, s := range []string{"Database Connection", "Table Operations", "Insert/Delete Data", "Họ tên", "not connected"} {
		assert.Contains(t, view, s)
	}
	assert.NotContains(t, view, "123456", "password is masked")
}
