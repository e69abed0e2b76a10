package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/domain/employees"
)

// loadedMsg carries the outcome of one fetch. Generation ties it to the request that produced it.
type loadedMsg struct {
	generation uint64
	employees  []employees.Employee
	err        error
}

// Model is the terminal dashboard. All data changes go through dashboard.Reduce so that
// responses to superseded requests are dropped.
type Model struct {
	ctx     context.Context
	source  dashboard.Fetcher
	opts    dashboard.Options
	state   dashboard.State
	spinner spinner.Model
	cursor  int
	width   int
	height  int
}

func New(ctx context.Context, source dashboard.Fetcher, opts dashboard.Options) Model {
	return Model{
		ctx:     ctx,
		source:  source,
		opts:    opts,
		state:   dashboard.Reduce(dashboard.NewState(), dashboard.LoadRequested{}),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

func (m Model) State() dashboard.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.state.Generation))
}

func (m Model) fetch(generation uint64) tea.Cmd {
	source, ctx := m.source, m.ctx
	return func() tea.Msg {
		list, err := source.Employees(ctx)
		return loadedMsg{generation: generation, employees: list, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.state = dashboard.Reduce(m.state, dashboard.LoadFailed{Generation: msg.generation, Err: msg.err})
		} else {
			m.state = dashboard.Reduce(m.state, dashboard.LoadSucceeded{Generation: msg.generation, Employees: msg.employees})
		}
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if m.state.Phase != dashboard.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m.refresh()
	}

	if m.state.Phase != dashboard.PhaseReady {
		return m, nil
	}

	switch msg.String() {
	case "s":
		m.state = dashboard.Reduce(m.state, dashboard.SortChanged{Field: m.state.Sort.Next()})
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Employees)-1 {
			m.cursor++
		}
	case " ", "c":
		if name, ok := m.selected(); ok {
			m.state = dashboard.Reduce(m.state, dashboard.CompareToggled{Name: name})
		}
	case "x":
		m.state = dashboard.Reduce(m.state, dashboard.CompareCleared{})
	case "enter":
		if name, ok := m.selected(); ok {
			m.state = dashboard.Reduce(m.state, dashboard.DetailOpened{Name: name})
		}
	case "esc":
		m.state = dashboard.Reduce(m.state, dashboard.DetailClosed{})
	}
	return m, nil
}

// refresh starts a new load. A response still in flight from an earlier load is ignored when it arrives.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.state = dashboard.Reduce(m.state, dashboard.LoadRequested{})
	return m, tea.Batch(m.spinner.Tick, m.fetch(m.state.Generation))
}

// selected returns the employee under the cursor in the current sort order.
func (m Model) selected() (string, bool) {
	sorted := employees.SortBy(m.state.Employees, m.state.Sort)
	if m.cursor < 0 || m.cursor >= len(sorted) {
		return "", false
	}
	return sorted[m.cursor].Name, true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Employees) {
		m.cursor = len(m.state.Employees) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
