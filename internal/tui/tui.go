// Package tui is a read-only Bubble Tea view over a module coordinator's
// state: registered modules, their schemas, and each spec's call counter.
// It never mutates the coordinator — inspect is a diagnostic, not a
// control surface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coreflux/netcfgd/core/module"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	stoppedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

// Model is the Bubble Tea model for `netcfgd inspect`.
type Model struct {
	coord *module.Coordinator
	table table.Model
}

// New builds an inspect Model snapshotting coord's modules and specs. The
// table rows are not refreshed after this call; only the running/stopped
// status line is read from coord on each render.
func New(coord *module.Coordinator) Model {
	columns := []table.Column{
		{Title: "Module", Width: 16},
		{Title: "Directive", Width: 20},
		{Title: "Calls", Width: 6},
		{Title: "Repeat", Width: 7},
		{Title: "None OK", Width: 8},
	}

	var rows []table.Row
	for _, m := range coord.Modules() {
		for _, s := range m.Schemas {
			rows = append(rows, table.Row{
				m.Name,
				s.Name,
				fmt.Sprintf("%d", s.CallCounter),
				fmt.Sprintf("%v", s.AllowRepeat),
				fmt.Sprintf("%v", s.AllowNone),
			})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)
	return Model{coord: coord, table: t}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("netcfgd — registered modules"))
	b.WriteString("\n\n")

	status := stoppedStyle.Render("stopped")
	if m.coord.Running() {
		status = runningStyle.Render("running")
	}
	fmt.Fprintf(&b, "coordinator: %s\n\n", status)

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("q: quit"))
	return b.String()
}
