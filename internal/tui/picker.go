// Package tui hosts the interactive environment picker used by the
// delete flow. It only selects; all decisions about the selection
// happen in the caller.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanpelt/trr/internal/registry"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("230")).
	Background(lipgloss.Color("62")).
	Padding(0, 1)

type item struct {
	env registry.Environment
}

func (i item) Title() string { return i.env.Branch }

func (i item) Description() string {
	return fmt.Sprintf("created %s", i.env.CreatedAt.Format("2006-01-02 15:04:05"))
}

func (i item) FilterValue() string { return i.env.Branch }

type pickerModel struct {
	list   list.Model
	choice *registry.Environment
}

func newPickerModel(envs []registry.Environment) pickerModel {
	items := make([]list.Item, len(envs))
	for i, env := range envs {
		items[i] = item{env: env}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select repository copy"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)

	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// While the filter input is focused, every key belongs to it.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(item); ok {
				env := selected.env
				m.choice = &env
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View()
}

// Pick runs the picker over the given environments and returns the
// chosen one, or nil when the user cancelled. Cancellation is a no-op
// for callers, not an error.
func Pick(envs []registry.Environment) (*registry.Environment, error) {
	p := tea.NewProgram(newPickerModel(envs), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}
	return final.(pickerModel).choice, nil
}
