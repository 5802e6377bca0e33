// ABOUTME: Shared confirmation dialog
// ABOUTME: One dialog instance; rebinding replaces the previous confirm action
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmState holds the pending confirmation. Opening a new one
// replaces the previous binding, so only the most recent action can
// ever fire, and it fires at most once.
type confirmState struct {
	message string
	action  func() tea.Cmd
	prev    ViewMode
}

func (m *Model) showConfirm(message string, action func() tea.Cmd) {
	m.confirm = &confirmState{message: message, action: action, prev: m.viewMode}
	m.viewMode = ViewConfirm
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirm := m.confirm
	if confirm == nil {
		m.viewMode = ViewList
		return m, nil
	}

	switch msg.String() {
	case "y", "Y", "enter":
		m.confirm = nil
		m.viewMode = confirm.prev
		return m, confirm.action()
	case "n", "N", "esc":
		m.confirm = nil
		m.viewMode = confirm.prev
		return m, nil
	}

	return m, nil
}

func (m Model) renderConfirmView() string {
	if m.confirm == nil {
		return ""
	}

	title := confirmWarningStyle.Render("CONFIRM")
	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		m.confirm.message,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	return lipgloss.Place(
		m.width,
		m.height-4,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(64).
			Align(lipgloss.Center)

	confirmWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)
