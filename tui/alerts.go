// ABOUTME: Transient alert banners and the notifier bridge into the event loop
// ABOUTME: Alerts stack, each with an independent expiry timer; timeout <= 0 persists
package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/oklog/ulid/v2"
)

const defaultAlertTimeout = 5 * time.Second

type severity int

const (
	severitySuccess severity = iota
	severityDanger
	severityInfo
)

type alert struct {
	id       string
	text     string
	severity severity
	sticky   bool
}

type alertMsg struct {
	text     string
	severity severity
	timeout  time.Duration
}

type alertExpiredMsg struct {
	id string
}

// pushAlert appends a banner and schedules its expiry. Sticky alerts
// (timeout <= 0) stay until dismissed with the next expiry sweep never
// touching them.
func (m *Model) pushAlert(msg alertMsg) tea.Cmd {
	a := alert{
		id:       ulid.Make().String(),
		text:     msg.text,
		severity: msg.severity,
		sticky:   msg.timeout <= 0,
	}
	m.alerts = append(m.alerts, a)
	if a.sticky {
		return nil
	}
	id := a.id
	return tea.Tick(msg.timeout, func(time.Time) tea.Msg {
		return alertExpiredMsg{id: id}
	})
}

// dismissAlert removes the oldest banner, sticky or not. The expiry
// timer of a timed alert may still fire later; expiring an unknown id
// is a no-op.
func (m *Model) dismissAlert() {
	if len(m.alerts) == 0 {
		return
	}
	m.expireAlert(m.alerts[0].id)
}

func (m *Model) expireAlert(id string) {
	for i, a := range m.alerts {
		if a.id == id {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			return
		}
	}
}

func (m Model) renderAlerts() string {
	if len(m.alerts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.alerts))
	for _, a := range m.alerts {
		style := alertInfoStyle
		switch a.severity {
		case severitySuccess:
			style = alertSuccessStyle
		case severityDanger:
			style = alertDangerStyle
		}
		lines = append(lines, style.Render(a.text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Dispatcher routes messages from outside the event loop (the API
// gateway's Notifier, which runs inside command goroutines) into the
// running program. Messages emitted before Attach are buffered.
type Dispatcher struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Attach connects the dispatcher to a running program and flushes
// anything buffered.
func (d *Dispatcher) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, msg := range pending {
		send(msg)
	}
}

// Notify implements api.Notifier: every gateway failure becomes one
// danger banner.
func (d *Dispatcher) Notify(message string) {
	d.emit(alertMsg{text: message, severity: severityDanger, timeout: defaultAlertTimeout})
}

func (d *Dispatcher) emit(msg tea.Msg) {
	d.mu.Lock()
	if d.send == nil {
		d.pending = append(d.pending, msg)
		d.mu.Unlock()
		return
	}
	send := d.send
	d.mu.Unlock()
	send(msg)
}

var (
	alertSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10")).
				Bold(true)

	alertDangerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	alertInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)
