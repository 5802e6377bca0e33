// ABOUTME: Generic entity list controller: one implementation for all kinds
// ABOUTME: Debounced search, immediate filter reloads, table rendering in server order
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"crmdesk/models"
)

// searchDebounce is the quiet period after the last keystroke before a
// search triggers a reload.
const searchDebounce = 300 * time.Millisecond

type listState struct {
	schema  models.Schema
	filter  models.Filter
	records []models.Record
	loaded  bool
	cursor  int

	search    textinput.Model
	searching bool
	searchSeq int
}

func newListState(schema models.Schema) *listState {
	search := textinput.New()
	search.Placeholder = "Search " + schema.Plural
	search.CharLimit = 100
	search.Width = 40
	return &listState{schema: schema, search: search}
}

func (m Model) activeList() *listState {
	return m.lists[m.kind]
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ls := m.activeList()

	if ls.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.kind = nextKind(m.kind, 1)
		return m, nil
	case "shift+tab":
		m.kind = nextKind(m.kind, -1)
		return m, nil
	case "1":
		m.kind = models.KindCustomers
		return m, nil
	case "2":
		m.kind = models.KindContacts
		return m, nil
	case "3":
		m.kind = models.KindDeals
		return m, nil
	case "up", "k":
		if ls.cursor > 0 {
			ls.cursor--
		}
		return m, nil
	case "down", "j":
		if ls.cursor < len(ls.records)-1 {
			ls.cursor++
		}
		return m, nil
	case "/":
		ls.searching = true
		ls.search.Focus()
		return m, textinput.Blink
	case "f":
		if ls.schema.CustomerFilter {
			ls.filter.CustomerID = m.nextCustomerFilter(ls.filter.CustomerID)
			return m, m.loadList(m.kind, ls.filter)
		}
		return m, nil
	case "s":
		if ls.schema.StatusFilter {
			ls.filter.Status = nextStatusFilter(ls.filter.Status)
			return m, m.loadList(m.kind, ls.filter)
		}
		return m, nil
	case "r":
		return m, m.loadList(m.kind, ls.filter)
	case "n":
		m.openCreate()
		return m, textinput.Blink
	case "enter":
		if id := ls.selectedID(); id != "" {
			return m, m.openEdit(id)
		}
		return m, nil
	case "d":
		if id := ls.selectedID(); id != "" {
			return m.confirmDelete(id, false)
		}
		return m, nil
	case "b":
		if m.backupBusy {
			return m, nil
		}
		m.backupBusy = true
		return m, m.runBackup()
	case "x":
		m.dismissAlert()
		return m, nil
	}

	return m, nil
}

// handleSearchKeys feeds keystrokes to the search input. Each change
// replaces the pending debounce timer: only the last keystroke within
// the quiet period triggers a reload.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ls := m.activeList()

	switch msg.String() {
	case "esc", "enter":
		ls.searching = false
		ls.search.Blur()
		return m, nil
	}

	before := ls.search.Value()
	var cmd tea.Cmd
	ls.search, cmd = ls.search.Update(msg)
	if ls.search.Value() == before {
		return m, cmd
	}

	ls.searchSeq++
	seq := ls.searchSeq
	kind := m.kind
	debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{kind: kind, seq: seq}
	})
	return m, tea.Batch(cmd, debounce)
}

// handleSearchDebounce fires a reload only for the newest timer; earlier
// timers were superseded by later keystrokes.
func (m Model) handleSearchDebounce(msg searchDebounceMsg) (tea.Model, tea.Cmd) {
	ls := m.lists[msg.kind]
	if msg.seq != ls.searchSeq {
		return m, nil
	}
	ls.filter.Search = ls.search.Value()
	return m, m.loadList(msg.kind, ls.filter)
}

// nextCustomerFilter cycles All -> first customer -> ... -> last -> All.
func (m Model) nextCustomerFilter(current string) string {
	customers := m.store.Customers()
	if len(customers) == 0 {
		return ""
	}
	if current == "" {
		return customers[0].ID()
	}
	for i, c := range customers {
		if c.ID() == current {
			if i+1 < len(customers) {
				return customers[i+1].ID()
			}
			return ""
		}
	}
	return ""
}

func nextStatusFilter(current string) string {
	if current == "" {
		return models.DealStatuses[0]
	}
	for i, s := range models.DealStatuses {
		if s == current {
			if i+1 < len(models.DealStatuses) {
				return models.DealStatuses[i+1]
			}
			return ""
		}
	}
	return ""
}

func nextKind(current models.Kind, step int) models.Kind {
	for i, k := range models.Kinds {
		if k == current {
			return models.Kinds[(i+step+len(models.Kinds))%len(models.Kinds)]
		}
	}
	return models.Kinds[0]
}

func (ls *listState) selectedID() string {
	if ls.cursor < 0 || ls.cursor >= len(ls.records) {
		return ""
	}
	return ls.records[ls.cursor].ID()
}

// confirmDelete opens the confirmation dialog for the selected record.
// The customer wording carries the cascading-delete warning.
func (m Model) confirmDelete(id string, fromForm bool) (tea.Model, tea.Cmd) {
	ls := m.activeList()
	kind := m.kind
	client := m.client
	schema := ls.schema
	m.showConfirm(schema.DeleteConfirm, func() tea.Cmd {
		return func() tea.Msg {
			err := client.Delete(context.Background(), schema, id)
			return deleteDoneMsg{kind: kind, fromForm: fromForm, err: err}
		}
	})
	return m, nil
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error("delete failed",
			zap.String("kind", string(msg.kind)),
			zap.Error(msg.err))
		return m, nil
	}

	schema := models.SchemaFor(msg.kind)
	if msg.fromForm {
		m.form = nil
		m.viewMode = ViewList
	}
	alertCmd := m.pushAlert(alertMsg{
		text:     schema.Title + " deleted successfully",
		severity: severitySuccess,
		timeout:  defaultAlertTimeout,
	})
	return m, tea.Batch(alertCmd, m.loadList(msg.kind, m.lists[msg.kind].filter))
}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	ls := m.activeList()

	s.WriteString(ls.search.View())
	if line := m.renderFilterLine(ls); line != "" {
		s.WriteString("  ")
		s.WriteString(line)
	}
	s.WriteString("\n\n")

	s.WriteString(m.renderTable(ls))
	s.WriteString("\n")
	s.WriteString(m.renderListHelp(ls))

	return s.String()
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		label := models.SchemaFor(kind).Title + "s"
		if kind == m.kind {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}
	if m.backupBusy {
		rendered = append(rendered, tabInactiveStyle.Render("Backing up..."))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderFilterLine(ls *listState) string {
	var parts []string
	if ls.schema.CustomerFilter {
		name := "All"
		if ls.filter.CustomerID != "" {
			name = m.store.CustomerName(ls.filter.CustomerID)
		}
		parts = append(parts, "Customer: "+name)
	}
	if ls.schema.StatusFilter {
		status := ls.filter.Status
		if status == "" {
			status = "All"
		}
		parts = append(parts, "Status: "+status)
	}
	if len(parts) == 0 {
		return ""
	}
	return filterStyle.Render(strings.Join(parts, " | "))
}

// renderTable renders the records in the order received from the server.
func (m Model) renderTable(ls *listState) string {
	if len(ls.records) == 0 {
		return emptyStyle.Render("No " + ls.schema.Plural + " found")
	}

	columns := make([]table.Column, len(ls.schema.Columns))
	for i, col := range ls.schema.Columns {
		columns[i] = table.Column{Title: col.Title, Width: col.Width}
	}

	rows := make([]table.Row, len(ls.records))
	for i, record := range ls.records {
		row := make(table.Row, len(ls.schema.Columns))
		for j, col := range ls.schema.Columns {
			row[j] = m.cellValue(record, col.Key)
		}
		rows[i] = row
	}

	height := m.height - 12
	if height < 4 {
		height = 4
	}
	if height > len(rows)+1 {
		height = len(rows) + 1
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if ls.cursor < len(rows) {
		t.SetCursor(ls.cursor)
	}

	return t.View()
}

// cellValue formats one table cell. Customer references resolve through
// the shared store, falling back to "Unknown".
func (m Model) cellValue(record models.Record, key string) string {
	switch key {
	case "customer_id":
		return m.store.CustomerName(record.Str(key))
	case "amount":
		if f, ok := record.Float(key); ok {
			return fmt.Sprintf("$%.2f", f)
		}
		return ""
	case "expected_close_date":
		if v := record.Str(key); v != "" {
			return v
		}
		return "-"
	default:
		return record.Str(key)
	}
}

func (m Model) renderListHelp(ls *listState) string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch section",
		"/: Search",
		"Enter: Edit",
		"n: New",
		"d: Delete",
	}
	if ls.schema.CustomerFilter {
		help = append(help, "f: Customer filter")
	}
	if ls.schema.StatusFilter {
		help = append(help, "s: Status filter")
	}
	help = append(help, "b: Backup")
	if len(m.alerts) > 0 {
		help = append(help, "x: Dismiss alert")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}
