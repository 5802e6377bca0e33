// ABOUTME: Generic entity form controller: create/edit modal for all kinds
// ABOUTME: Required-field validation happens client-side, before any network call
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"crmdesk/models"
)

// option is one choice of a select field.
type option struct {
	value string
	label string
}

// formField is one editable field: a text input, or a cycling select for
// customer references and deal statuses.
type formField struct {
	spec    models.Field
	input   textinput.Model
	options []option // non-nil means select
	optIdx  int      // -1 = nothing selected
}

func (f *formField) value() string {
	if f.options != nil {
		if f.optIdx < 0 || f.optIdx >= len(f.options) {
			return ""
		}
		return f.options[f.optIdx].value
	}
	return f.input.Value()
}

func (f *formField) setValue(v string) {
	if f.options != nil {
		f.optIdx = -1
		for i, opt := range f.options {
			if opt.value == v {
				f.optIdx = i
				break
			}
		}
		return
	}
	f.input.SetValue(v)
}

func (f *formField) cycle(step int) {
	if f.options == nil || len(f.options) == 0 {
		return
	}
	f.optIdx = (f.optIdx + step + len(f.options) + 1) % (len(f.options) + 1)
	if f.optIdx == len(f.options) {
		f.optIdx = -1
	}
}

// formState is one open modal: Closed -> Open(create) | Open(edit) -> Closed.
// An empty id means create.
type formState struct {
	schema models.Schema
	id     string
	fields []formField
	focus  int
}

// buildForm constructs the field set for a kind. Customer selects are
// populated from the shared store's customer list at open time.
func (m *Model) buildForm(schema models.Schema) *formState {
	fields := make([]formField, len(schema.Fields))
	for i, spec := range schema.Fields {
		f := formField{spec: spec, optIdx: -1}
		if spec.Type == models.FieldSelect {
			// Non-nil even when the source is empty, so the field stays a
			// select rendering "(none)" rather than a dead text input.
			f.options = []option{}
			if spec.Key == "customer_id" {
				for _, c := range m.store.Customers() {
					f.options = append(f.options, option{value: c.ID(), label: c.Str("name")})
				}
			} else {
				for _, o := range spec.Options {
					f.options = append(f.options, option{value: o, label: o})
				}
			}
		} else {
			input := textinput.New()
			input.Placeholder = spec.Label
			input.CharLimit = 200
			input.Width = 48
			f.input = input
		}
		fields[i] = f
	}
	return &formState{schema: schema, fields: fields}
}

// openCreate opens an empty form for the active kind, pre-filling any
// currently active list filters into the matching fields. Deals default
// to the "New" status when no status filter is set.
func (m *Model) openCreate() {
	ls := m.activeList()
	form := m.buildForm(ls.schema)

	if ls.schema.CustomerFilter && ls.filter.CustomerID != "" {
		form.field("customer_id").setValue(ls.filter.CustomerID)
	}
	if ls.schema.StatusFilter {
		if ls.filter.Status != "" {
			form.field("status").setValue(ls.filter.Status)
		} else {
			form.field("status").setValue(models.StatusNew)
		}
	}

	m.form = form
	m.viewMode = ViewForm
	m.focusField(0)
}

// openEdit fetches the record, then opens the form populated. On fetch
// failure the form never opens: handleRecordLoaded shows the error alert
// and stays on the list.
func (m Model) openEdit(id string) tea.Cmd {
	client := m.client
	kind := m.kind
	schema := models.SchemaFor(kind)
	return func() tea.Msg {
		record, err := client.Get(context.Background(), schema, id)
		return recordLoadedMsg{kind: kind, id: id, record: record, err: err}
	}
}

func (m Model) handleRecordLoaded(msg recordLoadedMsg) (tea.Model, tea.Cmd) {
	schema := models.SchemaFor(msg.kind)
	if msg.err != nil {
		m.log.Error("record fetch failed",
			zap.String("kind", string(msg.kind)),
			zap.String("id", msg.id),
			zap.Error(msg.err))
		cmd := m.pushAlert(alertMsg{
			text:     "Error loading " + schema.Singular + " details",
			severity: severityDanger,
			timeout:  defaultAlertTimeout,
		})
		return m, cmd
	}

	form := m.buildForm(schema)
	form.id = msg.id
	for i := range form.fields {
		// Optional fields absent from the record populate as "".
		form.fields[i].setValue(msg.record.Str(form.fields[i].spec.Key))
	}
	m.form = form
	m.viewMode = ViewForm
	m.focusField(0)
	return m, textinput.Blink
}

func (fs *formState) field(key string) *formField {
	for i := range fs.fields {
		if fs.fields[i].spec.Key == key {
			return &fs.fields[i]
		}
	}
	return &formField{}
}

func (m *Model) focusField(idx int) {
	if m.form == nil {
		return
	}
	m.form.focus = idx
	for i := range m.form.fields {
		f := &m.form.fields[i]
		if f.options != nil {
			continue
		}
		if i == idx {
			f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.form
	if form == nil {
		m.viewMode = ViewList
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.form = nil
		m.viewMode = ViewList
		return m, nil
	case "tab", "down":
		m.focusField((form.focus + 1) % len(form.fields))
		return m, nil
	case "shift+tab", "up":
		m.focusField((form.focus - 1 + len(form.fields)) % len(form.fields))
		return m, nil
	case "enter":
		return m.submit()
	case "ctrl+d":
		return m.deleteCurrent()
	}

	f := &form.fields[form.focus]
	if f.options != nil {
		switch msg.String() {
		case "left":
			f.cycle(-1)
		case "right", " ":
			f.cycle(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return m, cmd
}

// submit validates required fields and parses numeric ones; validation
// failure shows one alert and performs no network call. Otherwise the
// record is created (no id) or updated (id present).
func (m Model) submit() (tea.Model, tea.Cmd) {
	form := m.form
	record := models.Record{}
	for i := range form.fields {
		record[form.fields[i].spec.Key] = form.fields[i].value()
	}

	if err := form.schema.Validate(record); err != nil {
		m.log.Warn("validation failed", zap.Error(err))
		cmd := m.pushAlert(alertMsg{
			text:     "Please fill in all required fields",
			severity: severityDanger,
			timeout:  defaultAlertTimeout,
		})
		return m, cmd
	}

	client := m.client
	kind := form.schema.Kind
	schema := form.schema
	id := form.id
	return m, func() tea.Msg {
		var err error
		if id == "" {
			_, err = client.Create(context.Background(), schema, record)
		} else {
			_, err = client.Update(context.Background(), schema, id, record)
		}
		return saveDoneMsg{kind: kind, created: id == "", err: err}
	}
}

// handleSaveDone closes the modal on success and reloads the owning list
// with its current filters preserved. On failure the modal stays open;
// the gateway already surfaced the error.
func (m Model) handleSaveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error("save failed",
			zap.String("kind", string(msg.kind)),
			zap.Error(msg.err))
		return m, nil
	}

	schema := models.SchemaFor(msg.kind)
	verb := "updated"
	if msg.created {
		verb = "created"
	}
	m.form = nil
	m.viewMode = ViewList
	alertCmd := m.pushAlert(alertMsg{
		text:     schema.Title + " " + verb + " successfully",
		severity: severitySuccess,
		timeout:  defaultAlertTimeout,
	})
	return m, tea.Batch(alertCmd, m.loadList(msg.kind, m.lists[msg.kind].filter))
}

// deleteCurrent deletes the record open in the form. Without an id (a
// create form) it is a no-op: no confirmation, no request.
func (m Model) deleteCurrent() (tea.Model, tea.Cmd) {
	if m.form == nil || m.form.id == "" {
		return m, nil
	}
	return m.confirmDelete(m.form.id, true)
}

func (m Model) renderFormView() string {
	form := m.form
	if form == nil {
		return ""
	}

	var s strings.Builder
	if form.id == "" {
		s.WriteString(formTitleStyle.Render("Add " + form.schema.Title))
	} else {
		s.WriteString(formTitleStyle.Render("Edit " + form.schema.Title))
	}
	s.WriteString("\n\n")

	for i := range form.fields {
		f := &form.fields[i]
		cursor := "  "
		if i == form.focus {
			cursor = "> "
		}
		s.WriteString(cursor)

		label := f.spec.Label
		if f.spec.Required {
			label += " *"
		}
		s.WriteString(formLabelStyle.Render(label))
		s.WriteString("\n")
		s.WriteString("  ")

		if f.options != nil {
			s.WriteString(renderSelect(f, i == form.focus))
		} else {
			s.WriteString(f.input.View())
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderFormHelp(form))
	return s.String()
}

func renderSelect(f *formField, focused bool) string {
	label := "(none)"
	if f.optIdx >= 0 && f.optIdx < len(f.options) {
		label = f.options[f.optIdx].label
	}
	if focused {
		return filterStyle.Render("◀ " + label + " ▶")
	}
	return label
}

func (m Model) renderFormHelp(form *formState) string {
	help := []string{
		"Tab: Next field",
		"←/→: Change selection",
		"Enter: Save",
		"Esc: Cancel",
	}
	if form.id != "" {
		help = append(help, "Ctrl+D: Delete")
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

var (
	formTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))
)
