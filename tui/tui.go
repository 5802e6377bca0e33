// ABOUTME: Terminal user interface using the bubbletea framework
// ABOUTME: Application shell: tab navigation, initial parallel load, backup trigger
package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"crmdesk/models"
	"crmdesk/store"
)

// ViewMode represents the current TUI view.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewForm
	ViewConfirm
)

// Client is the slice of the API gateway the TUI drives. The gateway
// reports request failures through its Notifier before returning, so
// handlers here only log errors, never a second user-facing message.
type Client interface {
	List(ctx context.Context, schema models.Schema, f models.Filter) ([]models.Record, error)
	Get(ctx context.Context, schema models.Schema, id string) (models.Record, error)
	Create(ctx context.Context, schema models.Schema, record models.Record) (models.Record, error)
	Update(ctx context.Context, schema models.Schema, id string, record models.Record) (models.Record, error)
	Delete(ctx context.Context, schema models.Schema, id string) error
	Backup(ctx context.Context) (string, error)
}

// Model is the main bubbletea model.
type Model struct {
	client Client
	store  *store.Store
	log    *zap.Logger

	viewMode ViewMode
	kind     models.Kind
	lists    map[models.Kind]*listState
	form     *formState
	confirm  *confirmState
	alerts   []alert

	backupBusy bool

	width  int
	height int
}

// NewModel creates a TUI model backed by the given gateway and store.
func NewModel(client Client, st *store.Store, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	lists := make(map[models.Kind]*listState, len(models.Kinds))
	for _, kind := range models.Kinds {
		lists[kind] = newListState(models.SchemaFor(kind))
	}
	return Model{
		client:   client,
		store:    st,
		log:      logger,
		viewMode: ViewList,
		kind:     models.KindCustomers,
		lists:    lists,
		width:    120,
		height:   32,
	}
}

// Messages produced by async commands.

type bootstrapMsg struct {
	lists map[models.Kind][]models.Record
	err   error
}

type listLoadedMsg struct {
	kind    models.Kind
	filter  models.Filter
	records []models.Record
	err     error
}

type searchDebounceMsg struct {
	kind models.Kind
	seq  int
}

type recordLoadedMsg struct {
	kind   models.Kind
	id     string
	record models.Record
	err    error
}

type saveDoneMsg struct {
	kind    models.Kind
	created bool
	err     error
}

type deleteDoneMsg struct {
	kind     models.Kind
	fromForm bool
	err      error
}

type backupDoneMsg struct {
	message string
	err     error
}

func (m Model) Init() tea.Cmd {
	return m.bootstrap()
}

// bootstrap issues the three initial list fetches in parallel. The group
// fails as a whole on the first rejection; partial success is not
// surfaced differently from total failure.
func (m Model) bootstrap() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(context.Background())
		var mu sync.Mutex
		lists := make(map[models.Kind][]models.Record, len(models.Kinds))

		for _, kind := range models.Kinds {
			schema := models.SchemaFor(kind)
			g.Go(func() error {
				records, err := client.List(ctx, schema, models.Filter{})
				if err != nil {
					return err
				}
				mu.Lock()
				lists[schema.Kind] = records
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return bootstrapMsg{err: err}
		}
		return bootstrapMsg{lists: lists}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case alertMsg:
		cmd := m.pushAlert(msg)
		return m, cmd
	case alertExpiredMsg:
		m.expireAlert(msg.id)
		return m, nil
	case bootstrapMsg:
		return m.handleBootstrap(msg)
	case listLoadedMsg:
		return m.handleListLoaded(msg)
	case searchDebounceMsg:
		return m.handleSearchDebounce(msg)
	case recordLoadedMsg:
		return m.handleRecordLoaded(msg)
	case saveDoneMsg:
		return m.handleSaveDone(msg)
	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	case backupDoneMsg:
		return m.handleBackupDone(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+x":
		// Works in every view; text inputs never see control chords.
		m.dismissAlert()
		return m, nil
	}

	switch m.viewMode {
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	case ViewForm:
		return m.handleFormKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

func (m Model) handleBootstrap(msg bootstrapMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error("initial load failed", zap.Error(msg.err))
		cmd := m.pushAlert(alertMsg{
			text:     "Failed to load data. Press 'r' to retry.",
			severity: severityDanger,
			timeout:  defaultAlertTimeout,
		})
		return m, cmd
	}

	for kind, records := range msg.lists {
		ls := m.lists[kind]
		ls.records = records
		ls.loaded = true
		m.store.Replace(kind, records)
	}
	return m, nil
}

// loadList fetches one entity list with the given filter.
func (m Model) loadList(kind models.Kind, filter models.Filter) tea.Cmd {
	client := m.client
	schema := models.SchemaFor(kind)
	return func() tea.Msg {
		records, err := client.List(context.Background(), schema, filter)
		return listLoadedMsg{kind: kind, filter: filter, records: records, err: err}
	}
}

// handleListLoaded applies a finished list fetch. A failed load keeps the
// previously rendered rows. Responses are applied in arrival order: an
// older in-flight response landing after a newer one overwrites it.
func (m Model) handleListLoaded(msg listLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error("list load failed",
			zap.String("kind", string(msg.kind)),
			zap.Error(msg.err))
		return m, nil
	}

	ls := m.lists[msg.kind]
	ls.records = msg.records
	ls.loaded = true
	if ls.cursor >= len(ls.records) {
		ls.cursor = 0
	}
	m.store.Replace(msg.kind, msg.records)
	return m, nil
}

func (m Model) handleBackupDone(msg backupDoneMsg) (tea.Model, tea.Cmd) {
	m.backupBusy = false
	if msg.err != nil {
		m.log.Error("backup failed", zap.Error(msg.err))
		return m, nil
	}
	cmd := m.pushAlert(alertMsg{text: msg.message, severity: severitySuccess, timeout: defaultAlertTimeout})
	return m, cmd
}

func (m Model) runBackup() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		message, err := client.Backup(context.Background())
		return backupDoneMsg{message: message, err: err}
	}
}

func (m Model) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render("CRMDESK"))
	if banner := m.renderAlerts(); banner != "" {
		sections = append(sections, banner)
	}

	switch m.viewMode {
	case ViewForm:
		sections = append(sections, m.renderFormView())
	case ViewConfirm:
		sections = append(sections, m.renderConfirmView())
	default:
		sections = append(sections, m.renderListView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(1, 2)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)
