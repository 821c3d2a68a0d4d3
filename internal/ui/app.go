package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/logtail"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/source"
)

// View represents the current active view.
type View int

const (
	ViewBrowse View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Registry  *source.Registry
	Source    string
	ThemeName string
	PrefsPath string
	LogPath   string
	Logger    zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	registry  *source.Registry
	keys      keyMap
	prefsPath string
	logPath   string
	logger    zerolog.Logger

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// List state
	active    source.Source
	list      source.View
	selected  int
	offset    int
	pending     map[string]int
	wantQuery   string
	wantRefresh bool

	// Search
	searching   bool
	searchInput textinput.Model
	searchSeq   int

	// Detail
	detail    *source.Detail
	detailID  int
	detailErr error

	// Logs
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error

	// Command bar notice
	flash    string
	flashSeq int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "name…"
	ti.Prompt = "/"
	ti.CharLimit = 64

	m := Model{
		ctx:         ctx,
		registry:    opts.Registry,
		keys:        DefaultKeyMap(),
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		logger:      opts.Logger.With().Str("component", "ui").Logger(),
		theme:       GetTheme(themeName),
		currentView: ViewBrowse,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		pending:     make(map[string]int),
		searchInput: ti,
	}
	if opts.Registry != nil {
		m.active = opts.Registry.Lookup(opts.Source)
	}
	if m.active != nil {
		m.list = m.active.Snapshot()
		m.wantQuery = m.list.Query
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport()
		m.ensureVisible()
		return m, nil

	case startMsg:
		if m.active == nil || m.list.Len() > 0 || m.list.Err != nil {
			return m, nil
		}
		cmd := m.dispatch(m.active, loadNext)
		return m, cmd

	case listMsg:
		return m.handleList(msg)

	case detailMsg:
		if m.active == nil || msg.source != m.active.Name() || msg.id != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			m.detail, m.detailErr = nil, msg.err
			return m, nil
		}
		d := msg.detail
		m.detail, m.detailErr = &d, nil
		return m, nil

	case favoriteMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Int("id", msg.id).Msg("toggle favorite failed")
			cmd := m.setFlash(fmt.Sprintf("Could not update favourites: %v", msg.err))
			return m, cmd
		}
		if m.active != nil && msg.source == m.active.Name() {
			m.list = m.active.Snapshot()
		}
		if msg.starred {
			cmd := m.setFlash(fmt.Sprintf("★ %s added to favourites", msg.name))
			return m, cmd
		}
		cmd := m.setFlash(fmt.Sprintf("%s removed from favourites", msg.name))
		return m, cmd

	case searchDebounceMsg:
		if !m.searching || msg.seq != m.searchSeq || m.active == nil || msg.source != m.active.Name() {
			return m, nil
		}
		cmd := m.applySearch(m.searchInput.Value())
		return m, cmd

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("save prefs failed")
			cmd := m.setFlash("Could not save preferences")
			return m, cmd
		}
		return m, nil

	case logMsg:
		m.logEntries, m.logErr = msg.entries, msg.err
		m.refreshLogViewport()
		return m, nil

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.active == nil {
		return "No sources configured."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderBrowse())
	}
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.refreshLogViewport()
		return m, m.savePrefsCmd()
	case key.Matches(msg, m.keys.Logs):
		if m.currentView == ViewLogs {
			m.currentView = ViewBrowse
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.readLogsCmd()
	}

	if m.active == nil {
		return m, nil
	}
	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleBrowseKey(msg)
}

// handleBrowseKey processes keyboard input for the list view.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.list.Rows)

	switch {
	case key.Matches(msg, m.keys.Down):
		cmd := m.selectRow(m.selected + 1)
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		cmd := m.selectRow(m.selected - 1)
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		cmd := m.selectRow(0)
		return m, cmd
	case key.Matches(msg, m.keys.Bottom):
		cmd := m.selectRow(count - 1)
		return m, cmd
	case key.Matches(msg, m.keys.PageDown):
		cmd := m.selectRow(m.selected + m.listRows())
		return m, cmd
	case key.Matches(msg, m.keys.PageUp):
		cmd := m.selectRow(m.selected - m.listRows())
		return m, cmd

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.list.Query)
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		m.wantQuery = ""
		if m.isLoading() {
			// The loader would drop it; run it once the fetch lands.
			m.wantRefresh = true
			return m, nil
		}
		m.clearDetail()
		cmd := m.dispatch(m.active, refresh)
		return m, cmd

	case key.Matches(msg, m.keys.LoadMore):
		if !m.list.CanLoadMore || m.isLoading() {
			return m, nil
		}
		cmd := m.dispatch(m.active, loadNext)
		return m, cmd

	case key.Matches(msg, m.keys.Retry):
		if m.list.Err == nil || m.isLoading() {
			return m, nil
		}
		cmd := m.dispatch(m.active, loadNext)
		return m, cmd

	case key.Matches(msg, m.keys.SwitchSource):
		cmd := m.switchSource()
		return m, cmd

	case key.Matches(msg, m.keys.Favorite):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		return m, m.toggleFavoriteCmd(m.active, row)
	}

	return m, nil
}

// handleSearchKey routes keys to the search input while it is open.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchSeq++
		m.searchInput.Blur()
		cmd := m.applySearch(m.searchInput.Value())
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchSeq++
		m.searchInput.Blur()
		m.searchInput.SetValue(m.list.Query)
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	return m, tea.Batch(cmd, debounceCmd(m.active.Name(), m.searchSeq))
}

// applySearch dispatches a search when the query differs from the one shown.
func (m *Model) applySearch(raw string) tea.Cmd {
	query := strings.TrimSpace(raw)
	m.wantQuery = query
	m.wantRefresh = false
	if query == m.list.Query && m.list.Err == nil {
		return nil
	}
	m.clearDetail()
	return m.dispatch(m.active, search(query))
}

// handleList folds a finished source call back into the model.
func (m Model) handleList(msg listMsg) (tea.Model, tea.Cmd) {
	if n := m.pending[msg.source]; n > 0 {
		m.pending[msg.source] = n - 1
	}
	if m.active == nil || msg.source != m.active.Name() {
		return m, nil
	}

	selectedID := m.selectedID()
	m.list = m.active.Snapshot()
	if idx := m.list.IndexOf(selectedID); idx >= 0 {
		m.selected = idx
	}
	m.clampSelection()
	m.ensureVisible()

	var cmds []tea.Cmd
	switch {
	case m.isLoading():
	case m.wantRefresh:
		m.wantRefresh = false
		m.clearDetail()
		cmds = append(cmds, m.dispatch(m.active, refresh))
	case m.list.Query != m.wantQuery:
		// A search typed while another fetch ran was dropped by the loader.
		cmds = append(cmds, m.dispatch(m.active, search(m.wantQuery)))
	case m.list.Err == nil:
		cmds = append(cmds, m.prefetchCmd())
	}
	cmds = append(cmds, m.detailCmd())
	return m, tea.Batch(cmds...)
}

// selectRow moves the selection and triggers prefetch and detail loading.
func (m *Model) selectRow(idx int) tea.Cmd {
	if len(m.list.Rows) == 0 {
		return nil
	}
	m.selected = idx
	m.clampSelection()
	m.ensureVisible()
	return tea.Batch(m.prefetchCmd(), m.detailCmd())
}

// switchSource activates the next catalogue and loads it if it is empty.
func (m *Model) switchSource() tea.Cmd {
	next := m.registry.Next(m.active.Name())
	if next == nil || next.Name() == m.active.Name() {
		return nil
	}
	m.active = next
	m.list = next.Snapshot()
	m.wantQuery = m.list.Query
	m.wantRefresh = false
	m.selected, m.offset = 0, 0
	m.clearDetail()
	m.searchInput.SetValue(m.list.Query)

	cmds := []tea.Cmd{m.savePrefsCmd()}
	if m.list.Len() == 0 && m.list.Err == nil && !m.isLoading() {
		cmds = append(cmds, m.dispatch(next, loadNext))
	} else {
		cmds = append(cmds, m.detailCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) isLoading() bool {
	if m.active == nil {
		return false
	}
	return m.list.Loading || m.pending[m.active.Name()] > 0
}

func (m *Model) selectedRow() (source.Row, bool) {
	if m.selected < 0 || m.selected >= len(m.list.Rows) {
		return source.Row{}, false
	}
	return m.list.Rows[m.selected], true
}

func (m *Model) selectedID() int {
	row, ok := m.selectedRow()
	if !ok {
		return 0
	}
	return row.ID
}

func (m *Model) clampSelection() {
	n := len(m.list.Rows)
	switch {
	case n == 0:
		m.selected = 0
	case m.selected >= n:
		m.selected = n - 1
	case m.selected < 0:
		m.selected = 0
	}
}

// ensureVisible scrolls the list so the selection is on screen.
func (m *Model) ensureVisible() {
	rows := m.listRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) clearDetail() {
	m.detail, m.detailErr, m.detailID = nil, nil, 0
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Registry == nil || len(opts.Registry.Names()) == 0 {
		return errors.New("ui: no sources to browse")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
