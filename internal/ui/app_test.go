package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/roster/internal/loader"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/source"
)

type critter struct {
	ID   int
	Name string
}

func (c critter) ItemID() int { return c.ID }

// fakeFetcher serves total critters in pages of size. A query yields a single
// critter named after it.
type fakeFetcher struct {
	mu       sync.Mutex
	total    int
	size     int
	failNext error
	queries  []string
}

func (f *fakeFetcher) FetchPage(_ context.Context, page int, query string) (loader.Page[critter], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if err := f.failNext; err != nil {
		f.failNext = nil
		return loader.Page[critter]{}, err
	}
	if query != "" {
		return loader.Page[critter]{Items: []critter{{ID: 999, Name: query}}}, nil
	}
	from := (page-1)*f.size + 1
	to := min(page*f.size, f.total)
	var items []critter
	for id := from; id <= to; id++ {
		items = append(items, critter{ID: id, Name: fmt.Sprintf("Critter %d", id)})
	}
	return loader.Page[critter]{Items: items, HasNext: to < f.total}, nil
}

func (f *fakeFetcher) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// gatedFetcher holds unfiltered fetches of one page until release is closed.
type gatedFetcher struct {
	*fakeFetcher
	gatePage int
	entered  chan struct{}
	release  chan struct{}

	mu    sync.Mutex
	calls []string
}

func newGatedFetcher(gatePage int) *gatedFetcher {
	return &gatedFetcher{
		fakeFetcher: &fakeFetcher{total: 45, size: 20},
		gatePage:    gatePage,
		entered:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
}

func (g *gatedFetcher) FetchPage(ctx context.Context, page int, query string) (loader.Page[critter], error) {
	g.mu.Lock()
	g.calls = append(g.calls, fmt.Sprintf("%d:%s", page, query))
	g.mu.Unlock()
	if page == g.gatePage && query == "" {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.fakeFetcher.FetchPage(ctx, page, query)
}

func (g *gatedFetcher) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// startInFlight dispatches call through the model and runs it in the
// background, returning the channel its listMsg arrives on.
func startInFlight(t *testing.T, m *Model, call sourceCall) <-chan tea.Msg {
	t.Helper()
	cmd := m.dispatch(m.active, call)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	out := make(chan tea.Msg, 1)
	go func() { out <- batch[0]() }()
	return out
}

type memFavorites struct {
	mu  sync.Mutex
	ids map[int]bool
}

func (m *memFavorites) Toggle(_ string, id int, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids == nil {
		m.ids = map[int]bool{}
	}
	m.ids[id] = !m.ids[id]
	return m.ids[id], nil
}

func (m *memFavorites) IDs(string) (map[int]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int]bool{}
	for id, on := range m.ids {
		if on {
			out[id] = true
		}
	}
	return out, nil
}

func critterRow(c critter) source.Row {
	return source.Row{Title: c.Name, Subtitle: fmt.Sprintf("#%d", c.ID)}
}

func critterDetail(_ context.Context, c critter) (source.Detail, error) {
	return source.Detail{Title: c.Name, Fields: []source.Field{{Label: "ID", Value: fmt.Sprint(c.ID)}}}, nil
}

func newCatalog(name string, f loader.Fetcher[critter], opts ...source.Option) *source.Catalog[critter] {
	return source.NewCatalog[critter](name, strings.ToUpper(name), f, critterRow, critterDetail, opts...)
}

func newTestModel(t *testing.T, reg *source.Registry) (Model, string) {
	t.Helper()
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{Registry: reg, PrefsPath: prefsPath})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), prefsPath
}

// runCmd executes c, giving up on commands that wait on timers.
func runCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, msg != nil
	case <-time.After(50 * time.Millisecond):
		return nil, false
	}
}

// drain feeds every message produced by cmd back into the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 500, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok {
			continue
		}
		if batch, isBatch := msg.(tea.BatchMsg); isBatch {
			queue = append(queue, batch...)
			continue
		}
		if _, quit := msg.(tea.QuitMsg); quit {
			continue
		}
		next, nc := m.Update(msg)
		m = next.(Model)
		queue = append(queue, nc)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, cmd := m.Update(msg)
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func TestModel_InitLoadsFirstPageAndDetail(t *testing.T) {
	f := &fakeFetcher{total: 45, size: 20}
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", f)))

	m = drain(t, m, m.Init())

	assert.Equal(t, 20, m.list.Len())
	assert.False(t, m.isLoading())
	require.NotNil(t, m.detail)
	assert.Equal(t, "Critter 1", m.detail.Title)
	assert.Equal(t, []string{""}, f.Queries())
}

func TestModel_MovingIntoWindowPrefetches(t *testing.T) {
	f := &fakeFetcher{total: 45, size: 20}
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", f)))
	m = drain(t, m, m.Init())

	m = press(t, m, "j", "j")
	assert.Equal(t, 20, m.list.Len(), "rows near the top do not prefetch")
	assert.Equal(t, 2, m.selected)

	m = press(t, m, "G")
	assert.Equal(t, 40, m.list.Len())
	assert.Equal(t, 19, m.selected, "selection stays on the same row")
	require.NotNil(t, m.detail)
	assert.Equal(t, "Critter 20", m.detail.Title)

	m = press(t, m, "G")
	assert.Equal(t, 45, m.list.Len())
	assert.False(t, m.list.CanLoadMore)

	m = press(t, m, "m")
	assert.Len(t, f.Queries(), 3, "load more is ignored once exhausted")
}

func TestModel_SearchOnEnterAndRefresh(t *testing.T) {
	f := &fakeFetcher{total: 45, size: 20}
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", f)))
	m = drain(t, m, m.Init())

	m = press(t, m, "/")
	require.True(t, m.searching)
	m = press(t, m, "r", "i", "c", "k", "enter")

	assert.False(t, m.searching)
	assert.Equal(t, "rick", m.list.Query)
	require.Equal(t, 1, m.list.Len())
	assert.Equal(t, 999, m.list.Rows[0].ID)
	assert.Contains(t, f.Queries(), "rick")

	m = press(t, m, "r")
	assert.Empty(t, m.list.Query)
	assert.Equal(t, 20, m.list.Len())
}

func TestModel_SearchDebounceIgnoresStaleTicks(t *testing.T) {
	f := &fakeFetcher{total: 45, size: 20}
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", f)))
	m = drain(t, m, m.Init())

	m = press(t, m, "/", "m", "o")
	require.True(t, m.searching)
	stale := m.searchSeq - 1

	next, cmd := m.Update(searchDebounceMsg{source: "a", seq: stale})
	m = drain(t, next.(Model), cmd)
	assert.Empty(t, m.list.Query)

	next, cmd = m.Update(searchDebounceMsg{source: "a", seq: m.searchSeq})
	m = drain(t, next.(Model), cmd)
	assert.Equal(t, "mo", m.list.Query)
	assert.True(t, m.searching, "input stays open after a debounced search")

	m = press(t, m, "esc")
	assert.False(t, m.searching)
	assert.Equal(t, "mo", m.list.Query)
}

func TestModel_SearchDroppedDuringFetchIsReissued(t *testing.T) {
	g := newGatedFetcher(2)
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", g)))
	m = drain(t, m, m.Init())

	inFlight := startInFlight(t, &m, loadNext)
	<-g.entered

	cmd := m.applySearch("rick")
	m = drain(t, m, cmd)
	assert.Empty(t, m.list.Query, "the loader drops the search while page 2 is fetched")
	assert.Equal(t, []string{"1:", "2:"}, g.Calls())

	close(g.release)
	next, cmd := m.Update(<-inFlight)
	m = drain(t, next.(Model), cmd)

	assert.Equal(t, "rick", m.list.Query)
	assert.Equal(t, 1, m.list.Len())
	assert.Equal(t, []string{"1:", "2:", "1:rick"}, g.Calls())
}

func TestModel_RefreshDuringFetchRunsAfterIt(t *testing.T) {
	g := newGatedFetcher(2)
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", g)))
	m = drain(t, m, m.Init())

	inFlight := startInFlight(t, &m, loadNext)
	<-g.entered

	m = press(t, m, "r")
	assert.True(t, m.wantRefresh)
	assert.Equal(t, []string{"1:", "2:"}, g.Calls())

	close(g.release)
	next, cmd := m.Update(<-inFlight)
	m = drain(t, next.(Model), cmd)

	assert.False(t, m.wantRefresh)
	assert.Equal(t, []string{"1:", "2:", "1:"}, g.Calls())
	assert.Equal(t, 20, m.list.Len(), "the refresh replaced the 40 loaded rows")
	assert.Empty(t, m.list.Query)
}

func TestModel_FailureThenRetry(t *testing.T) {
	f := &fakeFetcher{total: 45, size: 20, failNext: loader.NewError(loader.KindTransport, errors.New("offline"))}
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", f)))
	m = drain(t, m, m.Init())

	require.NotNil(t, m.list.Err)
	assert.Equal(t, loader.KindTransport, m.list.Err.Kind)
	assert.True(t, m.list.Err.Retryable())

	m = press(t, m, "enter")
	assert.Nil(t, m.list.Err)
	assert.Equal(t, 20, m.list.Len())
}

func TestModel_TabSwitchesSourceAndSavesPrefs(t *testing.T) {
	fa := &fakeFetcher{total: 45, size: 20}
	fb := &fakeFetcher{total: 3, size: 20}
	m, prefsPath := newTestModel(t, source.NewRegistry(newCatalog("a", fa), newCatalog("b", fb)))
	m = drain(t, m, m.Init())
	m = press(t, m, "j")

	m = press(t, m, "tab")
	assert.Equal(t, "b", m.active.Name())
	assert.Equal(t, 3, m.list.Len())
	assert.Equal(t, 0, m.selected)

	saved, err := prefs.Load(prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "b", saved.Source)

	m = press(t, m, "tab")
	assert.Equal(t, "a", m.active.Name())
	assert.Equal(t, 20, m.list.Len(), "switching back keeps the loaded list")
	assert.Len(t, fa.Queries(), 1)
}

func TestModel_ToggleFavorite(t *testing.T) {
	f := &fakeFetcher{total: 5, size: 20}
	favs := &memFavorites{}
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", f, source.WithFavorites(favs))))
	m = drain(t, m, m.Init())

	m = press(t, m, "j", "f")
	assert.Equal(t, source.FavoriteBadge, m.list.Rows[1].Badge)
	assert.Contains(t, m.flash, "Critter 2")

	m = press(t, m, "f")
	assert.Empty(t, m.list.Rows[1].Badge)
}

func TestModel_ThemeCyclePersists(t *testing.T) {
	m, prefsPath := newTestModel(t, source.NewRegistry(newCatalog("a", &fakeFetcher{total: 1, size: 20})))
	m = drain(t, m, m.Init())

	m = press(t, m, "T")
	assert.Equal(t, "Kanagawa", m.theme.Name)

	saved, err := prefs.Load(prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", saved.Theme)
	assert.Equal(t, "a", saved.Source)
}

func TestModel_LogView(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "roster.log")
	require.NoError(t, os.WriteFile(logPath, []byte(
		`{"level":"warn","source":"a","time":"2026-10-15T09:30:00Z","message":"page fetch failed"}`+"\n"), 0o600))

	reg := source.NewRegistry(newCatalog("a", &fakeFetcher{total: 1, size: 20}))
	m := New(Options{Registry: reg, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"), LogPath: logPath})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Model)

	m = press(t, m, "L")
	assert.Equal(t, ViewLogs, m.currentView)
	require.Len(t, m.logEntries, 1)
	assert.Contains(t, m.View(), "page fetch failed")

	m = press(t, m, "L")
	assert.Equal(t, ViewBrowse, m.currentView)
}

func TestModel_ViewRendersRowsAndHelp(t *testing.T) {
	m, _ := newTestModel(t, source.NewRegistry(newCatalog("a", &fakeFetcher{total: 45, size: 20})))
	assert.Contains(t, m.View(), "roster")

	m = drain(t, m, m.Init())
	view := m.View()
	assert.Contains(t, view, "Critter 1")
	assert.Contains(t, view, "m: load more")

	m = press(t, m, "?")
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = press(t, m, "x")
	assert.False(t, m.showHelp)
}

func TestModel_NoSources(t *testing.T) {
	m := New(Options{Registry: source.NewRegistry()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = next.(Model)
	next, cmd := m.Update(startMsg{})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "No sources configured.", m.View())
	require.Error(t, Run(Options{Registry: source.NewRegistry()}))
}
