package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/logtail"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/source"
)

// Messages

type startMsg struct{}

// listMsg reports that a call on the named source returned.
type listMsg struct {
	source  string
	fetched bool
}

type detailMsg struct {
	source string
	id     int
	detail source.Detail
	err    error
}

type favoriteMsg struct {
	source  string
	id      int
	name    string
	starred bool
	err     error
}

type searchDebounceMsg struct {
	source string
	seq    int
}

type prefsSavedMsg struct {
	err error
}

type logMsg struct {
	entries []logtail.Entry
	err     error
}

type flashExpiredMsg struct {
	seq int
}

// sourceCall is one blocking operation on a source. It reports whether a
// fetch was performed.
type sourceCall func(ctx context.Context, src source.Source) bool

func loadNext(ctx context.Context, src source.Source) bool {
	src.Load(ctx, false, nil)
	return true
}

func refresh(ctx context.Context, src source.Source) bool {
	src.Refresh(ctx)
	return true
}

func search(query string) sourceCall {
	return func(ctx context.Context, src source.Source) bool {
		src.Search(ctx, query)
		return true
	}
}

func loadMoreIfNeeded(id int) sourceCall {
	return func(ctx context.Context, src source.Source) bool {
		_, fetched := src.LoadMoreIfNeeded(ctx, id)
		return fetched
	}
}

// Commands

// dispatch runs call off the update loop and starts the spinner. Every
// dispatched call answers with exactly one listMsg.
func (m *Model) dispatch(src source.Source, call sourceCall) tea.Cmd {
	name := src.Name()
	m.pending[name]++
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg {
			return listMsg{source: name, fetched: call(ctx, src)}
		},
		m.spinner.Tick,
	)
}

// prefetchCmd loads the next page when the selected row sits in the
// prefetch window.
func (m *Model) prefetchCmd() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok || !m.active.ShouldLoadMore(row.ID) {
		return nil
	}
	return m.dispatch(m.active, loadMoreIfNeeded(row.ID))
}

// detailCmd fetches the selected row's detail unless it is already shown.
func (m *Model) detailCmd() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		m.clearDetail()
		return nil
	}
	if row.ID == m.detailID && (m.detail != nil || m.detailErr != nil) {
		return nil
	}
	m.detailID = row.ID
	m.detail, m.detailErr = nil, nil

	src, ctx, id := m.active, m.ctx, row.ID
	return func() tea.Msg {
		d, err := src.Detail(ctx, id)
		return detailMsg{source: src.Name(), id: id, detail: d, err: err}
	}
}

func (m *Model) toggleFavoriteCmd(src source.Source, row source.Row) tea.Cmd {
	return func() tea.Msg {
		starred, err := src.ToggleFavorite(row.ID)
		return favoriteMsg{source: src.Name(), id: row.ID, name: row.Title, starred: starred, err: err}
	}
}

func debounceCmd(sourceName string, seq int) tea.Cmd {
	return tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{source: sourceName, seq: seq}
	})
}

func (m *Model) savePrefsCmd() tea.Cmd {
	path := m.prefsPath
	p := prefs.Prefs{Theme: m.theme.Name}
	if m.active != nil {
		p.Source = m.active.Name()
	}
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

func (m *Model) readLogsCmd() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.Tail(path, LogTailLines)
		return logMsg{entries: entries, err: err}
	}
}

// setFlash shows notice in the command bar until FlashDuration passes.
func (m *Model) setFlash(notice string) tea.Cmd {
	m.flash = notice
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(FlashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}
