package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the logo, source tabs and paging status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("roster", styles.Logo)}

	tabs := make([]string, 0, len(m.registry.Names()))
	for _, src := range m.registry.All() {
		if src.Name() == m.active.Name() {
			tabs = append(tabs, styles.TabOn.Render(src.Title()))
		} else {
			tabs = append(tabs, styles.Tab.Render(src.Title()))
		}
	}
	parts = append(parts, strings.Join(tabs, bg.Space()))

	if m.isLoading() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText))
	}

	if !compact {
		status := bg.Render(fmt.Sprintf("%d", m.list.Len()), styles.Text) +
			bg.Space() + bg.Render("loaded", styles.MutedText)
		if m.list.CanLoadMore {
			status += bg.Render(" · next page ", styles.FaintText) + bg.Render(fmt.Sprintf("%d", m.list.Page), styles.Text)
		}
		parts = append(parts, status)
	}
	if m.list.Query != "" {
		parts = append(parts, bg.Render("/"+truncate(m.list.Query, 24), styles.AccentText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Padding(0, 1).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the search input, a notice, or key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	bar := styles.Footer.Width(m.width)

	if m.searching {
		hint := bg.Render("  enter apply · esc cancel", styles.FaintText)
		return bar.Render(m.searchInput.View() + hint)
	}
	if m.flash != "" {
		return bar.Render(bg.Render(m.flash, styles.WarningText))
	}

	type cmd struct{ key, desc string }
	var commands []cmd
	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Reload"},
			{"L", "Back"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"/", "Search"},
			{"r", "Refresh"},
			{"tab", "Source"},
			{"f", "Favourite"},
			{"L", "Logs"},
			{"?", "More"},
		}
		if m.list.Err != nil && m.list.Err.Retryable() {
			commands = append([]cmd{{"enter", "Retry"}}, commands...)
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return bar.Render(bg.Join(segments, "  "))
}
