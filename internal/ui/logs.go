package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/logtail"
)

// resizeLogViewport fits the viewport inside the log box borders.
func (m *Model) resizeLogViewport() {
	width, height := max(m.width-4, 1), max(m.bodyHeight()-2, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.refreshLogViewport()
}

// refreshLogViewport re-renders the log lines and scrolls to the newest.
func (m *Model) refreshLogViewport() {
	if m.logViewport.Width == 0 {
		return
	}
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	m.logViewport.GotoBottom()
}

func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	if m.logPath == "" {
		return bg.Render("File logging is disabled.", styles.MutedText)
	}
	if m.logErr != nil {
		return bg.Render(fmt.Sprintf("Could not read %s: %v", m.logPath, m.logErr), styles.DangerText)
	}
	if len(m.logEntries) == 0 {
		return bg.Render("No log entries yet.", styles.MutedText)
	}

	lines := make([]string, len(m.logEntries))
	for i, entry := range m.logEntries {
		lines[i] = m.formatLogEntry(entry, bg, styles)
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders "15:04:05 LEVEL message key=value".
func (m *Model) formatLogEntry(e logtail.Entry, bg BgStyle, styles Styles) string {
	if e.Level == "" && e.Message == "" {
		return bg.Render(e.Raw, styles.Text)
	}
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
	}
	if e.Level != "" {
		levelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.LevelColor(e.Level))).Bold(true)
		parts = append(parts, bg.Render(padRight(strings.ToUpper(e.Level), 5), levelStyle))
	}
	parts = append(parts, bg.Render(e.Summary(), styles.Text))
	return strings.Join(parts, bg.Space())
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logPath != "" {
		title = "Log " + truncateMiddle(m.logPath, max(m.width/2, 10))
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.bodyHeight(), true)
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
	case key.Matches(msg, m.keys.Refresh):
		return m, m.readLogsCmd()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.HalfViewDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.HalfViewUp()
	}
	return m, nil
}
