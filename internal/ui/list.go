package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/source"
)

// bodyHeight is the space between header and command bar.
func (m Model) bodyHeight() int {
	return max(m.height-chromeHeight, 3)
}

// listRows is how many rows fit in the list pane, leaving a status line.
func (m Model) listRows() int {
	return max(m.bodyHeight()-3, 1)
}

// renderBrowse renders the list pane and, when there is room, the detail pane.
func (m Model) renderBrowse() string {
	height := m.bodyHeight()
	listWidth := listPaneWidth(m.width)

	listTitle := m.listTitle()
	listPane := m.renderTitledBox(listTitle, m.renderList(listWidth-2), listWidth, height, true)
	if listWidth >= m.width {
		return listPane
	}

	detailWidth := m.width - listWidth
	detailPane := m.renderTitledBox("Details", m.renderDetail(detailWidth-4), detailWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) listTitle() string {
	title := fmt.Sprintf("%s (%d)", m.active.Title(), m.list.Len())
	if m.list.Query != "" {
		title += fmt.Sprintf(" /%s", truncate(m.list.Query, 20))
	}
	return title
}

// renderList renders the visible rows followed by the list status line.
func (m Model) renderList(width int) string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	if m.list.Len() == 0 {
		return m.renderEmptyList(width, bg, styles)
	}

	rows := m.listRows()
	end := min(m.offset+rows, m.list.Len())
	lines := make([]string, 0, rows+1)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.formatRow(m.list.Rows[i], width, i == m.selected))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	lines = append(lines, bg.FillLine(m.listStatus(bg, styles), width))
	return strings.Join(lines, "\n")
}

// formatRow renders "★ Title · Subtitle" with the badge column always reserved.
func (m Model) formatRow(row source.Row, width int, selected bool) string {
	bgColor := m.theme.FocusBg
	var titleStyle, subStyle, badgeStyle lipgloss.Style
	if selected {
		bgColor = m.theme.SelectionBg
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		titleStyle, subStyle, badgeStyle = sel.Bold(true), sel, sel
	} else {
		styles := m.theme.Styles()
		titleStyle, subStyle, badgeStyle = styles.Text, styles.MutedText, styles.WarningText
	}
	bg := NewBgStyle(bgColor)

	badge := row.Badge
	if badge == "" {
		badge = " "
	}
	subWidth := lipgloss.Width(row.Subtitle)
	titleWidth := max(width-subWidth-6, 8)

	line := bg.Render(badge, badgeStyle) + bg.Space() + bg.Render(truncate(row.Title, titleWidth), titleStyle)
	if row.Subtitle != "" {
		line += bg.Render(" · ", subStyle) + bg.Render(row.Subtitle, subStyle)
	}
	return bg.FillLine(line, width)
}

// listStatus is the trailing line: spinner, error banner or paging hint.
func (m Model) listStatus(bg BgStyle, styles Styles) string {
	switch {
	case m.isLoading():
		return bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() + bg.Render("Loading more…", styles.MutedText)
	case m.list.Err != nil:
		return m.errorLine(bg, styles)
	case m.list.CanLoadMore:
		return bg.Render("m: load more", styles.FaintText)
	default:
		return bg.Render(fmt.Sprintf("End of list · %d items", m.list.Len()), styles.FaintText)
	}
}

func (m Model) renderEmptyList(width int, bg BgStyle, styles Styles) string {
	var msg string
	switch {
	case m.isLoading():
		msg = bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
			bg.Render(fmt.Sprintf("Loading %s…", m.active.Title()), styles.MutedText)
	case m.list.Err != nil:
		msg = m.errorLine(bg, styles)
	default:
		msg = bg.Render("Nothing loaded yet · m to load", styles.MutedText)
	}
	return lipgloss.Place(width, m.listRows()+1, lipgloss.Center, lipgloss.Center, msg,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.FocusBg)))
}

func (m Model) errorLine(bg BgStyle, styles Styles) string {
	fe := m.list.Err
	style := styles.DangerText
	if !fe.Retryable() {
		style = styles.WarningText
	}
	line := bg.Render(fe.Message(), style)
	if fe.Retryable() {
		line += bg.Render(" · enter to retry", styles.FaintText)
	}
	return line
}

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight+2)
	lines = append(lines, top)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	lines = append(lines, bottom)
	return strings.Join(lines, "\n")
}
