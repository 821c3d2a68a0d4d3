package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/loader"
)

const detailLabelWidth = 10

// renderDetail renders the selected row's detail.
func (m Model) renderDetail(width int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles()

	row, ok := m.selectedRow()
	if !ok {
		return bg.Render("Select an item", styles.MutedText)
	}

	var b strings.Builder
	switch {
	case m.detailErr != nil:
		b.WriteString(bg.Render(truncate(row.Title, width), styles.Text.Bold(true)))
		b.WriteString("\n\n")
		b.WriteString(bg.Render(detailErrorText(m.detailErr), styles.DangerText))
	case m.detail == nil:
		b.WriteString(bg.Render(truncate(row.Title, width), styles.Text.Bold(true)))
		b.WriteString("\n\n")
		b.WriteString(bg.Render(m.spinner.View(), styles.AccentText))
		b.WriteString(bg.Space())
		b.WriteString(bg.Render("Loading details…", styles.MutedText))
	default:
		d := m.detail
		b.WriteString(bg.Render(truncate(d.Title, width), styles.AccentText.Bold(true)))
		if d.Subtitle != "" {
			b.WriteString(bg.Space())
			b.WriteString(bg.Render(d.Subtitle, styles.MutedText))
		}
		if row.Badge != "" {
			b.WriteString(bg.Space())
			b.WriteString(bg.Render(row.Badge, styles.WarningText))
		}
		b.WriteString("\n\n")
		valueWidth := max(width-detailLabelWidth-1, 8)
		for _, f := range d.Fields {
			if f.Value == "" {
				continue
			}
			valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ToneColor(f.Tone)))
			b.WriteString(bg.Render(padRight(f.Label, detailLabelWidth), styles.MutedText))
			b.WriteString(bg.Space())
			b.WriteString(bg.Render(truncate(f.Value, valueWidth), valueStyle))
			b.WriteString("\n")
		}
		if d.ImageURL != "" {
			b.WriteString("\n")
			b.WriteString(bg.Render(truncateMiddle(d.ImageURL, width), styles.FaintText))
		}
	}
	return b.String()
}

func detailErrorText(err error) string {
	var fe *loader.FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return "Could not load details."
}
