package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"munifund/internal/format"
	"munifund/internal/model"
)

var tableHeaders = []string{"", "Reference", "Title", "Category", "Status", "Gap", "Committed", "Progress"}

func projectRow(p model.Project) []string {
	star := " "
	if p.IsFavorite {
		star = "★"
	}
	return []string{
		star,
		p.ReferenceID,
		truncate(p.Title, 36),
		p.Category,
		p.Status,
		format.Currency(p.CommitmentGap),
		format.Currency(p.CommittedAmount),
		fmt.Sprintf("%3d%%", format.Progress(p.CommittedAmount, p.CommitmentGap)),
	}
}

// renderTable lays the listing out with per-column widths sized to content.
func renderTable(projects []model.Project, selected int, st styles) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, projectRow(p))
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for i, h := range tableHeaders {
		sb.WriteString(st.Header.Render(pad(h, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(st.Muted.Render(strings.Repeat("─", total)))
	sb.WriteString("\n")

	for idx, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			line.WriteString(pad(cell, widths[i]))
			line.WriteString("  ")
		}
		text := line.String()
		if idx == selected {
			sb.WriteString(st.Selected.Render(text))
		} else {
			sb.WriteString(text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
