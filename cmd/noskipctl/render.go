package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"noskip/internal/stats"
)

var (
	colorBorder = lipgloss.Color("#3F3F46")
	colorText   = lipgloss.Color("#F4F4F5")
	colorMuted  = lipgloss.Color("#A1A1AA")
	colorAccent = lipgloss.Color("#10B981")
	colorGreen  = lipgloss.Color("#22C55E")
	colorAmber  = lipgloss.Color("#F59E0B")
	colorRed    = lipgloss.Color("#EF4444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	dimStyle   = lipgloss.NewStyle().Foreground(colorBorder)
)

// statusStyle maps a budget status to its traffic-light color.
func statusStyle(s stats.Status) lipgloss.Style {
	switch s {
	case stats.StatusRed:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	case stats.StatusAmber:
		return lipgloss.NewStyle().Foreground(colorAmber)
	default:
		return lipgloss.NewStyle().Foreground(colorGreen)
	}
}

func renderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(50).
		Align(lipgloss.Center).
		Padding(0, 1)
	return border.Render(titleStyle.Render(title))
}

// cell is one table value with an optional style; the zero style means
// plain text.
type cell struct {
	text  string
	style *lipgloss.Style
}

func plain(s string) cell { return cell{text: s} }

func styled(s string, st lipgloss.Style) cell { return cell{text: s, style: &st} }

type table struct {
	headers []string
	rows    [][]cell
}

// render draws a bordered table. The first column is left aligned, the
// rest right aligned. Widths are measured before styling.
func (t table) render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c.text))
			}
		}
	}

	line := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	pad := func(i int, s string) string {
		gap := strings.Repeat(" ", widths[i]-lipgloss.Width(s))
		if i == 0 {
			return " " + s + gap + " "
		}
		return " " + gap + s + " "
	}

	var b strings.Builder
	b.WriteString(line("╭", "┬", "╮"))

	b.WriteString(dimStyle.Render("│"))
	for i, h := range t.headers {
		b.WriteString(headerStyle.Render(pad(i, h)))
		b.WriteString(dimStyle.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(line("├", "┼", "┤"))

	for _, row := range t.rows {
		b.WriteString(dimStyle.Render("│"))
		for i := range widths {
			c := plain("")
			if i < len(row) {
				c = row[i]
			}
			st := valueStyle
			if c.style != nil {
				st = *c.style
			}
			b.WriteString(st.Render(pad(i, c.text)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}
	b.WriteString(line("╰", "┴", "╯"))
	return b.String()
}

// progressBar draws percent (0..100) as a fixed width bar.
func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}
