package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	barWidth    = 20
)

// paint renders s with style, or returns it unchanged in plain mode.
func (a *App) paint(style lipgloss.Style, s string) string {
	if !a.Color {
		return s
	}
	return style.Render(s)
}

func (a *App) header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", a.paint(styleHeader, upper), a.paint(styleDim, line))
}

// totalLabel colors a distribution total green at exactly 100, red otherwise.
func (a *App) totalLabel(total int) string {
	label := fmt.Sprintf("%d%%", total)
	if total == 100 {
		return a.paint(styleGreen, label)
	}
	return a.paint(styleRed, label)
}

// bar renders a share of 0..100 as a fixed-width block bar.
func (a *App) bar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * barWidth / 100
	b := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)
	return fmt.Sprintf("[%s] %3d%%", a.paint(styleGreen, b), pct)
}

// table renders an aligned table with a header separator line. Widths are
// measured on visible characters so styled cells line up.
func (a *App) table(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = a.paint(*style, cell)
			}
			b.WriteString(cell)
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", max(pad, 0)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, &styleHeader)
	for i, w := range widths {
		b.WriteString(a.paint(styleDim, strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}
