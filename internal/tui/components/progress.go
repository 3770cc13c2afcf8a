package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

// ProgressBar renders a completion bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clampPct(pct)
	filled := min(max(int(pct*float64(width)), 0), width)

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.ProgressHigh
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.ProgressLow
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForShare returns a color for an entry's share of the total budget:
// larger shares are warmer.
func ColorForShare(pct float64) string {
	return string(theme.Active.ShareColor(pct))
}

// ShareBar renders a labelled bar for one entry's share of a total,
// followed by the percentage and a trailing value.
func ShareBar(label string, pct float64, value string, labelW, barWidth int) string {
	t := theme.Active
	pct = clampPct(pct)

	bar := progress.New(
		progress.WithSolidFill(ColorForShare(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForShare(pct))).Background(t.Surface).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100)) +
		spaceStyle.Render("  ") +
		valueStyle.Render(value)
}

func clampPct(pct float64) float64 {
	return min(max(pct, 0), 1)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
