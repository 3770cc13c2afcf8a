package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// state on the right. A non-empty errMsg replaces the right side.
func RenderStatusBar(width int, hints, right, errMsg string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " " + hints
	if errMsg != "" {
		right = lipgloss.NewStyle().Foreground(t.Error).Background(t.Surface).Render(errMsg)
	}
	right += " "

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
