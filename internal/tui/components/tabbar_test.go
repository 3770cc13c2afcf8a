package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

func TestRenderTabBarWidthMatchesTabWidths(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for active := range Tabs {
		want := len(Tabs) - 1 // separators
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		bar := RenderTabBar(active, want)
		if got := lipgloss.Width(bar); got != want {
			t.Fatalf("active=%d: bar width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	tests := map[rune]int{'s': 0, 'm': 1, 'i': 2, 'b': 3, 'x': -1}
	for key, want := range tests {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestRenderStatusBarFillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for _, errMsg := range []string{"", "disk full"} {
		bar := RenderStatusBar(60, "[?]help  [q]uit", "Pune, India", errMsg)
		if got := lipgloss.Width(bar); got != 60 {
			t.Errorf("errMsg=%q: width %d, want 60", errMsg, got)
		}
	}
}
