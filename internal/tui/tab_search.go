package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/tui/components"
	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

type searchState struct {
	input     textinput.Model
	results   []model.Destination
	cursor    int
	searching bool
	lastQuery string
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "City, region or landmark"
	ti.CharLimit = 120
	ti.Width = 40
	ti.Prompt = "› "
	return searchState{input: ti}
}

// updateSearchInput handles keys while the query input is focused.
func (a App) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searchState.input.Blur()
		return a, nil
	case "enter":
		query := strings.TrimSpace(a.searchState.input.Value())
		a.searchState.input.Blur()
		if query == "" {
			a.searchState.results = nil
			a.searchState.lastQuery = ""
			return a, nil
		}
		a.searchState.searching = true
		return a, searchCmd(a.search, query)
	}

	var cmd tea.Cmd
	a.searchState.input, cmd = a.searchState.input.Update(msg)
	return a, cmd
}

func (a *App) updateSearchTab(key string) (bool, tea.Cmd) {
	ss := &a.searchState
	switch key {
	case "/":
		return true, ss.input.Focus()
	case "j", "down":
		if ss.cursor < len(ss.results)-1 {
			ss.cursor++
		}
		return true, nil
	case "k", "up":
		if ss.cursor > 0 {
			ss.cursor--
		}
		return true, nil
	case "enter":
		if ss.cursor < len(ss.results) {
			return true, a.selectDestination(ss.results[ss.cursor])
		}
		return true, ss.input.Focus()
	}
	return false, nil
}

func (a App) renderSearchTab(cw int) string {
	t := theme.Active
	ss := a.searchState
	inner := components.CardInnerWidth(cw)

	ss.input.Width = max(inner-4, 10)
	query := ss.input.View()
	if !ss.input.Focused() {
		query += mutedLine("   / to type")
	}

	var body strings.Builder
	switch {
	case ss.searching:
		body.WriteString(a.spinner.View() + mutedLine(" Searching…"))
	case ss.lastQuery == "":
		body.WriteString(mutedLine("Search for a place to start planning."))
	case len(ss.results) == 0:
		body.WriteString(mutedLine(fmt.Sprintf("No places found for %q.", ss.lastQuery)))
	default:
		coordStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		nameW := max(inner-24, 12)
		for i, d := range ss.results {
			line := fmt.Sprintf("%-*s", nameW, cli.Truncate(d.Label(), nameW))
			body.WriteString(cursorLine(i == ss.cursor, line))
			body.WriteString(coordStyle.Render(" " + cli.FormatCoord(d.Lat, d.Lon)))
			if i < len(ss.results)-1 {
				body.WriteString("\n")
			}
		}
	}

	return components.ContentCard("Destination", query, cw) + "\n" +
		components.ContentCard("Results", body.String(), cw)
}
