package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/tui/components"
	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

type itineraryState struct {
	entryCursor      int
	suggestionCursor int
	onSuggestions    bool
}

func (s *itineraryState) clampEntryCursor(n int) {
	s.entryCursor = min(max(s.entryCursor, 0), max(n-1, 0))
}

func (s *itineraryState) clampSuggestionCursor(n int) {
	s.suggestionCursor = min(max(s.suggestionCursor, 0), max(n-1, 0))
}

func (a *App) updateItineraryTab(key string) (bool, tea.Cmd) {
	ctx := context.Background()
	st := &a.itinState
	entries := a.itin.Itinerary()
	suggestions := a.itin.Suggestions()

	switch key {
	case "a":
		return true, a.openEntryForm()
	case "S":
		st.onSuggestions = !st.onSuggestions
		return true, nil
	case "r":
		if a.hasDestination {
			return true, refreshSuggestionsCmd(a.itin, a.destination)
		}
		return true, nil
	case "j", "down":
		if st.onSuggestions {
			st.suggestionCursor++
			st.clampSuggestionCursor(len(suggestions))
		} else {
			st.entryCursor++
			st.clampEntryCursor(len(entries))
		}
		return true, nil
	case "k", "up":
		if st.onSuggestions {
			st.suggestionCursor--
			st.clampSuggestionCursor(len(suggestions))
		} else {
			st.entryCursor--
			st.clampEntryCursor(len(entries))
		}
		return true, nil
	}

	if st.onSuggestions {
		if key == "enter" && st.suggestionCursor < len(suggestions) {
			s := suggestions[st.suggestionCursor]
			_, err := a.itin.AddEntry(ctx, s.Name, s.Cost, s.Address, s.Image)
			a.report(err)
			st.clampSuggestionCursor(len(a.itin.Suggestions()))
			return true, nil
		}
		return false, nil
	}

	switch key {
	case " ", "space", "x", "enter":
		a.report(a.itin.ToggleComplete(ctx, st.entryCursor))
		return true, nil
	case "d", "delete":
		a.report(a.itin.RemoveItineraryEntry(ctx, st.entryCursor))
		st.clampEntryCursor(len(a.itin.Itinerary()))
		return true, nil
	}
	return false, nil
}

func (a App) renderItineraryTab(cw int) string {
	t := theme.Active
	st := a.itinState
	entries := a.itin.Itinerary()
	inner := components.CardInnerWidth(cw)

	completed := 0
	planned := 0.0
	for _, e := range entries {
		if e.Completed {
			completed++
		}
		planned += e.CostValue()
	}
	pct := 0.0
	if len(entries) > 0 {
		pct = float64(completed) / float64(len(entries))
	}

	stats := components.StatCardRow([]components.Stat{
		{Label: "Entries", Value: cli.FormatNumber(int64(len(entries)))},
		{Label: "Completed", Value: fmt.Sprintf("%d/%d", completed, len(entries))},
		{Label: "Planned cost", Value: a.money(planned)},
	}, cw)

	doneStyle := lipgloss.NewStyle().Foreground(t.Done).Background(t.Surface)
	todoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	costStyle := lipgloss.NewStyle().Foreground(t.Money).Background(t.Surface)

	var list strings.Builder
	if len(entries) == 0 {
		list.WriteString(mutedLine("Nothing planned yet. Press a to add an entry."))
	} else {
		list.WriteString(components.ProgressBar(pct, max(inner-6, 10)))
		list.WriteString("\n\n")
		costW := 14
		nameW := max(inner-costW-6, 10)
		for i, e := range entries {
			box := todoStyle.Render("[ ] ")
			if e.Completed {
				box = doneStyle.Render("[x] ")
			}
			line := fmt.Sprintf("%-*s", nameW, cli.Truncate(e.Name, nameW))
			list.WriteString(cursorLine(!st.onSuggestions && i == st.entryCursor, box+line))
			list.WriteString(costStyle.Render(fmt.Sprintf("%*s", costW, a.money(e.CostValue()))))
			if e.Address != "" {
				list.WriteString("\n")
				list.WriteString(mutedLine("      " + cli.Truncate(e.Address, inner-6)))
			}
			if i < len(entries)-1 {
				list.WriteString("\n")
			}
		}
	}

	return stats + "\n" +
		components.ContentCard("Itinerary", list.String(), cw) + "\n" +
		components.ContentCard("Suggestions nearby", a.renderSuggestions(inner), cw)
}

func (a App) renderSuggestions(inner int) string {
	t := theme.Active
	st := a.itinState

	if a.itin.Loading() {
		return a.spinner.View() + mutedLine(" Finding places nearby…")
	}
	suggestions := a.itin.Suggestions()
	if len(suggestions) == 0 {
		if !a.hasDestination {
			return mutedLine("Select a destination to see suggestions.")
		}
		return mutedLine("No suggestions. Press r to retry.")
	}

	typeStyle := lipgloss.NewStyle().Foreground(t.Category).Background(t.Surface)
	costStyle := lipgloss.NewStyle().Foreground(t.Money).Background(t.Surface)

	var b strings.Builder
	if !st.onSuggestions {
		b.WriteString(mutedLine("S to browse · enter adds to the itinerary"))
		b.WriteString("\n")
	}
	nameW := max(inner-34, 10)
	for i, s := range suggestions {
		line := fmt.Sprintf("%-*s", nameW, cli.Truncate(s.Name, nameW))
		b.WriteString(cursorLine(st.onSuggestions && i == st.suggestionCursor, line))
		b.WriteString(typeStyle.Render(fmt.Sprintf(" %-14s", cli.Truncate(s.Type, 14))))
		b.WriteString(costStyle.Render(fmt.Sprintf("%14s", a.money(s.Cost))))
		if i < len(suggestions)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
