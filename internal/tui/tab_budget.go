package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/tui/components"
	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

type budgetState struct {
	cursor      int
	editing     bool
	amountInput textinput.Model
}

func newBudgetState() budgetState {
	ti := textinput.New()
	ti.Placeholder = "amount"
	ti.CharLimit = 20
	ti.Width = 16
	ti.Prompt = "= "
	return budgetState{amountInput: ti}
}

func (s *budgetState) clampCursor(n int) {
	s.cursor = min(max(s.cursor, 0), max(n-1, 0))
}

// updateAmountInput handles keys while an amount is being edited.
func (a App) updateAmountInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bs := &a.budgetState
	switch msg.String() {
	case "esc":
		bs.editing = false
		bs.amountInput.Blur()
		return a, nil
	case "enter":
		bs.editing = false
		bs.amountInput.Blur()
		amount, err := cli.ParseAmount(a.currency, bs.amountInput.Value())
		if err != nil {
			return a, nil
		}
		a.report(a.budget.EditBudgetAmount(context.Background(), bs.cursor, amount))
		return a, nil
	}

	var cmd tea.Cmd
	bs.amountInput, cmd = bs.amountInput.Update(msg)
	return a, cmd
}

func (a *App) updateBudgetTab(key string) (bool, tea.Cmd) {
	bs := &a.budgetState
	entries := a.budget.Budget()

	switch key {
	case "a":
		return true, a.openExpenseForm()
	case "j", "down":
		bs.cursor++
		bs.clampCursor(len(entries))
		return true, nil
	case "k", "up":
		bs.cursor--
		bs.clampCursor(len(entries))
		return true, nil
	case "e", "enter":
		if bs.cursor >= len(entries) {
			return true, nil
		}
		bs.editing = true
		bs.amountInput.SetValue(fmt.Sprintf("%g", entries[bs.cursor].Amount))
		bs.amountInput.CursorEnd()
		return true, bs.amountInput.Focus()
	case "d", "delete":
		a.report(a.budget.RemoveBudgetEntry(context.Background(), bs.cursor))
		bs.clampCursor(len(a.budget.Budget()))
		return true, nil
	}
	return false, nil
}

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	bs := a.budgetState
	entries := a.budget.Budget()
	total := a.budget.BudgetTotal()
	inner := components.CardInnerWidth(cw)

	custom := 0
	for _, e := range entries {
		if e.IsCustom {
			custom++
		}
	}
	stats := components.StatCardRow([]components.Stat{
		{Label: "Total", Value: cli.FormatDecimal(a.currency, total)},
		{Label: "Expenses", Value: cli.FormatNumber(int64(len(entries)))},
		{Label: "Custom", Value: cli.FormatNumber(int64(custom)), Note: "not on the itinerary"},
	}, cw)

	var body strings.Builder
	if len(entries) == 0 {
		body.WriteString(mutedLine("No expenses yet. Press a to add one."))
	} else {
		customStyle := lipgloss.NewStyle().Foreground(t.Custom).Background(t.Surface)
		totalF := total.InexactFloat64()
		labelW := max(inner/3, 12)
		barW := max(inner-labelW-28, 8)
		for i, e := range entries {
			share := 0.0
			if totalF > 0 {
				share = e.Amount / totalF
			}
			value := a.money(e.Amount)
			if bs.editing && i == bs.cursor {
				value = bs.amountInput.View()
			}
			marker := "  "
			if i == bs.cursor {
				marker = "▸ "
			}
			body.WriteString(mutedLine(marker))
			body.WriteString(components.ShareBar(e.Name, share, value, labelW, barW))
			if e.IsCustom {
				body.WriteString(customStyle.Render(" custom"))
			}
			if i < len(entries)-1 {
				body.WriteString("\n")
			}
		}
	}

	return stats + "\n" + components.ContentCard("Budget", body.String(), cw)
}
