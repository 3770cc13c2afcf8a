package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/planner"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "List budget entries and the total",
	RunE:  runBudgetList,
}

var budgetAddCmd = &cobra.Command{
	Use:   "add <name> <amount>",
	Short: "Add a custom expense",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runBudgetAdd,
}

var budgetEditCmd = &cobra.Command{
	Use:   "edit <position> <amount>",
	Short: "Change an expense amount (updates the linked itinerary entry)",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetEdit,
}

var budgetRemoveCmd = &cobra.Command{
	Use:     "rm <position>",
	Aliases: []string{"remove"},
	Short:   "Remove an expense",
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetRemove,
}

func init() {
	budgetCmd.AddCommand(budgetAddCmd, budgetEditCmd, budgetRemoveCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetList(cmd *cobra.Command, _ []string) error {
	p, g, err := openPlanner(cmd.Context(), "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	printBudget(p)
	return nil
}

func runBudgetAdd(cmd *cobra.Command, args []string) error {
	amount, err := cli.ParseAmount(cfg.General.Currency, args[len(args)-1])
	if err != nil {
		return err
	}
	name := strings.Join(args[:len(args)-1], " ")

	ctx := cmd.Context()
	p, g, err := openPlanner(ctx, "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	entry, err := p.AddExpense(ctx, name, amount)
	if err != nil {
		return err
	}
	fmt.Printf("  Added expense %s (%s)\n", entry.Name, cli.FormatMoney(cfg.General.Currency, entry.Amount))
	return nil
}

func runBudgetEdit(cmd *cobra.Command, args []string) error {
	amount, err := cli.ParseAmount(cfg.General.Currency, args[1])
	if err != nil {
		return err
	}
	return withBudgetPosition(cmd, args[0], func(p *planner.Planner, i int) error {
		if err := p.EditBudgetAmount(cmd.Context(), i, amount); err != nil {
			return err
		}
		e := p.Budget()[i]
		fmt.Printf("  %s: %s\n", e.Name, cli.FormatMoney(cfg.General.Currency, e.Amount))
		return nil
	})
}

func runBudgetRemove(cmd *cobra.Command, args []string) error {
	return withBudgetPosition(cmd, args[0], func(p *planner.Planner, i int) error {
		name := p.Budget()[i].Name
		if err := p.RemoveBudgetEntry(cmd.Context(), i); err != nil {
			return err
		}
		fmt.Printf("  Removed expense %s\n", name)
		return nil
	})
}

func withBudgetPosition(cmd *cobra.Command, pos string, fn func(*planner.Planner, int) error) error {
	i, err := parsePosition(pos)
	if err != nil {
		return err
	}
	p, g, err := openPlanner(cmd.Context(), "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	if i >= len(p.Budget()) {
		return fmt.Errorf("%w: position %s of %d", planner.ErrIndexOutOfRange, pos, len(p.Budget()))
	}
	return fn(p, i)
}

func printBudget(p *planner.Planner) {
	entries := p.Budget()
	if len(entries) == 0 {
		fmt.Println("\n  No expenses yet. Add one with: tripplan budget add <name> <amount>")
		fmt.Println()
		return
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cli.Truncate(e.Name, 36),
			kindOf(e),
			cli.FormatMoney(cfg.General.Currency, e.Amount),
		})
	}
	rows = append(rows, []string{"", "Total", "", cli.FormatDecimal(cfg.General.Currency, p.BudgetTotal())})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Budget",
		Headers:  []string{"#", "Name", "Kind", "Amount"},
		Rows:     rows,
		LeftCols: 3,
	}))
	fmt.Println()
}

func kindOf(e model.BudgetEntry) string {
	if e.IsCustom {
		return "custom"
	}
	return "itinerary"
}
