package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the trip at a glance",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	p, g, err := openPlanner(ctx, "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	d, ok, err := p.CurrentDestination(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TRIP STATUS"))
	fmt.Println()

	if !ok {
		fmt.Println(cli.RenderMuted("No destination selected."))
		fmt.Println()
		fmt.Println("  Get started:")
		fmt.Println("    tripplan select <place>      (CLI)")
		fmt.Println("    tripplan tui                 (interactive)")
		fmt.Println()
	} else {
		fmt.Printf("  Destination: %s (%s)\n\n", d.Label(), cli.FormatCoord(d.Lat, d.Lon))
	}

	entries := p.Itinerary()
	completed := 0
	for _, e := range entries {
		if e.Completed {
			completed++
		}
	}
	budget := p.Budget()
	total := p.BudgetTotal()
	currency := cfg.General.Currency

	rows := [][]string{
		{"Itinerary entries", cli.FormatNumber(int64(len(entries)))},
		{"Completed", fmt.Sprintf("%d/%d", completed, len(entries))},
		{"Expenses", cli.FormatNumber(int64(len(budget)))},
		{"Budget total", cli.FormatDecimal(currency, total)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Plan",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if totalF := total.InexactFloat64(); totalF > 0 {
		shares := make([][]string, 0, len(budget))
		for _, e := range budget {
			pct := e.Amount / totalF
			shares = append(shares, []string{
				cli.Truncate(e.Name, 30),
				cli.FormatPercent(pct),
				cli.RenderHorizontalBar(e.Amount, totalF, 20),
				cli.RenderMoney(currency, e.Amount),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Where the money goes",
			Headers: []string{"Expense", "Share", "Bar", "Amount"},
			Rows:    shares,
		}))
	}
	fmt.Println()
	return nil
}
