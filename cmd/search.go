package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/planner"
)

var flagSelectPick int

var searchCmd = &cobra.Command{
	Use:   "search <place>",
	Short: "Search destinations by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var selectCmd = &cobra.Command{
	Use:   "select <place>",
	Short: "Search and select the trip destination",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSelect,
}

func init() {
	selectCmd.Flags().IntVar(&flagSelectPick, "pick", 1, "Which search result to select")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(selectCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	progressf("  Searching for %q...\n", query)

	results := newCatalog().SearchByName(cmd.Context(), query)
	if len(results) == 0 {
		fmt.Printf("\n  No places found for %q.\n\n", query)
		return nil
	}

	fmt.Println()
	fmt.Print(renderDestinations(results))
	fmt.Println()
	fmt.Println("  Select one with: tripplan select \"" + query + "\" --pick N")
	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	results := newCatalog().SearchByName(ctx, query)
	if len(results) == 0 {
		return fmt.Errorf("no places found for %q", query)
	}
	if flagSelectPick < 1 || flagSelectPick > len(results) {
		return fmt.Errorf("--pick must be between 1 and %d", len(results))
	}
	d := results[flagSelectPick-1]

	p, g, err := openPlanner(ctx, "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	if err := p.SelectDestination(ctx, d); err != nil {
		return err
	}

	fmt.Printf("\n  Destination: %s (%s)\n", d.Label(), cli.FormatCoord(d.Lat, d.Lon))
	return printSuggestions(ctx, p, d)
}

func renderDestinations(results []model.Destination) string {
	rows := make([][]string, 0, len(results))
	for i, d := range results {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			d.Name,
			d.Country,
			cli.FormatCoord(d.Lat, d.Lon),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:    "Destinations",
		Headers:  []string{"#", "Name", "Country", "Coordinates"},
		Rows:     rows,
		LeftCols: 3,
	})
}

// printSuggestions refreshes suggestions around d and prints them.
func printSuggestions(ctx context.Context, p *planner.Planner, d model.Destination) error {
	progressf("  Finding places nearby...\n")
	if !p.RefreshSuggestions(ctx, d.Lat, d.Lon) {
		return errors.New("suggestion refresh was superseded")
	}
	suggestions := p.Suggestions()
	if len(suggestions) == 0 {
		fmt.Println("  No suggestions nearby.")
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(suggestions))
	for i, s := range suggestions {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cli.Truncate(s.Name, 36),
			s.Type,
			cli.Truncate(s.Address, 40),
			cli.FormatMoney(cfg.General.Currency, s.Cost),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Suggestions",
		Headers:  []string{"#", "Name", "Type", "Address", "Est. cost"},
		Rows:     rows,
		LeftCols: 4,
	}))
	fmt.Println()
	return nil
}
