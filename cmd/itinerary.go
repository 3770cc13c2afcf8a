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

var (
	flagEntryCost    string
	flagEntryAddress string
	flagEntryImage   string
)

var itineraryCmd = &cobra.Command{
	Use:     "itinerary",
	Aliases: []string{"it"},
	Short:   "List itinerary entries",
	RunE:    runItineraryList,
}

var itineraryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an itinerary entry and its budget line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runItineraryAdd,
}

var itineraryRemoveCmd = &cobra.Command{
	Use:     "rm <position>",
	Aliases: []string{"remove"},
	Short:   "Remove an itinerary entry and its budget lines",
	Args:    cobra.ExactArgs(1),
	RunE:    runItineraryRemove,
}

var itineraryToggleCmd = &cobra.Command{
	Use:   "toggle <position>",
	Short: "Mark an itinerary entry done or not done",
	Args:  cobra.ExactArgs(1),
	RunE:  runItineraryToggle,
}

func init() {
	itineraryAddCmd.Flags().StringVar(&flagEntryCost, "cost", "0", "Estimated cost")
	itineraryAddCmd.Flags().StringVar(&flagEntryAddress, "address", "", "Address")
	itineraryAddCmd.Flags().StringVar(&flagEntryImage, "image", "", "Image URL")

	itineraryCmd.AddCommand(itineraryAddCmd, itineraryRemoveCmd, itineraryToggleCmd)
	rootCmd.AddCommand(itineraryCmd)
}

func runItineraryList(cmd *cobra.Command, _ []string) error {
	p, g, err := openPlanner(cmd.Context(), "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	printItinerary(p.Itinerary())
	return nil
}

func runItineraryAdd(cmd *cobra.Command, args []string) error {
	cost, err := cli.ParseAmount(cfg.General.Currency, flagEntryCost)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p, g, err := openPlanner(ctx, "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	entry, err := p.AddEntry(ctx, strings.Join(args, " "), cost, flagEntryAddress, flagEntryImage)
	if err != nil {
		return err
	}
	fmt.Printf("  Added %s (%s)\n", entry.Name, cli.FormatMoney(cfg.General.Currency, entry.CostValue()))
	return nil
}

func runItineraryRemove(cmd *cobra.Command, args []string) error {
	return withItineraryPosition(cmd, args[0], func(p *planner.Planner, i int) error {
		name := p.Itinerary()[i].Name
		if err := p.RemoveItineraryEntry(cmd.Context(), i); err != nil {
			return err
		}
		fmt.Printf("  Removed %s\n", name)
		return nil
	})
}

func runItineraryToggle(cmd *cobra.Command, args []string) error {
	return withItineraryPosition(cmd, args[0], func(p *planner.Planner, i int) error {
		if err := p.ToggleComplete(cmd.Context(), i); err != nil {
			return err
		}
		e := p.Itinerary()[i]
		state := "not done"
		if e.Completed {
			state = "done"
		}
		fmt.Printf("  %s: %s\n", e.Name, state)
		return nil
	})
}

// withItineraryPosition opens the planner and runs fn with a validated
// entry index.
func withItineraryPosition(cmd *cobra.Command, pos string, fn func(*planner.Planner, int) error) error {
	i, err := parsePosition(pos)
	if err != nil {
		return err
	}
	p, g, err := openPlanner(cmd.Context(), "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	if i >= len(p.Itinerary()) {
		return fmt.Errorf("%w: position %s of %d", planner.ErrIndexOutOfRange, pos, len(p.Itinerary()))
	}
	return fn(p, i)
}

func printItinerary(entries []model.ItineraryEntry) {
	if len(entries) == 0 {
		fmt.Println("\n  Nothing planned yet. Add one with: tripplan itinerary add <name> --cost N")
		fmt.Println()
		return
	}

	completed := 0
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		done := "[ ]"
		if e.Completed {
			done = "[x]"
			completed++
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			done,
			cli.Truncate(e.Name, 36),
			cli.Truncate(e.Address, 40),
			cli.FormatMoney(cfg.General.Currency, e.CostValue()),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Itinerary",
		Headers:  []string{"#", "Done", "Name", "Address", "Cost"},
		Rows:     rows,
		LeftCols: 4,
	}))
	fmt.Printf("  %s done\n\n", cli.RenderProgressBar(completed, len(entries), 24))
}
