package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/cli"
)

var flagClearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the destination, itinerary and budget",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&flagClearYes, "yes", "y", false, "Confirm deleting the whole plan")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if !flagClearYes {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.RenderWarning("This deletes the destination, itinerary and budget. Re-run with --yes."))
		return errors.New("refusing to clear the plan without --yes")
	}
	ctx := cmd.Context()
	p, g, err := openPlanner(ctx, "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	if err := p.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Println("  Plan cleared.")
	return nil
}
