package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/config"
	"github.com/theirongolddev/tripplan/internal/logging"
	"github.com/theirongolddev/tripplan/internal/planner"
	"github.com/theirongolddev/tripplan/internal/tui"
	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive trip planner",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// The TUI owns the terminal; logs go to a file.
	logf, err := logging.ToFile(config.LogFile(cfg), cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logf.Close() }()

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	ctx := cmd.Context()
	g, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	bus := planner.NewBus()
	catalog := newCatalog()
	newPlanner := func(name string) *planner.Planner {
		return planner.New(g, planner.Options{Catalog: catalog, Bus: bus, Logger: logging.Default(), Name: name})
	}

	app, err := tui.NewApp(ctx, tui.Config{
		Itinerary: newPlanner("tui-itinerary"),
		Budget:    newPlanner("tui-budget"),
		Bus:       bus,
		Searcher:  catalog,
		Map:       mapDefaults(),
		Currency:  cfg.General.Currency,
		NeedSetup: flagConfig == "" && !config.Exists(),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
