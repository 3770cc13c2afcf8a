package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)
	ask := func() string {
		fmt.Print("     > ")
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	fmt.Println()
	fmt.Println("  Welcome to tripplan!")
	fmt.Println()

	// 1. Geoapify key
	fmt.Println("  1. Geoapify API key")
	fmt.Println("     For nearby suggestions (myprojects.geoapify.com).")
	if cfg.Catalog.GeoapifyAPIKey != "" {
		fmt.Printf("     Current: %s\n", cli.MaskKey(cfg.Catalog.GeoapifyAPIKey))
	}
	if key := ask(); key != "" {
		cfg.Catalog.GeoapifyAPIKey = key
	}
	fmt.Println()

	// 2. Unsplash key
	fmt.Println("  2. Unsplash access key")
	fmt.Println("     For place photos (unsplash.com/developers). Optional.")
	if cfg.Catalog.UnsplashAccessKey != "" {
		fmt.Printf("     Current: %s\n", cli.MaskKey(cfg.Catalog.UnsplashAccessKey))
	}
	if key := ask(); key != "" {
		cfg.Catalog.UnsplashAccessKey = key
	}
	fmt.Println()

	// 3. Currency
	fmt.Printf("  3. Currency symbol [%s]\n", cfg.General.Currency)
	if sym := ask(); sym != "" {
		cfg.General.Currency = sym
	}
	fmt.Println()

	// 4. Theme
	fmt.Println("  4. Color theme")
	for i, th := range theme.All {
		suffix := ""
		if th.Name == cfg.Appearance.Theme {
			suffix = " [current]"
		}
		fmt.Printf("     (%d) %s%s\n", i+1, th.Name, suffix)
	}
	choice := ask()
	for i, th := range theme.All {
		if choice == fmt.Sprintf("%d", i+1) {
			cfg.Appearance.Theme = th.Name
		}
	}

	if err := saveConfig(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", configPath())
	fmt.Println("  Run `tripplan setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
