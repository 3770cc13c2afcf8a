package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", configPath())
	if flagConfig != "" || config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency: %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Backend: %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == "redis" {
		fmt.Printf("    Redis:   %s (db %d, prefix %q)\n", cfg.Storage.RedisAddr, cfg.Storage.RedisDB, cfg.Storage.RedisPrefix)
	} else {
		fmt.Printf("    SQLite:  %s\n", config.SQLitePath(cfg))
	}
	fmt.Println()

	fmt.Println("  [Catalog]")
	printKey("Geoapify key", config.GeoapifyKey(cfg))
	printKey("Unsplash key", config.UnsplashKey(cfg))
	fmt.Printf("    Radius:       %dm\n", cfg.Catalog.RadiusMeters)
	fmt.Printf("    Per category: %d\n", cfg.Catalog.PerCategoryLimit)
	fmt.Printf("    Timeout:      %s\n", config.CatalogTimeout(cfg))
	fmt.Println()

	fmt.Println("  [Map]")
	fmt.Printf("    Default view: %s @ zoom %d\n", cli.FormatCoord(cfg.Map.DefaultLat, cfg.Map.DefaultLon), cfg.Map.DefaultZoom)
	fmt.Printf("    Focus zoom:   %d\n", cfg.Map.FocusZoom)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", valueOr(cfg.Log.Level, "warn"))
	fmt.Printf("    File:  %s (TUI mode)\n", config.LogFile(cfg))
	fmt.Println()

	fmt.Println("  Run `tripplan setup` to reconfigure.")
	return nil
}

func printKey(label, key string) {
	if key == "" {
		fmt.Printf("    %-13s not configured\n", label+":")
		return
	}
	fmt.Printf("    %-13s %s\n", label+":", cli.MaskKey(key))
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
