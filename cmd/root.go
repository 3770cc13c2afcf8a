// Package cmd implements the tripplan CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/catalog"
	"github.com/theirongolddev/tripplan/internal/config"
	"github.com/theirongolddev/tripplan/internal/logging"
	"github.com/theirongolddev/tripplan/internal/planner"
	"github.com/theirongolddev/tripplan/internal/store"
)

var (
	flagConfig    string
	flagBackend   string
	flagDBPath    string
	flagRedisAddr string
	flagLogLevel  string
	flagQuiet     bool
)

// cfg is the effective configuration, loaded before every command runs.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "tripplan",
	Short:             "Trip planner CLI",
	Long:              "Pick a destination, build an itinerary and keep its budget in sync.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite or redis")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagRedisAddr, "redis-addr", "", "Redis address for the redis backend")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// setup loads .env, the config file and flag overrides, then configures
// logging.
func setup(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagDBPath != "" {
		cfg.Storage.SQLitePath = flagDBPath
	}
	if flagRedisAddr != "" {
		cfg.Storage.RedisAddr = flagRedisAddr
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	logging.Configure(cfg.Log.Level)
	return nil
}

func saveConfig() error {
	if flagConfig != "" {
		return config.SaveFile(flagConfig, cfg)
	}
	return config.Save(cfg)
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.Path()
}

func openStore(ctx context.Context) (*store.Gateway, error) {
	return store.Open(ctx, store.Options{
		Backend:     cfg.Storage.Backend,
		SQLitePath:  config.SQLitePath(cfg),
		RedisAddr:   cfg.Storage.RedisAddr,
		RedisDB:     cfg.Storage.RedisDB,
		RedisPrefix: cfg.Storage.RedisPrefix,
	}, logging.Default())
}

func newCatalog() *catalog.Client {
	return catalog.New(catalog.Options{
		GeoapifyKey:      config.GeoapifyKey(cfg),
		UnsplashKey:      config.UnsplashKey(cfg),
		Radius:           cfg.Catalog.RadiusMeters,
		PerCategoryLimit: cfg.Catalog.PerCategoryLimit,
		Timeout:          config.CatalogTimeout(cfg),
		ImagesPerMinute:  cfg.Catalog.ImagesPerMinute,
		Logger:           logging.Default(),
	})
}

// openPlanner opens the store and returns a loaded planner over it. The
// caller closes the gateway.
func openPlanner(ctx context.Context, name string) (*planner.Planner, *store.Gateway, error) {
	g, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	p := planner.New(g, planner.Options{
		Catalog: newCatalog(),
		Logger:  logging.Default(),
		Name:    name,
	})
	if err := p.Load(ctx); err != nil {
		_ = g.Close()
		return nil, nil, fmt.Errorf("loading plan: %w", err)
	}
	return p, g, nil
}

// parsePosition converts a 1-based list position from the command line to
// an index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q (want 1, 2, ...)", s)
	}
	return n - 1, nil
}

func progressf(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
