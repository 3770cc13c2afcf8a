// Package config loads and saves the tripplan TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all tripplan configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Storage    StorageConfig    `toml:"storage"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Map        MapConfig        `toml:"map"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency string `toml:"currency"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend     string `toml:"backend"` // "sqlite" or "redis"
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	RedisAddr   string `toml:"redis_addr,omitempty"`
	RedisDB     int    `toml:"redis_db,omitempty"`
	RedisPrefix string `toml:"redis_prefix,omitempty"`
}

// CatalogConfig holds settings for the geocoding, places and image APIs.
type CatalogConfig struct {
	GeoapifyAPIKey    string `toml:"geoapify_api_key,omitempty"`
	UnsplashAccessKey string `toml:"unsplash_access_key,omitempty"`
	RadiusMeters      int    `toml:"radius_meters"`
	PerCategoryLimit  int    `toml:"per_category_limit"`
	TimeoutSec        int    `toml:"timeout_sec"`
	ImagesPerMinute   int    `toml:"images_per_minute"`
}

// MapConfig holds the map viewer defaults.
type MapConfig struct {
	DefaultLat  float64 `toml:"default_lat"`
	DefaultLon  float64 `toml:"default_lon"`
	DefaultZoom int     `toml:"default_zoom"`
	FocusZoom   int     `toml:"focus_zoom"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `toml:"level,omitempty"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "₹",
		},
		Storage: StorageConfig{
			Backend:     "sqlite",
			RedisAddr:   "127.0.0.1:6379",
			RedisPrefix: "tripplan:",
		},
		Catalog: CatalogConfig{
			RadiusMeters:     8000,
			PerCategoryLimit: 3,
			TimeoutSec:       10,
			ImagesPerMinute:  50,
		},
		Map: MapConfig{
			DefaultLat:  20.5937,
			DefaultLon:  78.9629,
			DefaultZoom: 3,
			FocusZoom:   10,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripplan")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG-compliant data directory holding the trip
// database and log file.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "tripplan")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // config path is configured by the local user
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path, creating the directory if needed.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GeoapifyKey returns the places API key from env var or config, in that order.
func GeoapifyKey(cfg Config) string {
	if key := os.Getenv("GEOAPIFY_API_KEY"); key != "" {
		return key
	}
	return cfg.Catalog.GeoapifyAPIKey
}

// UnsplashKey returns the image API key from env var or config, in that order.
func UnsplashKey(cfg Config) string {
	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		return key
	}
	return cfg.Catalog.UnsplashAccessKey
}

// SQLitePath returns the configured database path or the default under CacheDir.
func SQLitePath(cfg Config) string {
	if cfg.Storage.SQLitePath != "" {
		return cfg.Storage.SQLitePath
	}
	return filepath.Join(CacheDir(), "trip.db")
}

// LogFile returns the configured log file or the default under CacheDir.
func LogFile(cfg Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(CacheDir(), "tripplan.log")
}

// CatalogTimeout returns the per-request timeout for catalog calls.
func CatalogTimeout(cfg Config) time.Duration {
	if cfg.Catalog.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.Catalog.TimeoutSec) * time.Second
}
