// Package config loads and saves estalvi settings and holds the per-bucket tables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultSource is where the input file is looked for when nothing is configured.
const DefaultSource = "data/data.csv"

// Config holds all estalvi configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Daemon     DaemonConfig     `toml:"daemon"`
	TUI        TUIConfig        `toml:"tui"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds data source and forecast preferences.
type GeneralConfig struct {
	Source        string `toml:"source,omitempty"`
	Seed          uint64 `toml:"seed,omitempty"`
	DefaultPeriod string `toml:"default_period"`
	TimeoutSec    int    `toml:"timeout_sec"`
}

// DaemonConfig holds HTTP daemon settings.
type DaemonConfig struct {
	Addr               string `toml:"addr"`
	RefreshIntervalSec int    `toml:"refresh_interval_sec"`
	EventsBuffer       int    `toml:"events_buffer"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultPeriod: "nextYear",
			TimeoutSec:    10,
		},
		Daemon: DaemonConfig{
			Addr:               "127.0.0.1:8788",
			RefreshIntervalSec: 60,
			EventsBuffer:       100,
		},
		TUI: TUIConfig{
			RefreshIntervalSec: 60,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "estalvi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "estalvi")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config location
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating the parent directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
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

// GetSource returns the data source from env var, config, or the default
// location, in that order.
func GetSource(cfg Config) string {
	if src := strings.TrimSpace(os.Getenv("ESTALVI_SOURCE")); src != "" {
		return src
	}
	if cfg.General.Source != "" {
		return cfg.General.Source
	}
	return DefaultSource
}

// GetSeed returns the random seed from env var or config. Zero means
// "use system entropy".
func GetSeed(cfg Config) uint64 {
	if raw := strings.TrimSpace(os.Getenv("ESTALVI_SEED")); raw != "" {
		if seed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return seed
		}
	}
	return cfg.General.Seed
}
