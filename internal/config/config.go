package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvAPIURL overrides [api].base_url when set
const EnvAPIURL = "KREPSYS_API_URL"

// APIConfig is the [api] section
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Key     string `toml:"key"`
	Timeout int    `toml:"timeout"` // seconds, 0 keeps the transport default
}

// TUIConfig is the [tui] section
type TUIConfig struct {
	RefreshInterval int    `toml:"refresh_interval"` // Auto-refresh interval in seconds, 0 disables
	Theme           string `toml:"theme"`
	Sort            string `toml:"sort"`
	Sanitize        bool   `toml:"sanitize"`
}

// CacheConfig is the [cache] section
type CacheConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// LogConfig is the [log] section
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// HistoryConfig is the [history] section
type HistoryConfig struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// Config represents the client configuration from config.toml
type Config struct {
	API     APIConfig     `toml:"api"`
	TUI     TUIConfig     `toml:"tui"`
	Cache   CacheConfig   `toml:"cache"`
	Log     LogConfig     `toml:"log"`
	History HistoryConfig `toml:"history"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		API: APIConfig{BaseURL: "http://localhost:8080"},
		TUI: TUIConfig{
			RefreshInterval: 60,
			Theme:           "clean_cyber",
			Sort:            "newest",
			Sanitize:        true,
		},
		Cache:   CacheConfig{MaxEntries: 256},
		Log:     LogConfig{File: filepath.Join(xdgDir("XDG_STATE_HOME", ".local/state"), "krepsys", "krepsys.log"), Level: "info"},
		History: HistoryConfig{Path: filepath.Join(xdgDir("XDG_DATA_HOME", ".local/share"), "krepsys", "history.db"), Enabled: true},
	}
}

// xdgDir resolves an XDG base directory with its home-relative fallback
func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), fallback)
	}
	return filepath.Join(home, fallback)
}

// DefaultPath returns $XDG_CONFIG_HOME/krepsys/config.toml
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "krepsys", "config.toml")
}

// LoadConfig loads configuration from the standard XDG config path with sensible defaults
func LoadConfig() (*Config, error) {
	return Load(DefaultPath())
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); err == nil {
		configData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse TOML config, merging with defaults
		if err := toml.Unmarshal(configData, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if url := os.Getenv(EnvAPIURL); url != "" {
		config.API.BaseURL = url
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects values the client cannot run with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("invalid config: [api].base_url is empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid config: [api].timeout must be >= 0, got %d", c.API.Timeout)
	}
	if c.TUI.RefreshInterval < 0 {
		return fmt.Errorf("invalid config: [tui].refresh_interval must be >= 0, got %d", c.TUI.RefreshInterval)
	}
	switch c.TUI.Sort {
	case "", "newest", "oldest":
	default:
		return fmt.Errorf("invalid config: [tui].sort must be newest or oldest, got %q", c.TUI.Sort)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("invalid config: [cache].max_entries must be > 0, got %d", c.Cache.MaxEntries)
	}
	return nil
}

// GetRefreshInterval returns the configured refresh interval in seconds
// Returns 0 if auto-refresh is disabled
func (c *Config) GetRefreshInterval() int {
	return c.TUI.RefreshInterval
}

// APITimeout returns the request timeout, 0 meaning none beyond the transport's
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.Timeout) * time.Second
}
