// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chartwright configuration.
type Config struct {
	// Version is the config schema version.
	Version string `toml:"version"`

	// BaseURL is the API origin requests go to. Empty selects the
	// production origin.
	BaseURL string `toml:"base_url"`

	// DefaultModel is the model new messages are addressed to.
	DefaultModel string `toml:"default_model"`

	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`

	// LogFile is where diagnostic logs go. The TUI owns stdout, so logs
	// must go to a file. Empty selects ~/.chartwright/chartwright.log.
	LogFile string `toml:"log_file"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme"`

	// ShowTimestamps renders a timestamp next to each message.
	ShowTimestamps bool `toml:"show_timestamps"`

	// CompactMode collapses the sidebar to titles only.
	CompactMode bool `toml:"compact_mode"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:      "1.0.0",
		BaseURL:      "", // production origin
		DefaultModel: "Chartwright",
		TimeoutSecs:  30,
		LogFile:      "",
		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: false,
			CompactMode:    false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chartwright configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chartwright"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when the file is absent. Environment overrides are applied last, then the
// result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path. A missing
// file is not an error: defaults plus env overrides are returned.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration back to the config file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config for writing: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies CHARTWRIGHT_* environment variables on top of
// whatever was loaded from disk.
func (c *Config) ApplyEnvOverrides() {
	if base := os.Getenv("CHARTWRIGHT_BASE_URL"); base != "" {
		c.BaseURL = base
	}
	if model := os.Getenv("CHARTWRIGHT_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if timeout := os.Getenv("CHARTWRIGHT_TIMEOUT_SECS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.TimeoutSecs = secs
		}
	}
	if logFile := os.Getenv("CHARTWRIGHT_LOG_FILE"); logFile != "" {
		c.LogFile = logFile
	}
	if theme := os.Getenv("CHARTWRIGHT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// SetDefaults fills in anything the file left empty or out of range.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.DefaultModel == "" {
		c.DefaultModel = d.DefaultModel
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = d.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.LogFile == "" {
		if dir, err := ConfigDir(); err == nil {
			c.LogFile = filepath.Join(dir, "chartwright.log")
		}
	}
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base_url %q is not a valid URL", c.BaseURL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base_url scheme %q is not http or https", u.Scheme)
		}
	}
	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q is not %q or %q", c.UI.Theme, "dark", "light")
	}
	if c.TimeoutSecs > 600 {
		return fmt.Errorf("timeout_secs %d exceeds the 600s ceiling", c.TimeoutSecs)
	}
	return nil
}

// =============================================================================
// GLOBAL INSTANCE (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance. Loads configuration on
// first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			cfg.SetDefaults()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
