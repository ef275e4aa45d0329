// Package config handles loading and saving edgerecord configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/edgerecord/config.yaml
//   - State:  ~/.local/state/edgerecord/ (debug log)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

const appName = "edgerecord"

// Bottom tabs of the demo.
const (
	TabOutcome = "outcome"
	TabSetup   = "setup"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultScenario    string `yaml:"default_scenario,omitempty"`      // smart-city, utility
	DarkMode           bool   `yaml:"dark_mode,omitempty"`             // Start in dark mode
	ClearFocusOnSwitch bool   `yaml:"clear_focus_on_switch,omitempty"` // Drop focused component when the scenario changes
	DefaultTab         string `yaml:"default_tab,omitempty"`           // outcome, setup
}

// TimingConfig holds animation intervals in milliseconds.
type TimingConfig struct {
	PulseMs        int `yaml:"pulse_ms,omitempty"`
	TimelineMs     int `yaml:"timeline_ms,omitempty"`
	MetricsMs      int `yaml:"metrics_ms,omitempty"`
	CopyFeedbackMs int `yaml:"copy_feedback_ms,omitempty"`
}

// FixturesConfig points at an optional fixture override file.
type FixturesConfig struct {
	OverridePath string `yaml:"override_path,omitempty"`
	Watch        bool   `yaml:"watch,omitempty"` // Reload the override when it changes
}

// Config is the top-level configuration for edgerecord.
type Config struct {
	UI       UIConfig       `yaml:"ui,omitempty"`
	Timing   TimingConfig   `yaml:"timing,omitempty"`
	Fixtures FixturesConfig `yaml:"fixtures,omitempty"`
}

// DefaultConfig returns a Config with the demo's stock timings.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultScenario: string(fixture.DefaultScenario),
			DefaultTab:      TabOutcome,
		},
		Timing: TimingConfig{
			PulseMs:        1500,
			TimelineMs:     2000,
			MetricsMs:      2000,
			CopyFeedbackMs: 2000,
		},
		Fixtures: FixturesConfig{
			Watch: true,
		},
	}
}

// ConfigDir returns the XDG config directory for edgerecord.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for edgerecord.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist. Fields left unset keep
// their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.Fixtures.OverridePath = expandHome(cfg.Fixtures.OverridePath)
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Validate rejects values the UI cannot honour.
func (c Config) Validate() error {
	if c.UI.DefaultScenario != "" {
		if _, err := fixture.ParseScenario(c.UI.DefaultScenario); err != nil {
			return fmt.Errorf("ui.default_scenario: %w", err)
		}
	}
	switch c.UI.DefaultTab {
	case "", TabOutcome, TabSetup:
	default:
		return fmt.Errorf("ui.default_tab: unknown tab %q", c.UI.DefaultTab)
	}
	for name, ms := range map[string]int{
		"timing.pulse_ms":         c.Timing.PulseMs,
		"timing.timeline_ms":      c.Timing.TimelineMs,
		"timing.metrics_ms":       c.Timing.MetricsMs,
		"timing.copy_feedback_ms": c.Timing.CopyFeedbackMs,
	} {
		if ms < 0 {
			return fmt.Errorf("%s: must not be negative, got %d", name, ms)
		}
	}
	return nil
}

// Scenario returns the configured start scenario, falling back to the default.
func (c Config) Scenario() fixture.Scenario {
	sc, err := fixture.ParseScenario(c.UI.DefaultScenario)
	if err != nil {
		return fixture.DefaultScenario
	}
	return sc
}

// Interval converts a millisecond setting, falling back to def when unset.
func Interval(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
