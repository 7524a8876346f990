// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultSelector = "main"
	DefaultSound    = "interface3.wav"
	DefaultVolume   = 100
	DefaultTitle    = "soundport"
	DefaultLogLevel = "info"
)

// Config represents the soundport configuration.
type Config struct {
	Mount MountConfig `toml:"mount" yaml:"mount" json:"mount"`
	Audio AudioConfig `toml:"audio" yaml:"audio" json:"audio"`
	App   AppConfig   `toml:"app" yaml:"app" json:"app"`
	Log   LogConfig   `toml:"log" yaml:"log" json:"log"`
}

// MountConfig selects the node the application renders into.
type MountConfig struct {
	Selector  string `toml:"selector" yaml:"selector" json:"selector"`
	AltScreen bool   `toml:"alt_screen" yaml:"alt_screen" json:"alt_screen"`
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Src    []string `toml:"src" yaml:"src" json:"src"`          // Tried in order
	Volume int      `toml:"volume" yaml:"volume" json:"volume"` // 0-100
}

// AppConfig configures the sound pad.
type AppConfig struct {
	Title string   `toml:"title" yaml:"title" json:"title"`
	Pads  []string `toml:"pads" yaml:"pads" json:"pads"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" json:"level"` // debug, info (default), warn, error
	File  string `toml:"file" yaml:"file" json:"file"`    // "-" for stderr, empty for default
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Mount: MountConfig{
			Selector:  DefaultSelector,
			AltScreen: true,
		},
		Audio: AudioConfig{
			Src:    []string{DefaultSound},
			Volume: DefaultVolume,
		},
		App: AppConfig{
			Title: DefaultTitle,
			Pads:  []string{"beep", "click", "chime", "pop"},
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "soundport", "config.toml")
}

// StatePath returns the path to the state directory.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StatePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "soundport")
}

// LogPath returns the default log file path.
func LogPath() string {
	return filepath.Join(StatePath(), "soundport.log")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Mount.Selector == "" {
		errs = append(errs, errors.New("mount.selector must not be empty"))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		errs = append(errs, fmt.Errorf("audio.volume must be 0-100, got %d", c.Audio.Volume))
	}
	if len(c.Audio.Src) == 0 {
		errs = append(errs, errors.New("audio.src must list at least one file"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// VolumeFraction returns the volume as 0.0 to 1.0.
func (c *Config) VolumeFraction() float64 {
	return float64(c.Audio.Volume) / 100.0
}

// ParseLevel converts a level name to a slog.Level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	path := StatePath()
	if path == "" {
		return errors.New("unable to determine state directory")
	}
	return os.MkdirAll(path, 0755)
}
