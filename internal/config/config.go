// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/surface"
)

// Config represents the application configuration
type Config struct {
	Runner   RunnerConfig   `mapstructure:"runner"`
	Window   WindowConfig   `mapstructure:"window"`
	Child    ChildConfig    `mapstructure:"child"`
	Keyboard KeyboardConfig `mapstructure:"keyboard"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// RunnerConfig controls the run loop and the display connection
type RunnerConfig struct {
	FrameRate int    `mapstructure:"frame_rate"` // Dispatch bound is 1/frame_rate seconds
	Namespace string `mapstructure:"namespace"`  // Layer surface namespace
	Display   string `mapstructure:"display"`    // Empty means $WAYLAND_DISPLAY
}

// WindowConfig describes the primary layer surface
type WindowConfig struct {
	Title                 string   `mapstructure:"title"`
	Width                 uint32   `mapstructure:"width"`
	Height                uint32   `mapstructure:"height"`
	Anchor                []string `mapstructure:"anchor"` // top, bottom, left, right
	ExclusiveZone         int32    `mapstructure:"exclusive_zone"`
	Margin                []int32  `mapstructure:"margin"` // top, right, bottom, left
	KeyboardInteractivity string   `mapstructure:"keyboard_interactivity"`
	Layer                 string   `mapstructure:"layer"`
}

// ChildConfig describes an optional sub-surface of the primary window
type ChildConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	X       int32  `mapstructure:"x"`
	Y       int32  `mapstructure:"y"`
	Width   uint32 `mapstructure:"width"`
	Height  uint32 `mapstructure:"height"`
}

// KeyboardConfig selects the layout used to resolve key codes
type KeyboardConfig struct {
	Layout string `mapstructure:"layout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Runner: RunnerConfig{
			FrameRate: 60,
			Namespace: "wlscene",
		},
		Window: WindowConfig{
			Title:                 "wlscene",
			Width:                 256,
			Height:                256,
			Anchor:                []string{},
			Margin:                []int32{0, 0, 0, 0},
			KeyboardInteractivity: "on_demand",
			Layer:                 "top",
		},
		Child: ChildConfig{
			Enabled: false,
			X:       16,
			Y:       16,
			Width:   64,
			Height:  64,
		},
		Keyboard: KeyboardConfig{
			Layout: "us",
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// EnvPrefix prefixes environment overrides, e.g. WLSCENE_RUNNER_FRAME_RATE.
const EnvPrefix = "WLSCENE"

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("wlscene")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		for _, dir := range searchPaths() {
			viper.AddConfigPath(dir)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func setDefaults() {
	d := DefaultConfig
	for key, value := range d.values() {
		viper.SetDefault(key, value)
	}
}

// searchPaths lists the config directories in order of precedence.
func searchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "wlscene"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "wlscene"))
	}
	return append(dirs, ".")
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		d := DefaultConfig
		return &d
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Validate checks every value that has a restricted set of choices.
func (c *Config) Validate() error {
	if c.Runner.FrameRate <= 0 {
		return fmt.Errorf("runner.frame_rate must be positive, got %d", c.Runner.FrameRate)
	}
	if _, err := c.Window.Settings(); err != nil {
		return err
	}
	if c.Child.Enabled && (c.Child.Width == 0 || c.Child.Height == 0) {
		return fmt.Errorf("child size must be non-zero, got %dx%d", c.Child.Width, c.Child.Height)
	}
	if _, err := input.NewKeymap(c.Keyboard.Layout); err != nil {
		return fmt.Errorf("keyboard.layout: %w", err)
	}
	return nil
}

// Settings converts the window section into layer surface settings.
func (w WindowConfig) Settings() (surface.Settings, error) {
	s := surface.DefaultSettings()
	if w.Width == 0 || w.Height == 0 {
		return s, fmt.Errorf("window size must be non-zero, got %dx%d", w.Width, w.Height)
	}
	s.Size = surface.Size{Width: w.Width, Height: w.Height}

	anchor, err := surface.ParseAnchor(w.Anchor)
	if err != nil {
		return s, fmt.Errorf("window.anchor: %w", err)
	}
	s.Anchor = anchor
	s.ExclusiveZone = w.ExclusiveZone

	switch len(w.Margin) {
	case 0:
	case 4:
		s.Margin = surface.Margin{Top: w.Margin[0], Right: w.Margin[1], Bottom: w.Margin[2], Left: w.Margin[3]}
	default:
		return s, fmt.Errorf("window.margin needs 4 values (top, right, bottom, left), got %d", len(w.Margin))
	}

	if s.KeyboardInteractivity, err = surface.ParseKeyboardInteractivity(w.KeyboardInteractivity); err != nil {
		return s, fmt.Errorf("window.keyboard_interactivity: %w", err)
	}
	if s.Layer, err = surface.ParseLayer(w.Layer); err != nil {
		return s, fmt.Errorf("window.layer: %w", err)
	}
	return s, nil
}

// values flattens c into viper keys.
func (c *Config) values() map[string]any {
	return map[string]any{
		"runner.frame_rate": c.Runner.FrameRate,
		"runner.namespace":  c.Runner.Namespace,
		"runner.display":    c.Runner.Display,

		"window.title":                  c.Window.Title,
		"window.width":                  c.Window.Width,
		"window.height":                 c.Window.Height,
		"window.anchor":                 c.Window.Anchor,
		"window.exclusive_zone":         c.Window.ExclusiveZone,
		"window.margin":                 c.Window.Margin,
		"window.keyboard_interactivity": c.Window.KeyboardInteractivity,
		"window.layer":                  c.Window.Layer,

		"child.enabled": c.Child.Enabled,
		"child.x":       c.Child.X,
		"child.y":       c.Child.Y,
		"child.width":   c.Child.Width,
		"child.height":  c.Child.Height,

		"keyboard.layout":   c.Keyboard.Layout,
		"logging.log_level": c.Logging.LogLevel,
	}
}

// Save writes the current configuration to the config file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	for key, value := range Get().values() {
		viper.Set(key, value)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	return filepath.Join(searchPaths()[0], "wlscene.toml")
}
