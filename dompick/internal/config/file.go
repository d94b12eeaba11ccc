// Package config handles elpick configuration from YAML files.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/elpick/filterkeeper"
	"github.com/hazyhaar/elpick/hostbridge"
	"github.com/hazyhaar/elpick/picker"
	"github.com/hazyhaar/elpick/selector"
)

// Config is the top-level elpick configuration.
type Config struct {
	Picker PickerConfig        `yaml:"picker"`
	Keeper filterkeeper.Config `yaml:"keeper"`
}

// PickerConfig controls the live picker.
type PickerConfig struct {
	Browser       BrowserConfig `yaml:"browser"`
	Debounce      time.Duration `yaml:"debounce"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	DefaultLevel  int           `yaml:"default_level"`

	// Host holds theme, locale and platform.
	Host hostbridge.Config `yaml:",inline"`
}

// BrowserConfig controls Chrome.
type BrowserConfig struct {
	Remote           string        `yaml:"remote"`
	Headless         bool          `yaml:"headless"`
	Xvfb             bool          `yaml:"xvfb"`
	XvfbDisplay      string        `yaml:"xvfb_display"`
	XvfbScreen       string        `yaml:"xvfb_screen"`
	ResourceBlocking []string      `yaml:"resource_blocking"`
	NavTimeout       time.Duration `yaml:"nav_timeout"`
}

// Session returns the picker session settings.
func (p PickerConfig) Session() picker.Config {
	return picker.Config{
		Debounce:      p.Debounce,
		FrameInterval: p.FrameInterval,
		DefaultLevel:  p.DefaultLevel,
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Picker.Browser.XvfbDisplay == "" {
		c.Picker.Browser.XvfbDisplay = ":99"
	}
	if c.Picker.Browser.NavTimeout <= 0 {
		c.Picker.Browser.NavTimeout = 30 * time.Second
	}
	if c.Picker.Debounce <= 0 {
		c.Picker.Debounce = 700 * time.Millisecond
	}
	if c.Picker.FrameInterval <= 0 {
		c.Picker.FrameInterval = 16 * time.Millisecond
	}
	if c.Picker.DefaultLevel == 0 {
		c.Picker.DefaultLevel = selector.DefaultLevel
	}
	c.Picker.DefaultLevel = selector.ClampLevel(c.Picker.DefaultLevel)
	if c.Picker.Host.Theme.BGColor == 0 && !c.Picker.Host.Theme.IsDarkModeEnabled {
		c.Picker.Host.Theme.BGColor = 0xffffff
	}
	if c.Picker.Host.Locale == "" {
		c.Picker.Host.Locale = hostbridge.DefaultLocale
	}
}
