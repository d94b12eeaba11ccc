package dompick

import "github.com/hazyhaar/elpick/dompick/internal/config"

// Config is the top-level elpick configuration (picker and keeper).
type Config = config.Config

// PickerConfig controls the live picker.
type PickerConfig = config.PickerConfig

// BrowserConfig controls Chrome.
type BrowserConfig = config.BrowserConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	return config.Default()
}
