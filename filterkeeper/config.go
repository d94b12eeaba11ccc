package filterkeeper

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the filter keeper configuration.
type Config struct {
	DBPath string `yaml:"db_path"`
	// Listen is the management HTTP address.
	Listen       string        `yaml:"listen"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// MaxBody caps request bodies on the HTTP API (bytes).
	MaxBody int64 `yaml:"max_body"`
	// AllowPrivateFetch lets synthesis fetch pages on private addresses.
	AllowPrivateFetch bool `yaml:"allow_private_fetch"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "elpick.db"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8087"
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.MaxBody <= 0 {
		c.MaxBody = 12 << 20
	}
}

// LoadConfigFile reads a YAML config file holding only keeper settings.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
