// Package config loads the node configuration from a TOML file, creating a
// default file on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DataDir     string `toml:"DataDir"`
	DBBackend   string `toml:"DBBackend"`
	GenesisFile string `toml:"GenesisFile"`
	NetworkName string `toml:"NetworkName"`
	LogEnv      string `toml:"LogEnv"`
	LogFile     string `toml:"LogFile"`
	LogLevel    string `toml:"LogLevel"`
}

// Load loads the configuration from the given path, writing a default config
// file when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./halo-data"
	}
	if strings.TrimSpace(c.DBBackend) == "" {
		c.DBBackend = "leveldb"
	}
	if strings.TrimSpace(c.NetworkName) == "" {
		c.NetworkName = "halo-local"
	}
	if strings.TrimSpace(c.LogEnv) == "" {
		c.LogEnv = "local"
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	switch c.DBBackend {
	case "leveldb", "bolt", "memory":
	default:
		return fmt.Errorf("unknown DBBackend %q (want leveldb, bolt, or memory)", c.DBBackend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LogLevel %q", c.LogLevel)
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
