package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// LedgerConfig contains core ledger parameters.
type LedgerConfig struct {
	// DefaultTenant is used when an operation names no tenant.
	DefaultTenant string `json:"default_tenant,omitempty" yaml:"default_tenant,omitempty"`
}

// StoreConfig locates the persistence sink's key-value store.
type StoreConfig struct {
	Path string `json:"path" yaml:"path"`
}

// JournalConfig selects the closed-trade archive backend.
type JournalConfig struct {
	Type    string `json:"type" yaml:"type"` // "sqlite" or "csv"
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
}

// LogConfig controls zap logger construction.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON; YAML is tried
// first regardless of extension).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes configuration to a file, YAML for .yaml/.yml extensions
// and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.CSVPath == "" {
			return fmt.Errorf("journal.csv_path required for csv type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'csv'")
	}
	if c.Log.Level != "" {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log.level must be debug, info, warn or error")
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			DefaultTenant: "default",
		},
		Store: StoreConfig{
			Path: "./posledger.db",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./journal.sqlite",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
