// Package config loads suama's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when SUAMA_CONFIG is unset.
const DefaultConfigPath = "~/.suama/config.yaml"

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Cache    CacheConfig    `yaml:"cache"`
	Paging   PagingConfig   `yaml:"paging"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// StoreConfig bounds every record-store round trip.
type StoreConfig struct {
	Timeout Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled       bool     `yaml:"enabled"`
	TTL           Duration `yaml:"ttl"`
	SweepSchedule string   `yaml:"sweep_schedule"`
}

type PagingConfig struct {
	PerPage int `yaml:"per_page"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Stderr     bool   `yaml:"stderr"`
}

// Duration is a time.Duration written in YAML as a string such as "5s".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: duration must be a string: %w", node.Line, err)
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
		return cfg, nil
	}

	return Load(path)
}

// Resolve loads the config named by SUAMA_CONFIG (or the default path), then
// applies environment overrides and validates the result.
func Resolve(getenv func(string) string) (*Config, error) {
	path := getenv("SUAMA_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := LoadOrCreateAt(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(getenv)
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file settings with SUAMA_DB and SUAMA_ADDR.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("SUAMA_DB"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("SUAMA_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// ExpandPaths resolves a leading ~ in file system settings.
func (c *Config) ExpandPaths() error {
	var err error
	if c.Database.Path != ":memory:" {
		if c.Database.Path, err = ExpandPath(c.Database.Path); err != nil {
			return err
		}
	}
	c.Logging.Dir, err = ExpandPath(c.Logging.Dir)
	return err
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive, got %s", c.Store.Timeout.Std())
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}
	if c.Paging.PerPage <= 0 {
		return fmt.Errorf("paging.per_page must be positive, got %d", c.Paging.PerPage)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
