package config

import "time"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.suama/suama.db",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Store: StoreConfig{
			Timeout: Duration(5 * time.Second),
		},
		Cache: CacheConfig{
			Enabled:       true,
			TTL:           Duration(5 * time.Minute),
			SweepSchedule: "@every 1m",
		},
		Paging: PagingConfig{
			PerPage: 20,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Dir:        "~/.suama/logs",
			File:       "suama.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}
