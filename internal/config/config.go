// Package config resolves studentctl settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Defaults applied before environment overrides.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 5432
	DefaultDatabase   = "postgres"
	DefaultUser       = "postgres"
	DefaultPassword   = "postgres"
	DefaultDriver     = "postgres"
	DefaultSQLitePath = "students.db"
	DefaultLogLevel   = "info"
)

// Config holds the resolved settings for a studentctl session.
//
// Host, Port, Database, User and Password mirror the libpq environment
// variables (PGHOST, PGPORT, PGDATABASE, PGUSER, PGPASSWORD). Driver,
// SQLitePath and LogLevel live in the STUDENTCTL_ namespace.
type Config struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Database   string `koanf:"database"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Driver     string `koanf:"driver"`
	SQLitePath string `koanf:"sqlite_path"`
	LogLevel   string `koanf:"log_level"`
}

// Load resolves configuration from the process environment.
// Precedence (highest to lowest): env vars > .env file > defaults.
// A variable that is unset or set to the empty string falls back to its
// default. A non-numeric PGPORT is a configuration error.
//
// The .env layer populates the process environment via godotenv; it
// never overrides variables that are already set, but those it supplies
// stay visible to the rest of the process.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"host":        DefaultHost,
		"port":        DefaultPort,
		"database":    DefaultDatabase,
		"user":        DefaultUser,
		"password":    DefaultPassword,
		"driver":      DefaultDriver,
		"sqlite_path": DefaultSQLitePath,
		"log_level":   DefaultLogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Optional .env file. godotenv never overrides variables that are
	// already set, so the real environment keeps precedence.
	_ = godotenv.Load()

	// 3. Connection variables (PG prefix)
	// Transform: PGHOST -> host, PGPORT -> port, ...
	if err := k.Load(env.ProviderWithValue("PG", ".", trimPrefixNonEmpty("PG")), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Tool variables (STUDENTCTL_ prefix)
	// Transform: STUDENTCTL_DRIVER -> driver, ...
	if err := k.Load(env.ProviderWithValue("STUDENTCTL_", ".", trimPrefixNonEmpty("STUDENTCTL_")), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}

// trimPrefixNonEmpty builds an env key transform that lowercases the key
// after stripping prefix, and drops variables whose value is empty so the
// layer below keeps supplying them.
func trimPrefixNonEmpty(prefix string) func(key, value string) (string, interface{}) {
	return func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, prefix)), value
	}
}
