// Package adapter provides database engine adapters for studentctl.
//
// An adapter knows how to open connections to one engine, which
// placeholder syntax the engine expects, and how to recognize its
// constraint violations. Implementations register themselves in an
// init() function and are selected by driver name at startup.
package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/studentctl/internal/config"
)

// Adapter is the interface all database adapters must implement.
//
// Open returns a fresh handle scoped to a single operation; the caller
// owns the handle and must close it when the operation completes.
type Adapter interface {
	// Name returns the driver name the adapter is registered under.
	Name() string

	// Open opens a new database handle and verifies it with a ping.
	Open(ctx context.Context) (*sql.DB, error)

	// Placeholder returns the dialect placeholder for the n-th
	// statement parameter (1-based): $1 for postgres, ? for sqlite.
	Placeholder(n int) string

	// SchemaSQL returns the dialect DDL for the students table.
	SchemaSQL() string

	// IsUniqueViolation reports whether err was caused by a unique
	// constraint violation.
	IsUniqueViolation(err error) bool
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*config.Config, *slog.Logger) Adapter)
)

// Register adds an adapter factory to the registry.
// Called by adapter implementations in their init() functions.
func Register(name string, factory func(*config.Config, *slog.Logger) Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates an adapter for the configured driver.
// The logger is passed to the adapter constructor (nil uses a discard logger).
func New(cfg *config.Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("driver not specified")
	}

	registryMu.RLock()
	factory, ok := registry[cfg.Driver]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownDriverError{
			Driver:    cfg.Driver,
			Available: List(),
		}
	}
	return factory(cfg, logger), nil
}

// List returns all registered driver names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a driver name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownDriverError is returned when an unknown driver is requested.
type UnknownDriverError struct {
	Driver    string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q\nAvailable drivers: %v\nHint: check STUDENTCTL_DRIVER", e.Driver, e.Available)
}
