package adapter

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/studentctl/internal/config"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLite stores students in a local database file. Selected with
// STUDENTCTL_DRIVER=sqlite; no server required.
type SQLite struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewSQLite creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func NewSQLite(cfg *config.Config, logger *slog.Logger) *SQLite {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLite{cfg: cfg, logger: logger}
}

// Name returns the driver name.
func (a *SQLite) Name() string {
	return "sqlite"
}

// Open opens a new handle on the database file and verifies it with a ping.
func (a *SQLite) Open(ctx context.Context) (*sql.DB, error) {
	path := a.cfg.SQLitePath
	if path == "" {
		path = config.DefaultSQLitePath
	}

	a.logger.Debug("opening sqlite database", slog.String("path", path))

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return db, nil
}

// Placeholder returns the sqlite positional placeholder.
func (a *SQLite) Placeholder(int) string {
	return "?"
}

// SchemaSQL returns the students table DDL.
func (a *SQLite) SchemaSQL() string {
	return sqliteSchema
}

// IsUniqueViolation reports whether err is a sqlite unique constraint error.
func (a *SQLite) IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func init() {
	Register("sqlite", func(cfg *config.Config, logger *slog.Logger) Adapter {
		return NewSQLite(cfg, logger)
	})
}

// Ensure SQLite implements the Adapter interface
var _ Adapter = (*SQLite)(nil)
