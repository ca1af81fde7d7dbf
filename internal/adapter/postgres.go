package adapter

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/leapstack-labs/studentctl/internal/config"
)

//go:embed schema_postgres.sql
var postgresSchema string

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// Postgres connects to a PostgreSQL server through the pgx stdlib driver.
type Postgres struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewPostgres creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func NewPostgres(cfg *config.Config, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Postgres{cfg: cfg, logger: logger}
}

// Name returns the driver name.
func (a *Postgres) Name() string {
	return "postgres"
}

// Open opens a new connection to PostgreSQL and verifies it with a ping.
func (a *Postgres) Open(ctx context.Context) (*sql.DB, error) {
	dsn := buildPostgresDSN(a.cfg)

	a.logger.Debug("connecting to postgres", slog.String("host", a.cfg.Host), slog.String("database", a.cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// Placeholder returns the numbered postgres placeholder ($1, $2, ...).
func (a *Postgres) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// SchemaSQL returns the students table DDL.
func (a *Postgres) SchemaSQL() string {
	return postgresSchema
}

// IsUniqueViolation reports whether err is a postgres unique_violation.
func (a *Postgres) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg *config.Config) string {
	// Build key=value format: host=localhost port=5432 dbname=postgres ...
	host := cfg.Host
	if host == "" {
		host = config.DefaultHost
	}

	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=disable", host, port, cfg.Database)

	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

func init() {
	Register("postgres", func(cfg *config.Config, logger *slog.Logger) Adapter {
		return NewPostgres(cfg, logger)
	})
}

// Ensure Postgres implements the Adapter interface
var _ Adapter = (*Postgres)(nil)
