package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes used to translate constraint violations into
// sentinel errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Ensure PostgresStore implements the full persistence surface.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to Postgres and verifies the connection.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Health checks if the database is reachable.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS children (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	birthday TEXT NOT NULL,
	sex TEXT NOT NULL,
	asd_type TEXT NOT NULL,
	parent_uid TEXT NOT NULL,
	support_group_id UUID NOT NULL,
	support_code TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_children_parent_uid ON children (parent_uid);

CREATE TABLE IF NOT EXISTS support_groups (
	id UUID PRIMARY KEY,
	child_id UUID NOT NULL,
	code TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS support_group_members (
	group_id UUID NOT NULL REFERENCES support_groups(id) ON DELETE CASCADE,
	member_uid TEXT NOT NULL,
	name TEXT NOT NULL,
	role TEXT NOT NULL,
	joined_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (group_id, member_uid)
);

CREATE TABLE IF NOT EXISTS journal_entries (
	id UUID PRIMARY KEY,
	child_id UUID NOT NULL REFERENCES children(id) ON DELETE CASCADE,
	author_uid TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	mood TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_child_id ON journal_entries (child_id);

CREATE TABLE IF NOT EXISTS chat_entries (
	id UUID PRIMARY KEY,
	child_id UUID NOT NULL REFERENCES children(id) ON DELETE CASCADE,
	author_uid TEXT NOT NULL,
	question TEXT NOT NULL,
	response TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_entries_child_id ON chat_entries (child_id);
`

// EnsureSchema creates the tables if they do not exist. Call once during
// application startup.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// isPgError reports whether err is a Postgres error with the given code.
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
