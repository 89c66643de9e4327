package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool connects a pgx pool and verifies the connection.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("postgres database URL is not set")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// PostgresKVStore implements KVStore on a single key/value table, for
// deployments where the document must survive the host.
type PostgresKVStore struct {
	db *pgxpool.Pool
}

// NewPostgresKVStore creates a PostgreSQL-backed store.
func NewPostgresKVStore(db *pgxpool.Pool) *PostgresKVStore {
	return &PostgresKVStore{db: db}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresKVStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS app_state (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return &RepositoryError{Op: "ensure_schema", Err: err}
	}
	return nil
}

// Get reads the value stored for key.
func (s *PostgresKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(ctx, `
		SELECT value::text FROM app_state WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &RepositoryError{Op: "get", Err: ErrKeyNotFound}
		}
		return nil, &RepositoryError{Op: "get", Err: err}
	}
	return []byte(value), nil
}

// Set upserts the value stored for key.
func (s *PostgresKVStore) Set(ctx context.Context, key string, value []byte) error {
	// $2 travels as text; bytea would not coerce to the jsonb column
	_, err := s.db.Exec(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, string(value))
	if err != nil {
		return &RepositoryError{Op: "set", Err: err}
	}
	return nil
}

// Delete removes the value stored for key. Deleting an absent key is not an
// error.
func (s *PostgresKVStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM app_state WHERE key = $1`, key)
	if err != nil {
		return &RepositoryError{Op: "delete", Err: err}
	}
	return nil
}
