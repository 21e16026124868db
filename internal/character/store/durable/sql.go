package durable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"grimoire/pkg/platform/sentinel"
)

type dialect struct {
	name   string
	schema string
	get    string
	set    string
	remove string
}

var sqliteDialect = dialect{
	name: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS kv_items (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	get: `SELECT value FROM kv_items WHERE key = ?`,
	set: `INSERT INTO kv_items (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	remove: `DELETE FROM kv_items WHERE key = ?`,
}

var postgresDialect = dialect{
	name: "postgres",
	schema: `CREATE TABLE IF NOT EXISTS kv_items (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	get: `SELECT value FROM kv_items WHERE key = $1`,
	set: `INSERT INTO kv_items (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	remove: `DELETE FROM kv_items WHERE key = $1`,
}

// SQL persists items in a kv_items table.
type SQL struct {
	db      *sql.DB
	dialect dialect
	clock   func() time.Time
}

// NewSQLite wraps an open SQLite database and creates the table if needed.
func NewSQLite(ctx context.Context, db *sql.DB) (*SQL, error) {
	return newSQL(ctx, db, sqliteDialect)
}

// NewPostgres wraps an open PostgreSQL database and creates the table if needed.
func NewPostgres(ctx context.Context, db *sql.DB) (*SQL, error) {
	return newSQL(ctx, db, postgresDialect)
}

func newSQL(ctx context.Context, db *sql.DB, d dialect) (*SQL, error) {
	if db == nil {
		return nil, fmt.Errorf("%s db is required", d.name)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		return nil, fmt.Errorf("create %s kv table: %w", d.name, err)
	}
	return &SQL{db: db, dialect: d, clock: time.Now}, nil
}

func (s *SQL) GetItem(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return []byte(value), nil
}

func (s *SQL) SetItem(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.set, key, string(value), s.clock().UTC()); err != nil {
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}

func (s *SQL) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.remove, key); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	return nil
}
