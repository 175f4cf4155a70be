package postgres

// Package postgres provides a PostgreSQL-backed key/value store for session state.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	apperrors "github.com/target/odoo-school-client/internal/errors"
	"github.com/target/odoo-school-client/internal/ports"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "kv_store"

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// KeyValueStore implements ports.KeyValueStore on a single table.
// Rows with an expires_at in the past read as absent.
type KeyValueStore struct {
	db    *sql.DB
	table string
	ttl   time.Duration
}

var _ ports.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStoreOptions groups configuration for KeyValueStore.
type KeyValueStoreOptions struct {
	Table string        // defaults to DefaultTable
	TTL   time.Duration // zero keeps rows until deleted
}

// NewKeyValueStore creates a store on db. The table name must be a plain identifier.
func NewKeyValueStore(db *sql.DB, opts KeyValueStoreOptions) (*KeyValueStore, error) {
	if db == nil {
		return nil, errors.New("postgres kv store: db is required")
	}
	table := opts.Table
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("postgres kv store: invalid table name %q", table)
	}
	return &KeyValueStore{db: db, table: table, ttl: opts.TTL}, nil
}

// EnsureSchema creates the backing table if it does not exist.
func (s *KeyValueStore) EnsureSchema(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ
	)`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure %s schema: %w", s.table, apperrors.MapDBError(err))
	}
	return nil
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	q := `SELECT value FROM ` + s.table + ` WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`

	var value string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ports.ErrNotFound
		}
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("get %q: %w", key, mapped)
	}
	return value, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	q := `INSERT INTO ` + s.table + ` (key, value, updated_at, expires_at)
		VALUES ($1, $2, now(), $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at`

	if _, err := s.db.ExecContext(ctx, q, key, value, s.expiresAt()); err != nil {
		return fmt.Errorf("set %q: %w", key, apperrors.MapDBError(err))
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	q := `DELETE FROM ` + s.table + ` WHERE key = $1`
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		mapped := apperrors.MapDBError(err)
		// Nothing to delete when the table was never created.
		if apperrors.IsNotFound(mapped) {
			return nil
		}
		return fmt.Errorf("delete %q: %w", key, mapped)
	}
	return nil
}

func (s *KeyValueStore) expiresAt() sql.NullTime {
	if s.ttl <= 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: time.Now().Add(s.ttl), Valid: true}
}
