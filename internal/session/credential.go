package session

// Package session persists the Odoo session credential and the application
// user session on top of a ports.KeyValueStore.

import (
	"context"
	"errors"
	"log/slog"

	"github.com/target/odoo-school-client/internal/ports"
)

// DefaultCredentialKey is the reserved key holding the raw session credential.
const DefaultCredentialKey = "odoo_session_id"

// CredentialStore implements ports.CredentialStore. Storage errors are logged
// at debug level and never returned.
type CredentialStore struct {
	kv     ports.KeyValueStore
	key    string
	logger *slog.Logger
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

// CredentialStoreOptions groups dependencies for CredentialStore.
type CredentialStoreOptions struct {
	KV     ports.KeyValueStore
	Key    string // defaults to DefaultCredentialKey
	Logger *slog.Logger
}

// NewCredentialStore constructs a CredentialStore. KV is required.
func NewCredentialStore(opts CredentialStoreOptions) *CredentialStore {
	if opts.KV == nil {
		panic("session: CredentialStoreOptions.KV is required")
	}
	key := opts.Key
	if key == "" {
		key = DefaultCredentialKey
	}
	return &CredentialStore{kv: opts.KV, key: key, logger: loggerOrDiscard(opts.Logger)}
}

// Get returns the stored credential, or "" when absent or unreadable.
func (s *CredentialStore) Get(ctx context.Context) string {
	v, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.DebugContext(ctx, "read session credential failed", "error", err)
		}
		return ""
	}
	return v
}

// Set persists token.
func (s *CredentialStore) Set(ctx context.Context, token string) {
	if err := s.kv.Set(ctx, s.key, token); err != nil {
		s.logger.DebugContext(ctx, "store session credential failed", "error", err)
	}
}

// Clear removes the credential. Clearing an empty store is a no-op.
func (s *CredentialStore) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logger.DebugContext(ctx, "clear session credential failed", "error", err)
	}
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
