package ports

// Package ports defines interfaces (hexagonal ports) for session-related behavior.
// Implementations live in internal/adapters and internal/session; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/target/odoo-school-client/internal/domain/auth"
)

// ErrNotFound is returned by KeyValueStore.Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is durable local key/value storage.
// Delete of a missing key is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CredentialStore holds the single opaque Odoo session credential.
// Implementations never fail outward; storage errors read as absent.
type CredentialStore interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, token string)
	Clear(ctx context.Context)
}

// UserSessionStore persists the application-level user session.
type UserSessionStore interface {
	Save(ctx context.Context, sess domainauth.UserSession) error
	// Load returns false when no trustworthy session is stored.
	Load(ctx context.Context) (domainauth.UserSession, bool)
	Clear(ctx context.Context) error
}

// RoleMapper maps a raw backend role string to an application role.
type RoleMapper interface {
	Map(raw string) domainauth.Role
}
