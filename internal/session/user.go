package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/target/odoo-school-client/internal/domain/auth"
	"github.com/target/odoo-school-client/internal/ports"
)

// DefaultUserSessionKey is the key holding the JSON user session.
const DefaultUserSessionKey = "user_session"

// UserStore implements ports.UserSessionStore as a JSON blob.
type UserStore struct {
	kv     ports.KeyValueStore
	key    string
	logger *slog.Logger
}

var _ ports.UserSessionStore = (*UserStore)(nil)

// UserStoreOptions groups dependencies for UserStore.
type UserStoreOptions struct {
	KV     ports.KeyValueStore
	Key    string // defaults to DefaultUserSessionKey
	Logger *slog.Logger
}

// NewUserStore constructs a UserStore. KV is required.
func NewUserStore(opts UserStoreOptions) *UserStore {
	if opts.KV == nil {
		panic("session: UserStoreOptions.KV is required")
	}
	key := opts.Key
	if key == "" {
		key = DefaultUserSessionKey
	}
	return &UserStore{kv: opts.KV, key: key, logger: loggerOrDiscard(opts.Logger)}
}

// Save persists sess. Sessions missing a required field are rejected.
func (s *UserStore) Save(ctx context.Context, sess domainauth.UserSession) error {
	if !sess.Valid() {
		return errors.New("user session is missing required fields")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal user session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("store user session: %w", err)
	}
	return nil
}

// Load returns the stored session. A corrupt or incomplete blob is deleted and
// reported as absent.
func (s *UserStore) Load(ctx context.Context) (domainauth.UserSession, bool) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.DebugContext(ctx, "read user session failed", "error", err)
		}
		return domainauth.UserSession{}, false
	}

	var sess domainauth.UserSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		s.logger.DebugContext(ctx, "discarding corrupt user session", "error", err)
		s.discard(ctx)
		return domainauth.UserSession{}, false
	}
	if !sess.Valid() {
		s.logger.DebugContext(ctx, "discarding incomplete user session", "user_id", sess.ID)
		s.discard(ctx)
		return domainauth.UserSession{}, false
	}
	return sess, true
}

// Clear removes the stored session. Clearing an empty store is a no-op.
func (s *UserStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear user session: %w", err)
	}
	return nil
}

func (s *UserStore) discard(ctx context.Context) {
	if err := s.Clear(ctx); err != nil {
		s.logger.DebugContext(ctx, "discard user session failed", "error", err)
	}
}
