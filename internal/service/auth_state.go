package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	domainauth "github.com/target/odoo-school-client/internal/domain/auth"
	"github.com/target/odoo-school-client/internal/odoo"
)

// AuthStateOptions groups dependencies for AuthState.
type AuthStateOptions struct {
	Auth     *AuthService
	Notifier *odoo.ExpiryNotifier
	// OnSessionExpired runs once per expiry until AcknowledgeExpiry is called.
	OnSessionExpired func()
	Logger           *slog.Logger
}

// AuthState holds the logged-in user for a long-lived consumer and turns
// session-expiry notifications into a single, de-duplicated event.
type AuthState struct {
	auth      *AuthService
	onExpired func()
	logger    *slog.Logger

	mu            sync.Mutex
	user          *domainauth.UserSession
	loading       bool
	expiryHandled bool
	unregister    func()
}

// NewAuthState constructs an AuthState and subscribes it to notifier.
// Registering replaces any previous subscriber on the same notifier.
func NewAuthState(opts AuthStateOptions) (*AuthState, error) {
	if opts.Auth == nil {
		return nil, errors.New("Auth is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("Notifier is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	st := &AuthState{
		auth:      opts.Auth,
		onExpired: opts.OnSessionExpired,
		logger:    logger.With("component", "auth_state"),
		loading:   true,
	}
	st.unregister = opts.Notifier.Register(st.handleExpired)
	return st, nil
}

// Init verifies any stored session and publishes the result.
func (a *AuthState) Init(ctx context.Context) *domainauth.UserSession {
	a.setLoading(true)
	defer a.setLoading(false)

	sess, err := a.auth.VerifySession(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.user = nil
		return nil
	}
	a.user = sess
	return cloneSession(sess)
}

// User returns the current user, or nil when logged out.
func (a *AuthState) User() *domainauth.UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneSession(a.user)
}

// Loading reports whether a login or verification is in flight.
func (a *AuthState) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Login delegates to AuthService and, on success, publishes the user and re-arms
// the expiry alert.
func (a *AuthState) Login(ctx context.Context, username, password string) (*domainauth.UserSession, error) {
	a.setLoading(true)
	defer a.setLoading(false)

	res, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = &res.Session
	a.expiryHandled = false
	return cloneSession(a.user), nil
}

// Logout drops the user before logging out, so an expiry raised by the remote
// teardown is not surfaced to the consumer.
func (a *AuthState) Logout(ctx context.Context) {
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()

	a.auth.Logout(ctx)
}

// UpdateUser merges patch into the stored and published session.
func (a *AuthState) UpdateUser(ctx context.Context, patch domainauth.UserSessionPatch) bool {
	if !a.auth.UpdateUserSession(ctx, patch) {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user != nil {
		patch.Apply(a.user)
	}
	return true
}

// AcknowledgeExpiry is called once the consumer has shown the expiry alert.
// It returns to the logged-out state and re-arms the alert.
func (a *AuthState) AcknowledgeExpiry(ctx context.Context) {
	a.Logout(ctx)

	a.mu.Lock()
	a.expiryHandled = false
	a.mu.Unlock()
}

// Close unsubscribes from the notifier.
func (a *AuthState) Close() {
	a.mu.Lock()
	unregister := a.unregister
	a.unregister = nil
	a.mu.Unlock()
	if unregister != nil {
		unregister()
	}
}

func (a *AuthState) handleExpired() {
	a.mu.Lock()
	if a.user == nil || a.expiryHandled {
		a.mu.Unlock()
		return
	}
	uid := a.user.ID
	a.user = nil
	a.expiryHandled = true
	hook := a.onExpired
	a.mu.Unlock()

	a.logger.Info("session expired", "uid", uid)
	if hook != nil {
		hook()
	}
}

func (a *AuthState) setLoading(v bool) {
	a.mu.Lock()
	a.loading = v
	a.mu.Unlock()
}

func cloneSession(s *domainauth.UserSession) *domainauth.UserSession {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
