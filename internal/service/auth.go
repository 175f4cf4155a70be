package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	domainauth "github.com/target/odoo-school-client/internal/domain/auth"
	apperrors "github.com/target/odoo-school-client/internal/errors"
	"github.com/target/odoo-school-client/internal/odoo"
	"github.com/target/odoo-school-client/internal/ports"
	"golang.org/x/sync/singleflight"
)

// OdooSession is the slice of the Odoo client the authentication flow needs.
type OdooSession interface {
	Authenticate(ctx context.Context, login, password string) (*odoo.AuthResult, error)
	DestroySession(ctx context.Context) error
	SessionInfo(ctx context.Context) (*odoo.SessionInfo, error)
	ListDatabases(ctx context.Context) ([]string, error)
}

// User-facing login messages.
const (
	MsgCredentialsRequired = "Usuario y contraseña son requeridos"
	MsgInvalidCredentials  = "Usuario o contraseña incorrectos"
	MsgNoRole              = "NO_ROLE"
	msgLoginFailedPrefix   = "No se pudo iniciar sesión: "
)

// ErrSessionInvalid is returned by VerifySession whenever no trustworthy session exists.
var ErrSessionInvalid = errors.New("session is not valid")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Gateway  OdooSession
	Sessions ports.UserSessionStore
	Roles    ports.RoleMapper
	Logger   *slog.Logger
}

// AuthService orchestrates login, logout and session verification against Odoo,
// mapping backend roles and persisting the local user session.
type AuthService struct {
	gateway  OdooSession
	sessions ports.UserSessionStore
	roles    ports.RoleMapper
	logger   *slog.Logger
	now      func() time.Time
	verify   singleflight.Group
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Gateway == nil {
		return nil, errors.New("Gateway is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("Sessions is required")
	}
	if opts.Roles == nil {
		return nil, errors.New("Roles is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &AuthService{
		gateway:  opts.Gateway,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		logger:   logger.With("component", "auth_service"),
		now:      time.Now,
	}, nil
}

// LoginResult contains the session created by a successful login.
type LoginResult struct {
	Session domainauth.UserSession
}

// Login authenticates against Odoo, maps the backend role and persists the user session.
// A user the backend knows but who carries no role never keeps a session: the remote
// session is destroyed and an ErrCodeNoRole error is returned.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, apperrors.Validation(MsgCredentialsRequired)
	}

	res, err := s.gateway.Authenticate(ctx, username, password)
	if err != nil {
		return nil, s.loginError(ctx, username, err)
	}

	rawRole := strings.TrimSpace(string(res.Role))
	if rawRole == "" {
		s.logger.WarnContext(ctx, "login rejected, user has no role", "uid", int64(res.UID))
		s.discardRemote(ctx)
		return nil, apperrors.New(apperrors.ErrCodeNoRole, MsgNoRole)
	}

	now := s.now().UTC()
	login := string(res.Username)
	if login == "" {
		login = username
	}
	sess := domainauth.UserSession{
		ID:        int64(res.UID),
		Username:  login,
		FullName:  string(res.Name),
		Email:     string(res.Email),
		Role:      s.roles.Map(rawRole),
		OdooRole:  rawRole,
		CreatedAt: now,
		LastLogin: now,
		Token:     res.SessionID,
		Odoo: domainauth.OdooData{
			UID:          int64(res.UID),
			CompanyID:    int64(res.CompanyID),
			PartnerID:    int64(res.PartnerID),
			Context:      res.UserContext,
			OriginalRole: rawRole,
		},
	}

	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		s.discardRemote(ctx)
		return nil, apperrors.Wrap(saveErr, apperrors.ErrCodeInternal, msgLoginFailedPrefix+"save session")
	}

	s.logger.InfoContext(ctx, "user logged in", "uid", sess.ID, "role", sess.Role)
	return &LoginResult{Session: sess}, nil
}

func (s *AuthService) loginError(ctx context.Context, username string, err error) error {
	switch odoo.KindOf(err) {
	case odoo.KindAccessDenied, odoo.KindSessionExpired:
		s.logger.InfoContext(ctx, "login rejected by backend", "username", username)
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidCredentials, MsgInvalidCredentials)
	case odoo.KindTransport, odoo.KindHTTP:
		return apperrors.Wrap(err, apperrors.ErrCodeOffline, msgLoginFailedPrefix+detail(err))
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, msgLoginFailedPrefix+detail(err))
	}
}

// discardRemote tears down the just-created remote session and any local user session.
func (s *AuthService) discardRemote(ctx context.Context) {
	if err := s.gateway.DestroySession(ctx); err != nil {
		s.logger.DebugContext(ctx, "destroy remote session failed", "error", err)
	}
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.DebugContext(ctx, "clear user session failed", "error", err)
	}
}

// Logout destroys the remote session on a best-effort basis and always clears local state.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.gateway.DestroySession(ctx); err != nil && !odoo.IsNoSession(err) {
		s.logger.DebugContext(ctx, "remote logout failed", "error", err)
	}
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear user session failed", "error", err)
	}
	s.logger.InfoContext(ctx, "user logged out")
}

// VerifySession confirms the stored session against the backend and refreshes its
// display data. Concurrent callers share one backend round trip, which runs
// detached from any single caller's cancellation. A caller whose context ends
// first gets the context error; otherwise every failure wraps ErrSessionInvalid
// and leaves no local session behind.
func (s *AuthService) VerifySession(ctx context.Context) (*domainauth.UserSession, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.verify.DoChan("verify", func() (any, error) {
		return s.verifySession(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		sess := *res.Val.(*domainauth.UserSession)
		sess.Odoo.Context = maps.Clone(sess.Odoo.Context)
		return &sess, nil
	}
}

func (s *AuthService) verifySession(ctx context.Context) (*domainauth.UserSession, error) {
	sess, ok := s.sessions.Load(ctx)
	if !ok {
		return nil, ErrSessionInvalid
	}

	info, err := s.gateway.SessionInfo(ctx)
	if err != nil {
		s.logger.InfoContext(ctx, "session rejected by backend", "uid", sess.ID, "error", err)
		s.clearLocal(ctx)
		return nil, fmt.Errorf("%w: %w", ErrSessionInvalid, err)
	}

	if int64(info.UID) != sess.ID {
		s.logger.WarnContext(ctx, "backend session belongs to another user",
			"stored_uid", sess.ID,
			"backend_uid", int64(info.UID),
		)
		// The credential resolves to someone else; drop it along with the user session.
		s.discardRemote(ctx)
		return nil, fmt.Errorf("%w: backend uid %d does not match stored uid %d", ErrSessionInvalid, int64(info.UID), sess.ID)
	}

	if info.Name != "" {
		sess.FullName = string(info.Name)
	}
	if info.UserContext != nil {
		sess.Odoo.Context = info.UserContext
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		s.logger.WarnContext(ctx, "persist refreshed session failed", "error", saveErr)
	}
	return &sess, nil
}

func (s *AuthService) clearLocal(ctx context.Context) {
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear user session failed", "error", err)
	}
}

// UpdateUserSession merges patch into the stored session.
// It returns false when no session is stored or it could not be saved.
func (s *AuthService) UpdateUserSession(ctx context.Context, patch domainauth.UserSessionPatch) bool {
	sess, ok := s.sessions.Load(ctx)
	if !ok {
		return false
	}
	patch.Apply(&sess)
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.WarnContext(ctx, "update user session failed", "error", err)
		return false
	}
	return true
}

// CheckServerHealth reports whether the Odoo server answers at all. A backend that
// refuses to list databases still counts as reachable.
func (s *AuthService) CheckServerHealth(ctx context.Context) bool {
	_, err := s.gateway.ListDatabases(ctx)
	if err == nil {
		return true
	}
	s.logger.DebugContext(ctx, "health probe failed", "kind", odoo.KindOf(err), "error", err)
	switch odoo.KindOf(err) {
	case odoo.KindBackend, odoo.KindAccessDenied:
		return true
	default:
		return false
	}
}

// CurrentUser returns the locally stored session without contacting the backend.
func (s *AuthService) CurrentUser(ctx context.Context) (*domainauth.UserSession, bool) {
	sess, ok := s.sessions.Load(ctx)
	if !ok {
		return nil, false
	}
	return &sess, true
}

func detail(err error) string {
	var oe *odoo.Error
	if errors.As(err, &oe) {
		return oe.DetailMessage()
	}
	return err.Error()
}
