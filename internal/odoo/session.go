package odoo

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
)

var sessionCookieRe = regexp.MustCompile(`session_id=([^;,\s]+)`)

// AuthResult is the decoded payload of /web/session/authenticate.
type AuthResult struct {
	UID         ID             `json:"uid"`
	Username    Text           `json:"username"`
	Name        Text           `json:"name"`
	Email       Text           `json:"email"`
	PartnerID   ID             `json:"partner_id"`
	CompanyID   ID             `json:"company_id"`
	UserContext map[string]any `json:"user_context"`
	// Role is the school module's raw role for the user; empty when none is assigned.
	Role Text `json:"role"`
	DB   Text `json:"db"`
	// SessionID is the credential extracted from Set-Cookie.
	SessionID string `json:"-"`
}

// SessionInfo is the decoded payload of /web/session/get_session_info.
type SessionInfo struct {
	UID         ID             `json:"uid"`
	Name        Text           `json:"name"`
	Username    Text           `json:"username"`
	PartnerID   ID             `json:"partner_id"`
	CompanyID   ID             `json:"company_id"`
	UserContext map[string]any `json:"user_context"`
	DB          Text           `json:"db"`
}

// ListDatabases returns the databases served by the host. It needs no session.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	raw, err := c.Call(ctx, PathDatabaseList, map[string]any{}, false)
	if err != nil {
		return nil, err
	}
	return decodeResult[[]string](raw, "database", "list")
}

// Authenticate exchanges credentials for a session, persists the session
// credential, and returns the backend user payload.
func (c *Client) Authenticate(ctx context.Context, login, password string) (*AuthResult, error) {
	res, err := c.call(ctx, PathAuthenticate, map[string]any{
		"db":       c.database,
		"login":    login,
		"password": password,
	}, false)
	if err != nil {
		return nil, err
	}

	var out AuthResult
	if err := json.Unmarshal(res.result, &out); err != nil {
		return nil, &Error{Kind: KindMalformed, Message: "decode authenticate result: " + err.Error(), Cause: err}
	}
	// Older servers answer bad credentials with uid=false instead of an error.
	if out.UID == 0 {
		return nil, &Error{Kind: KindAccessDenied, Message: "Access Denied"}
	}

	token := ExtractSessionID(res.header)
	if token == "" {
		return nil, &Error{Kind: KindMalformed, Message: "authenticate response carried no session_id cookie"}
	}
	c.creds.Set(ctx, token)
	out.SessionID = token
	return &out, nil
}

// DestroySession logs out remotely. The local credential is cleared even when
// the remote call fails.
func (c *Client) DestroySession(ctx context.Context) error {
	_, err := c.Call(ctx, PathDestroy, map[string]any{}, true)
	c.creds.Clear(ctx)
	return err
}

// SessionInfo returns the backend's view of the current session.
func (c *Client) SessionInfo(ctx context.Context) (*SessionInfo, error) {
	raw, err := c.Call(ctx, PathSessionInfo, map[string]any{}, true)
	if err != nil {
		return nil, err
	}
	info, err := decodeResult[SessionInfo](raw, "session", "get_session_info")
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ExtractSessionID pulls session_id out of the Set-Cookie response headers.
func ExtractSessionID(h http.Header) string {
	for _, v := range h.Values("Set-Cookie") {
		if m := sessionCookieRe.FindStringSubmatch(v); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}
