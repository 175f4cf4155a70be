package odoo

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed call.
type ErrorKind string

const (
	// KindNoSession means an authenticated call was attempted with no stored credential.
	KindNoSession ErrorKind = "NO_SESSION"
	// KindTransport covers request construction, network, and body read failures.
	KindTransport ErrorKind = "transport"
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP ErrorKind = "http"
	// KindMalformed means the body was not a decodable JSON-RPC envelope.
	KindMalformed ErrorKind = "malformed_response"
	// KindBackend is a JSON-RPC error unrelated to the session.
	KindBackend ErrorKind = "backend"
	// KindSessionExpired is a JSON-RPC error reporting an invalid or expired session.
	KindSessionExpired ErrorKind = "session_expired"
	// KindAccessDenied is a JSON-RPC error reporting denied access.
	KindAccessDenied ErrorKind = "access_denied"
)

// User-facing messages.
const (
	MsgNoSession      = "No hay sesión activa"
	MsgSessionExpired = "Tu sesión ha expirado. Por favor, inicia sesión nuevamente."
)

// InvalidSessionCode is the JSON-RPC error code Odoo uses for an expired session.
const InvalidSessionCode = 100

// ErrorData mirrors the "data" object of an Odoo JSON-RPC error.
type ErrorData struct {
	Name          string         `json:"name,omitempty"`
	Debug         string         `json:"debug,omitempty"`
	Message       string         `json:"message,omitempty"`
	Arguments     []any          `json:"arguments,omitempty"`
	ExceptionType string         `json:"exception_type,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
}

// Error is returned by every failed client call.
// Code, Message and Data mirror the backend JSON-RPC error payload when Kind is
// backend, session_expired or access_denied.
type Error struct {
	Kind    ErrorKind  `json:"-"`
	Code    int        `json:"code,omitempty"`
	Message string     `json:"message"`
	Data    *ErrorData `json:"data,omitempty"`
	// Status is the HTTP status code for KindHTTP.
	Status int `json:"-"`
	// SessionExpired is set when the stored credential was cleared because of this error.
	SessionExpired bool `json:"-"`
	// Cause is the underlying error, or the raw backend error for session-expired results.
	Cause error `json:"-"`

	// raw is the error payload as received, including fields Error does not model.
	raw []byte
}

func (e *Error) Error() string {
	if e.Kind == KindBackend && e.Data != nil && e.Data.Message != "" && e.Data.Message != e.Message {
		return fmt.Sprintf("%s: %s", e.Message, e.Data.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// DetailMessage prefers the backend's detailed message (data.message) over the generic one.
func (e *Error) DetailMessage() string {
	if e.Data != nil && e.Data.Message != "" {
		return e.Data.Message
	}
	return e.Message
}

// KindOf returns the ErrorKind of err, or "" if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsSessionExpired reports whether err cleared the stored session.
func IsSessionExpired(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.SessionExpired
}

// IsNoSession reports whether err is the local no-session short-circuit.
func IsNoSession(err error) bool {
	return KindOf(err) == KindNoSession
}

// IsNetwork reports whether err was caused by the network or server availability
// rather than by the backend rejecting the request.
func IsNetwork(err error) bool {
	switch KindOf(err) {
	case KindTransport, KindHTTP:
		return true
	default:
		return false
	}
}

func errNoSession() *Error {
	return &Error{Kind: KindNoSession, Message: MsgNoSession}
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Message: fmt.Sprintf("%s: %v", op, err), Cause: err}
}
