// Package errors is the application error taxonomy shared by services, storage
// adapters and the CLI. AppError.Message is always safe to show to a user;
// the technical detail lives in Cause.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorises an AppError.
type ErrorCode string

// Generic and storage codes.
const (
	ErrCodeNotFound    ErrorCode = "not_found"
	ErrCodeValidation  ErrorCode = "validation"
	ErrCodeInternal    ErrorCode = "internal"
	ErrCodeTimeout     ErrorCode = "timeout"
	ErrCodeCanceled    ErrorCode = "canceled"
	ErrCodeUnavailable ErrorCode = "unavailable"
)

// Session codes. NO_SESSION and NO_ROLE are upper case because screens match on them.
const (
	// ErrCodeNoSession: an authenticated operation was attempted while logged out.
	ErrCodeNoSession ErrorCode = "NO_SESSION"
	// ErrCodeInvalidCredentials: Odoo rejected the login or password.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeNoRole: the login succeeded but the account carries no school role.
	ErrCodeNoRole ErrorCode = "NO_ROLE"
	// ErrCodeOffline: the Odoo server could not be reached.
	ErrCodeOffline ErrorCode = "offline"
	// ErrCodeSessionExpired: Odoo no longer accepts the stored session.
	ErrCodeSessionExpired ErrorCode = "session_expired"
)

// AppError carries a code, a user-facing message and an optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending input for validation errors.
	Field string
}

func (e *AppError) Error() string {
	switch {
	case e.Cause == nil:
		return e.Message
	case e.Message == "":
		return e.Cause.Error()
	default:
		return e.Message + ": " + e.Cause.Error()
	}
}

func (e *AppError) Unwrap() error { return e.Cause }

// New returns an AppError without a cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches code and message to err. It returns nil for a nil err.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func NotFound(message string) *AppError   { return New(ErrCodeNotFound, message) }
func Validation(message string) *AppError { return New(ErrCodeValidation, message) }

// ValidationField is a validation error tied to one input field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

func Internalf(format string, args ...any) *AppError {
	return New(ErrCodeInternal, fmt.Sprintf(format, args...))
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

func IsNotFound(err error) bool           { return HasCode(err, ErrCodeNotFound) }
func IsValidation(err error) bool         { return HasCode(err, ErrCodeValidation) }
func IsInternal(err error) bool           { return HasCode(err, ErrCodeInternal) }
func IsNoSession(err error) bool          { return HasCode(err, ErrCodeNoSession) }
func IsInvalidCredentials(err error) bool { return HasCode(err, ErrCodeInvalidCredentials) }
func IsNoRole(err error) bool             { return HasCode(err, ErrCodeNoRole) }
func IsOffline(err error) bool            { return HasCode(err, ErrCodeOffline) }
func IsSessionExpired(err error) bool     { return HasCode(err, ErrCodeSessionExpired) }

// GetCode returns the code of the outermost AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field of the outermost AppError in err's chain, or "".
func GetField(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Field
	}
	return ""
}

// Message returns the user-facing message of the outermost AppError, or err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := asAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
