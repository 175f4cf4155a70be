package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	assert.Equal(t, "Sin conexión", New(ErrCodeOffline, "Sin conexión").Error())
	assert.Equal(t, "Sin conexión: dial tcp: connection refused", Wrap(cause, ErrCodeOffline, "Sin conexión").Error())
	assert.Equal(t, cause.Error(), (&AppError{Code: ErrCodeInternal, Cause: cause}).Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))

	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeSessionExpired, "expired")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeSessionExpired, err.Code)
}

func TestValidationField(t *testing.T) {
	err := fmt.Errorf("create: %w", ValidationField("ids", "at least one id is required"))

	assert.True(t, IsValidation(err))
	assert.Equal(t, "ids", GetField(err))
	assert.Empty(t, GetField(errors.New("plain")))
}

func TestCodeHelpers_ThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"no session", New(ErrCodeNoSession, "No hay sesión activa"), IsNoSession},
		{"invalid credentials", New(ErrCodeInvalidCredentials, "bad"), IsInvalidCredentials},
		{"no role", New(ErrCodeNoRole, "NO_ROLE"), IsNoRole},
		{"offline", New(ErrCodeOffline, "offline"), IsOffline},
		{"session expired", New(ErrCodeSessionExpired, "expired"), IsSessionExpired},
		{"not found", NotFound("missing"), IsNotFound},
		{"validation", Validation("bad input"), IsValidation},
		{"internal", Internalf("boom %d", 1), IsInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(fmt.Errorf("outer: %w", tt.err)))
			assert.False(t, tt.check(errors.New("plain")))
		})
	}
}

func TestHasCode(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), ""))
	assert.True(t, HasCode(New(ErrCodeTimeout, "slow"), ErrCodeTimeout))
	assert.Empty(t, GetCode(errors.New("plain")))
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("login: %w", Wrap(errors.New("boom"), ErrCodeInternal, "No se pudo iniciar sesión"))

	assert.Equal(t, "No se pudo iniciar sesión", Message(err))
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Empty(t, Message(nil))
}
