package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/odoo-school-client/internal/ports"
)

func TestFlakyKeyValueStore_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	kv := NewFlakyKeyValueStore()

	require.NoError(t, kv.Set(ctx, "k", "v"))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	boom := errors.New("disk full")
	kv.GetErr = boom
	kv.SetErr = boom
	kv.DeleteErr = boom

	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, kv.Set(ctx, "k", "w"), boom)
	assert.ErrorIs(t, kv.Delete(ctx, "k"), boom)

	kv.GetErr = nil
	got, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got, "failed writes must not change stored data")

	_, err = kv.KeyValueStore.Get(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMemoryCredentialStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCredentialStore("tok")

	assert.Equal(t, "tok", s.Get(ctx))
	s.Clear(ctx)
	s.Clear(ctx)
	assert.Empty(t, s.Get(ctx))
	assert.Equal(t, 2, s.Clears())

	s.Set(ctx, "other")
	assert.Equal(t, "other", s.Get(ctx))
}
