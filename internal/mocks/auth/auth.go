package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	"github.com/target/odoo-school-client/internal/adapters/memory"
	"github.com/target/odoo-school-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.KeyValueStore   = (*FlakyKeyValueStore)(nil)
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
)

// FlakyKeyValueStore wraps an in-memory store and fails operations on demand.
type FlakyKeyValueStore struct {
	*memory.KeyValueStore

	GetErr    error
	SetErr    error
	DeleteErr error
}

// NewFlakyKeyValueStore creates a FlakyKeyValueStore that succeeds until an error field is set.
func NewFlakyKeyValueStore() *FlakyKeyValueStore {
	return &FlakyKeyValueStore{KeyValueStore: memory.NewKeyValueStore()}
}

func (f *FlakyKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	if f.GetErr != nil {
		return "", f.GetErr
	}
	return f.KeyValueStore.Get(ctx, key)
}

func (f *FlakyKeyValueStore) Set(ctx context.Context, key, value string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	return f.KeyValueStore.Set(ctx, key, value)
}

func (f *FlakyKeyValueStore) Delete(ctx context.Context, key string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	return f.KeyValueStore.Delete(ctx, key)
}

// MemoryCredentialStore is an in-memory credential store that counts clears.
type MemoryCredentialStore struct {
	mu     sync.Mutex
	token  string
	clears int
}

// NewMemoryCredentialStore creates a store holding token ("" for empty).
func NewMemoryCredentialStore(token string) *MemoryCredentialStore {
	return &MemoryCredentialStore{token: token}
}

func (m *MemoryCredentialStore) Get(_ context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MemoryCredentialStore) Set(_ context.Context, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *MemoryCredentialStore) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.clears++
}

// Clears returns how many times Clear was called.
func (m *MemoryCredentialStore) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}
