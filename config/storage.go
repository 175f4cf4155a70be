package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageBackend selects where the session credential and user session are persisted.
type StorageBackend string

const (
	// StorageBackendFile persists to a JSON document on local disk.
	StorageBackendFile StorageBackend = "file"
	// StorageBackendRedis persists to Redis.
	StorageBackendRedis StorageBackend = "redis"
	// StorageBackendPostgres persists to a PostgreSQL key/value table.
	StorageBackendPostgres StorageBackend = "postgres"
	// StorageBackendMemory keeps state in process memory only.
	StorageBackendMemory StorageBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis", "postgres", "memory":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: file, redis, postgres, memory)", v)
	}
}

// StorageConfig controls local session persistence.
type StorageConfig struct {
	Backend StorageBackend `env:"BACKEND" envDefault:"file"`

	// FilePath is the JSON document used by the file backend.
	FilePath string `env:"FILE_PATH" envDefault:".odoo-school/session.json"`

	// KeyPrefix namespaces keys in shared backends (redis, postgres).
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"odoo:"`

	// TTL expires stored entries in the redis and postgres backends. Zero keeps them until cleared.
	TTL time.Duration `env:"TTL" envDefault:"0s"`

	CredentialKey  string `env:"CREDENTIAL_KEY"   envDefault:"odoo_session_id"`
	UserSessionKey string `env:"USER_SESSION_KEY" envDefault:"user_session"`
}

// Sanitize restores defaults for blank keys and clamps negative TTLs.
func (s *StorageConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StorageBackendFile
	}
	if strings.TrimSpace(s.CredentialKey) == "" {
		s.CredentialKey = "odoo_session_id"
	}
	if strings.TrimSpace(s.UserSessionKey) == "" {
		s.UserSessionKey = "user_session"
	}
	if s.TTL < 0 {
		s.TTL = 0
	}
	s.FilePath = strings.TrimSpace(s.FilePath)
	if s.FilePath == "" {
		s.FilePath = ".odoo-school/session.json"
	}
}
