package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/odoo-school-client/config"
	"github.com/target/odoo-school-client/internal/adapters/filestore"
	"github.com/target/odoo-school-client/internal/adapters/memory"
	pgadapter "github.com/target/odoo-school-client/internal/adapters/postgres"
	redisadapter "github.com/target/odoo-school-client/internal/adapters/redis"
	"github.com/target/odoo-school-client/internal/ports"
)

// StorageConfig contains configuration for the session storage backend.
type StorageConfig struct {
	App    config.AppConfig
	Logger *slog.Logger
}

// Storage is an opened key/value backend and the function that releases it.
type Storage struct {
	KV      ports.KeyValueStore
	Backend config.StorageBackend
	closeFn func() error
}

// Close releases backend connections. It is safe to call on a nil Storage.
func (s *Storage) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// BuildStorage opens the key/value backend selected by STORAGE_BACKEND.
func BuildStorage(ctx context.Context, cfg StorageConfig) (*Storage, error) {
	st := cfg.App.Storage

	switch st.Backend {
	case config.StorageBackendMemory:
		return &Storage{KV: memory.NewKeyValueStore(), Backend: st.Backend}, nil

	case config.StorageBackendRedis:
		client, err := ConnectRedis(ctx, DatabaseConfig{RedisConfig: cfg.App.Redis, Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		kv := redisadapter.NewKeyValueStore(client, redisadapter.KeyValueStoreOptions{
			Prefix: st.KeyPrefix,
			TTL:    st.TTL,
		})
		return &Storage{KV: kv, Backend: st.Backend, closeFn: client.Close}, nil

	case config.StorageBackendPostgres:
		return buildPostgresStorage(ctx, cfg)

	case config.StorageBackendFile, "":
		kv, err := filestore.NewKeyValueStore(st.FilePath)
		if err != nil {
			return nil, err
		}
		return &Storage{KV: kv, Backend: config.StorageBackendFile}, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", st.Backend)
	}
}

func buildPostgresStorage(ctx context.Context, cfg StorageConfig) (*Storage, error) {
	db, err := ConnectDB(ctx, DatabaseConfig{DBConfig: cfg.App.Postgres, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	kv, err := pgadapter.NewKeyValueStore(db, pgadapter.KeyValueStoreOptions{
		Table: pgTableName(cfg.App.Storage.KeyPrefix),
		TTL:   cfg.App.Storage.TTL,
	})
	if err == nil {
		err = kv.EnsureSchema(ctx)
	}
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, err
	}
	return &Storage{KV: kv, Backend: config.StorageBackendPostgres, closeFn: db.Close}, nil
}

// pgTableName derives the table from the key prefix so several deployments can
// share one database: "odoo:" becomes "odoo_kv_store".
func pgTableName(prefix string) string {
	clean := make([]rune, 0, len(prefix))
	for _, r := range prefix {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			clean = append(clean, r)
		case r >= 'A' && r <= 'Z':
			clean = append(clean, r+('a'-'A'))
		}
	}
	if len(clean) == 0 || (clean[0] >= '0' && clean[0] <= '9') {
		return pgadapter.DefaultTable
	}
	return string(clean) + "_" + pgadapter.DefaultTable
}
