package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyValueStore_TableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		want    string
		wantErr bool
	}{
		{name: "default", table: "", want: DefaultTable},
		{name: "custom", table: "school_kv", want: "school_kv"},
		{name: "injection", table: "kv; DROP TABLE users", wantErr: true},
		{name: "uppercase", table: "KV", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewKeyValueStore(fakeDB(), KeyValueStoreOptions{Table: tt.table})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, s.table)
		})
	}
}

func TestKeyValueStore_ExpiresAt(t *testing.T) {
	s := &KeyValueStore{}
	assert.False(t, s.expiresAt().Valid)

	s.ttl = time.Hour
	exp := s.expiresAt()
	assert.True(t, exp.Valid)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func fakeDB() *sql.DB { return new(sql.DB) }
