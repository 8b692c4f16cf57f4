package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
)

// KV is a kv.Store over the kv_entries table. It holds the sealed per-user
// schedule documents when no Redis is configured.
type KV struct {
	db *sqlx.DB
}

var (
	_ kv.Store        = (*KV)(nil)
	_ kv.SuffixLister = (*KV)(nil)
)

func NewKV(db *sqlx.DB) *KV {
	if db == nil {
		db = DB
	}
	return &KV{db: db}
}

func (s *KV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_entries WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to read kv entry")
		return "", err
	}
	return value, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		updated_at = now()
		`, key, value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to write kv entry")
	}
	return err
}

func (s *KV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

func (s *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.SelectContext(ctx, &keys, `
		SELECT key
		FROM kv_entries
		WHERE starts_with(key, $1)
		ORDER BY key
		`, prefix)
	return keys, err
}

// KeysWithSuffix filters in SQL so anchor lookups only read one method and date.
func (s *KV) KeysWithSuffix(ctx context.Context, prefix, suffix string) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.SelectContext(ctx, &keys, `
		SELECT key
		FROM kv_entries
		WHERE starts_with(key, $1) AND right(key, length($2)) = $2
		ORDER BY key
		`, prefix, suffix)
	return keys, err
}
