package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
)

var Rdb *redis.Client

// InitRedis connects the shared client and verifies it with a PING.
func InitRedis(ctx context.Context, address, username, password string) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
	if err := Rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("address", address).Msg("failed to reach redis")
		return fmt.Errorf("redis ping %s: %w", address, err)
	}
	log.Info().Str("address", address).Msg("connected to redis")
	return nil
}

// Store is a kv.Store over a redis client. Entries expire after ttl when ttl
// is positive.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

var (
	_ kv.Store        = (*Store)(nil)
	_ kv.SuffixLister = (*Store)(nil)
)

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to add key to redis")
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Keys walks the keyspace with SCAN so large caches never block the server.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.scan(ctx, globEscape(prefix)+"*")
}

func (s *Store) KeysWithSuffix(ctx context.Context, prefix, suffix string) ([]string, error) {
	return s.scan(ctx, globEscape(prefix)+"*"+globEscape(suffix))
}

func (s *Store) scan(ctx context.Context, match string) ([]string, error) {
	out := make([]string, 0)
	iter := s.client.Scan(ctx, 0, match, 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", match, err)
	}
	sort.Strings(out)
	return out, nil
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// globEscape quotes the SCAN MATCH metacharacters in s.
func globEscape(s string) string {
	return globReplacer.Replace(s)
}
