package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/storage"
)

// KeyPrefix namespaces every key written by the store.
const KeyPrefix = constants.AppName + ":"

// Store is a storage.Backend over plain Redis string keys.
type Store struct {
	client   *redis.Client
	location string
}

// Open parses a redis:// or rediss:// URL and checks the connection.
func Open(ctx context.Context, rawURL string) (*Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 4

	s := NewWithClient(redis.NewClient(opts), storage.Redact(rawURL))
	if err := s.Ping(ctx); err != nil {
		logger.Error("redis_connection_failed", "addr", opts.Addr, "error", err)
		s.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Debug("redis_connected", "addr", opts.Addr, "db", opts.DB)
	return s, nil
}

// NewWithClient wraps an existing client. location is what Describe returns.
func NewWithClient(client *redis.Client, location string) *Store {
	return &Store{client: client, location: location}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *Store) Describe() string { return s.location }
