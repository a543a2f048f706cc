package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cokothon/utils"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned when no live session exists for an id.
var ErrNotFound = errors.New("session not found")

type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps sealed sessions under utils.SessionPrefix. Every save
// refreshes the TTL.
type RedisStore struct {
	client *redis.Client
	sealer *utils.Sealer
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, sealer *utils.Sealer, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, sealer: sealer, ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return utils.SessionPrefix + id
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	plain, err := r.sealer.Open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	var s Session
	if err := sonic.ConfigStd.Unmarshal(plain, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	plain, err := sonic.ConfigStd.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	sealed, err := r.sealer.Seal(plain)
	if err != nil {
		return fmt.Errorf("failed to seal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), sealed, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
