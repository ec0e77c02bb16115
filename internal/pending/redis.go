package pending

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "verify_panel:pending"

type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: redisKeyPrefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(adminID int64) string {
	return s.prefix + ":" + strconv.FormatInt(adminID, 10)
}

func (s *RedisStore) Get(ctx context.Context, adminID int64) (Kind, bool, error) {
	value, err := s.client.Get(ctx, s.key(adminID)).Result()
	return s.decode(value, err)
}

func (s *RedisStore) Set(ctx context.Context, adminID int64, kind Kind) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	// zero ttl keeps the key until it is taken
	if err := s.client.Set(ctx, s.key(adminID), string(kind), s.ttl).Err(); err != nil {
		return fmt.Errorf("set pending input: %w", err)
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, adminID int64) (Kind, bool, error) {
	value, err := s.client.GetDel(ctx, s.key(adminID)).Result()
	return s.decode(value, err)
}

func (s *RedisStore) Clear(ctx context.Context, adminID int64) error {
	if err := s.client.Del(ctx, s.key(adminID)).Err(); err != nil {
		return fmt.Errorf("clear pending input: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) decode(value string, err error) (Kind, bool, error) {
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read pending input: %w", err)
	}
	kind, err := ParseKind(value)
	if err != nil {
		return "", false, err
	}
	return kind, true, nil
}

// NewStore picks Redis when addr is set and reachable, and falls back to memory otherwise.
// The returned error reports a failed Redis ping; the store is usable either way.
func NewStore(ctx context.Context, addr, pass string, db int, ttl time.Duration) (Store, error) {
	if addr == "" {
		return NewMemoryStore(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return NewMemoryStore(ttl), err
	}

	return NewRedisStore(client, ttl), nil
}
