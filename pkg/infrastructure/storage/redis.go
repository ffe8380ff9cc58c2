package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "farmconnect:"

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, address string) (Store, error) {
	client := redis.NewClient(&redis.Options{Addr: address})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", address)
	}
	return &redisStore{client: client}, nil
}

func (s *redisStore) Get(ctx context.Context, slot string) ([]byte, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return value, errors.Wrapf(err, "redis get %s", slot)
}

func (s *redisStore) Set(ctx context.Context, slot string, value []byte) error {
	return errors.Wrapf(s.client.Set(ctx, redisKeyPrefix+slot, value, 0).Err(), "redis set %s", slot)
}

func (s *redisStore) Remove(ctx context.Context, slot string) error {
	return errors.Wrapf(s.client.Del(ctx, redisKeyPrefix+slot).Err(), "redis del %s", slot)
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
