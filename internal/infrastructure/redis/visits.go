package redisstore

import (
	"context"
	"errors"

	"webtask-bridge/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "visits:"

// Visits keeps visit counters in Redis, one string key per counter.
type Visits struct {
	Client *redis.Client
	Prefix string
}

func New(client *redis.Client) *Visits {
	return &Visits{Client: client, Prefix: defaultPrefix}
}

func (s *Visits) Incr(ctx context.Context, key string) (int64, error) {
	return s.Client.Incr(ctx, s.Prefix+key).Result()
}

func (s *Visits) Get(ctx context.Context, key string) (int64, error) {
	n, err := s.Client.Get(ctx, s.Prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}
