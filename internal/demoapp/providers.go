package demoapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"webtask-bridge/internal/webapp"

	"github.com/redis/go-redis/v9"
)

// VisitStore counts visits per key.
type VisitStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
}

var ErrNotStarted = errors.New("demoapp: dependency not initialized; was the app started?")

func fromRequest[T any](r *http.Request, key string) (T, error) {
	var zero T
	app := webapp.AppFromRequest(r)
	if app == nil {
		return zero, fmt.Errorf("%w: request has no application", ErrNotStarted)
	}
	v, ok := app.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNotStarted, key)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("demoapp: %s holds %T", key, v)
	}
	return t, nil
}

// RedisFromRequest returns the Redis client of the app r is bound to.
func RedisFromRequest(r *http.Request) (*redis.Client, error) {
	return fromRequest[*redis.Client](r, redisKey)
}

// VisitsFromRequest returns the visit store of the app r is bound to.
func VisitsFromRequest(r *http.Request) (VisitStore, error) {
	return fromRequest[VisitStore](r, visitsKey)
}
