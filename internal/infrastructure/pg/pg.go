package pg

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns = 5
	defaultMinConns = 1
)

type DB struct{ Pool *pgxpool.Pool }

// Connect opens a pool and waits, with backoff, until the server answers a
// ping.
func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns, cfg.MinConns = defaultMaxConns, defaultMinConns
	cfg.MaxConnIdleTime = 2 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := waitReady(ctx, pool.Ping); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close()                         { d.Pool.Close() }
func (d *DB) Ping(ctx context.Context) error { return d.Pool.Ping(ctx) }

// waitReady retries ping; containers may not accept connections right away.
func waitReady(ctx context.Context, ping func(context.Context) error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = 15 * time.Second
	return backoff.Retry(func() error { return ping(ctx) }, backoff.WithContext(exp, ctx))
}
