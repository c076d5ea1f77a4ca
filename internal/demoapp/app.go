// Package demoapp is a visit counter whose dependency providers are shared
// by its HTTP handlers and its background tasks.
package demoapp

import (
	"context"
	"fmt"

	"webtask-bridge/internal/config"
	"webtask-bridge/internal/importer"
	"webtask-bridge/internal/infrastructure/logx"
	"webtask-bridge/internal/infrastructure/pg"
	redisstore "webtask-bridge/internal/infrastructure/redis"
	"webtask-bridge/internal/webapp"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKey  = "demoapp.redis"
	pgKey     = "demoapp.pg"
	visitsKey = "demoapp.visits"
)

func init() {
	importer.Register("demoapp:New", New)
	importer.Register("demoapp:NewContext", NewContext)
}

// Settings are the connection parameters the app needs at startup.
type Settings struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
}

func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DatabaseURL:   cfg.DatabaseURL,
	}
}

// New builds the app from the environment.
func New() *webapp.Application {
	return NewWithSettings(SettingsFromConfig(config.Load()))
}

// NewContext builds the app from the environment after checking that Redis
// answers, so a worker fails fast on a bad address.
func NewContext(ctx context.Context) (*webapp.Application, error) {
	s := SettingsFromConfig(config.Load())
	client := redis.NewClient(s.redisOptions())
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis %s: %w", s.RedisAddr, err)
	}
	return NewWithSettings(s), nil
}

func NewWithSettings(s Settings) *webapp.Application {
	app := webapp.New(webapp.WithName("demoapp"), webapp.WithLogger(logx.L()))
	app.OnStartup(openRedis(s))
	app.OnCleanup(closeRedis)
	if s.DatabaseURL != "" {
		app.OnStartup(openPostgres(s))
		app.OnCleanup(closePostgres)
	}
	routes(app)
	return app
}

func (s Settings) redisOptions() *redis.Options {
	return &redis.Options{Addr: s.RedisAddr, Password: s.RedisPassword, DB: s.RedisDB}
}

func openRedis(s Settings) webapp.Hook {
	return func(ctx context.Context, app *webapp.Application) error {
		client := redis.NewClient(s.redisOptions())
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("redis %s: %w", s.RedisAddr, err)
		}
		app.Set(redisKey, client)
		app.Set(visitsKey, VisitStore(redisstore.New(client)))
		return nil
	}
}

func closeRedis(_ context.Context, app *webapp.Application) error {
	v, ok := app.Get(redisKey)
	if !ok {
		return nil
	}
	app.Logger().Info("closing redis")
	return v.(*redis.Client).Close()
}

// openPostgres replaces the Redis visit store with the Postgres one.
func openPostgres(s Settings) webapp.Hook {
	return func(ctx context.Context, app *webapp.Application) error {
		db, err := pg.Connect(ctx, s.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return err
		}
		app.Set(pgKey, db)
		app.Set(visitsKey, VisitStore(pg.NewVisitRepo(db)))
		return nil
	}
}

func closePostgres(_ context.Context, app *webapp.Application) error {
	v, ok := app.Get(pgKey)
	if !ok {
		return nil
	}
	app.Logger().Info("closing pg", zap.String("app", app.Name()))
	v.(*pg.DB).Close()
	return nil
}
