package bootstrap

import (
	"context"
	"fmt"

	"webtask-bridge/internal/application"
	"webtask-bridge/internal/broker"
	"webtask-bridge/internal/config"
	"webtask-bridge/internal/demoapp"
	"webtask-bridge/internal/importer"
	"webtask-bridge/internal/infrastructure/grpc/healthserver"
	"webtask-bridge/internal/infrastructure/logx"
	"webtask-bridge/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ProvideMetrics() *metrics.Lifecycle { return metrics.NewLifecycle() }

// ProvideWorkerBroker builds the broker of a worker process.
func ProvideWorkerBroker(log *zap.Logger, m *metrics.Lifecycle) *broker.Broker {
	return broker.New(
		broker.WithWorkerProcess(true),
		broker.WithLogger(log.Named("broker")),
		broker.WithMetrics(m),
	)
}

func ProvideHealth(log *zap.Logger) *healthserver.Health {
	return healthserver.New(log.Named("health"))
}

// ProvideWorker hooks the configured web application into the broker and
// registers the demo tasks.
func ProvideWorker(cfg config.Config, b *broker.Broker, h *healthserver.Health, m *metrics.Lifecycle, log *zap.Logger) (*WorkerApp, error) {
	err := application.Init(b, cfg.AppPath,
		application.WithLogger(log.Named("webtask")),
		application.WithRouteReset(cfg.ResetRoutes),
		application.WithRequestURL(cfg.MockRequestURL),
	)
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", cfg.AppPath, err)
	}
	if err := demoapp.RegisterTasks(b); err != nil {
		return nil, fmt.Errorf("register tasks: %w", err)
	}
	return &WorkerApp{Broker: b, Health: h, Metrics: m, Cfg: cfg, Log: log}, nil
}

// ProvideAPI resolves the configured web application for serving over HTTP.
func ProvideAPI(ctx context.Context, cfg config.Config, log *zap.Logger) (*APIApp, error) {
	app, err := application.LoadApp(ctx, importer.Default(), cfg.AppPath)
	if err != nil {
		return nil, err
	}
	return &APIApp{App: app, Cfg: cfg, Log: log}, nil
}
