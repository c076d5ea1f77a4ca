//go:build wireinject

package bootstrap

import (
	"context"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
)

// Worker injector: builds the worker process.
func InitWorker() (*WorkerApp, error) {
	wire.Build(
		infraSet,
		ProvideMetrics,
		ProvideWorkerBroker,
		ProvideHealth,
		ProvideWorker,
	)
	return nil, nil
}

// API injector: builds the HTTP process.
func InitAPI(ctx context.Context) (*APIApp, error) {
	wire.Build(
		infraSet,
		ProvideAPI,
	)
	return nil, nil
}
