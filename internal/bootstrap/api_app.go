package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"webtask-bridge/internal/config"
	"webtask-bridge/internal/webapp"

	"go.uber.org/zap"
)

// APIApp serves the configured web application over HTTP.
type APIApp struct {
	App *webapp.Application
	Cfg config.Config
	Log *zap.Logger
}

// Start sets the application up, serves it on PORT until ctx is done, then
// shuts it down and cleans up.
func (a *APIApp) Start(ctx context.Context) error {
	runner := webapp.NewRunner(a.App)
	if err := runner.Setup(ctx); err != nil {
		return fmt.Errorf("app setup: %w", err)
	}
	serveErr := serveHTTP(ctx, a.Log, ":"+a.Cfg.Port, runner.Server())

	shCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Cfg.ShutdownTimeout)
	defer cancel()
	err := errors.Join(serveErr, runner.Shutdown(shCtx), runner.Cleanup(shCtx))
	if err != nil {
		return err
	}
	a.Log.Info("server stopped")
	return nil
}
