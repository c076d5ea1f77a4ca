package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"webtask-bridge/internal/application"
	"webtask-bridge/internal/broker"
	"webtask-bridge/internal/config"
	"webtask-bridge/internal/infrastructure/grpc/healthserver"
	"webtask-bridge/internal/infrastructure/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WorkerApp is the worker process: broker lifecycle plus the health and
// metrics endpoints.
type WorkerApp struct {
	Broker  *broker.Broker
	Health  *healthserver.Health
	Metrics *metrics.Lifecycle
	Cfg     config.Config
	Log     *zap.Logger
}

var _ application.Worker = (*WorkerApp)(nil)

// Start runs the worker until ctx is done or one of its servers fails.
func (w *WorkerApp) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := w.Health.RunServer(gctx, w.Cfg.GRPCAddr); err != nil {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	if w.Cfg.MetricsAddr != "" {
		g.Go(func() error { return serveHTTP(gctx, w.Log, w.Cfg.MetricsAddr, w.Metrics.Handler()) })
	}
	g.Go(func() error { return w.run(gctx) })
	return g.Wait()
}

func (w *WorkerApp) run(ctx context.Context) error {
	start := time.Now()
	if err := w.Broker.Startup(ctx); err != nil {
		return fmt.Errorf("worker startup: %w", err)
	}
	w.Health.Ready()
	w.Log.Info("worker.startup_done",
		zap.Duration("took", time.Since(start)),
		zap.Int("dependencies", len(w.Broker.Dependencies())),
	)

	<-ctx.Done()

	w.Health.Draining()
	shCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.Cfg.ShutdownTimeout)
	defer cancel()
	if err := w.Broker.Shutdown(shCtx); err != nil {
		w.Log.Error("worker.shutdown_failed", zap.Error(err))
		return fmt.Errorf("worker shutdown: %w", err)
	}
	w.Log.Info("worker.shutdown_done")
	return nil
}

// serveHTTP serves h on addr until ctx is done.
func serveHTTP(ctx context.Context, log *zap.Logger, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("http_server_started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server %s: %w", addr, err)
	}
}
