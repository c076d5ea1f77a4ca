package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"webtask-bridge/internal/broker"
	"webtask-bridge/internal/importer"
	"webtask-bridge/internal/webapp"

	"go.uber.org/zap"
)

// DefaultRequestURL is the origin of the representative request.
const DefaultRequestURL = "https://test.com/"

// Dependency context keys the startup handler publishes under.
var (
	AppType     = reflect.TypeOf((*webapp.Application)(nil))
	RequestType = reflect.TypeOf((*http.Request)(nil))
)

type runnerKey struct{}

type options struct {
	log         *zap.Logger
	resetRoutes bool
	requestURL  string
	importer    *importer.Registry
}

// Option configures Init.
type Option func(*options)

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithRouteReset controls whether the application's routes are dropped
// once the worker has published it. Defaults to true.
func WithRouteReset(v bool) Option { return func(o *options) { o.resetRoutes = v } }

// WithRequestURL sets the scheme and host of the representative request.
func WithRequestURL(u string) Option { return func(o *options) { o.requestURL = u } }

// WithImporter resolves locators from r instead of the default registry.
func WithImporter(r *importer.Registry) Option { return func(o *options) { o.importer = r } }

// Init wires a web application into a worker's lifecycle so task handlers
// can declare *webapp.Application and *http.Request parameters.
//
// Outside a worker process Init does nothing. Otherwise it imports appPath
// and registers startup and shutdown handlers on b. Import and option
// errors are returned immediately; everything else surfaces from the
// broker's startup.
func Init(b Broker, appPath string, opts ...Option) error {
	if !b.IsWorkerProcess() {
		return nil
	}
	o := options{
		resetRoutes: true,
		requestURL:  DefaultRequestURL,
		importer:    importer.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if _, err := parseRequestURL(o.requestURL); err != nil {
		return err
	}
	obj, err := o.importer.Import(appPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	src := NewAppSource(obj)
	o.log.Info("webtask.init", zap.String("app_path", appPath), zap.String("source", src.Kind()))

	b.AddEventHandler(broker.WorkerStartup, startupHandler(b, appPath, src, o))
	b.AddEventHandler(broker.WorkerShutdown, shutdownHandler(o))
	return nil
}

func startupHandler(b Broker, appPath string, src AppSource, o options) broker.EventHandler {
	return func(ctx context.Context, state *broker.State) error {
		start := time.Now()
		log := o.log.With(zap.String("app_path", appPath))

		obj, err := src.Resolve(ctx)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", appPath, err)
		}
		app, err := asApplication(appPath, obj)
		if err != nil {
			return err
		}

		runner := webapp.NewRunner(app)
		if err := runner.Setup(ctx); err != nil {
			releaseApp(ctx, app, log)
			return fmt.Errorf("setup %s: %w", appPath, err)
		}
		if runner.Server() == nil {
			releaseApp(ctx, app, log)
			return fmt.Errorf("%w: cannot construct web app to mock requests", ErrEnvironment)
		}

		req, err := NewMockRequest(context.WithoutCancel(ctx), app, o.requestURL)
		if err != nil {
			if rerr := errors.Join(runner.Shutdown(ctx), runner.Cleanup(ctx)); rerr != nil {
				log.Warn("webtask.release_failed", zap.Error(rerr))
			}
			return err
		}

		b.AddDependencyContext(map[reflect.Type]any{
			AppType:     app,
			RequestType: req,
		})
		state.Set(runnerKey{}, runner)

		if o.resetRoutes {
			app.ResetRoutes()
		}
		log.Info("webtask.startup_done",
			zap.String("app", app.Name()),
			zap.Bool("routes_reset", o.resetRoutes),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}
}

func shutdownHandler(o options) broker.EventHandler {
	return func(ctx context.Context, state *broker.State) error {
		runner, ok := RunnerFromState(state)
		if !ok {
			return ErrMissingState
		}
		state.Delete(runnerKey{})
		err := errors.Join(runner.Shutdown(ctx), runner.Cleanup(ctx))
		o.log.Info("webtask.shutdown_done", zap.String("app", runner.App().Name()), zap.Error(err))
		return err
	}
}

// RunnerFromState returns the runner stored by a successful startup.
func RunnerFromState(state *broker.State) (*webapp.Runner, bool) {
	v, ok := state.Get(runnerKey{})
	if !ok {
		return nil, false
	}
	r, ok := v.(*webapp.Runner)
	return r, ok
}

func releaseApp(ctx context.Context, app *webapp.Application, log *zap.Logger) {
	if err := errors.Join(app.Shutdown(ctx), app.Cleanup(ctx)); err != nil {
		log.Warn("webtask.release_failed", zap.Error(err))
	}
}
