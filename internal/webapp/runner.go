package webapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrAlreadySetup = errors.New("runner already set up")
	ErrNotSetup     = errors.New("runner not set up")
)

// Server is the request entry point of a started application.
type Server struct {
	app     *Application
	handler http.Handler
}

func newServer(app *Application, log *zap.Logger) *Server {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.ServeHTTP(w, WithApp(r, app))
	})
	h = accessLog(log)(h)
	h = recoverer(log)(h)
	h = requestID()(h)
	return &Server{app: app, handler: h}
}

func (s *Server) App() *Application { return s.app }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.handler.ServeHTTP(w, r) }

// Runner drives an application's lifecycle: Setup, then Shutdown and
// Cleanup once the process is done with it.
type Runner struct {
	app *Application
	log *zap.Logger

	mu     sync.Mutex
	server *Server
}

func NewRunner(app *Application) *Runner {
	return &Runner{app: app, log: app.Logger()}
}

func (r *Runner) App() *Application { return r.app }

// Server returns the server built by Setup, or nil before Setup and after
// Cleanup.
func (r *Runner) Server() *Server {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.server
}

// Setup freezes the application, runs its startup hooks and builds the
// server.
func (r *Runner) Setup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.server != nil {
		return ErrAlreadySetup
	}
	r.app.Freeze()
	if err := r.app.Startup(ctx); err != nil {
		return fmt.Errorf("setup %s: %w", r.app.Name(), err)
	}
	r.server = newServer(r.app, r.log)
	r.log.Info("webapp.runner_setup", zap.String("app", r.app.Name()))
	return nil
}

// Shutdown runs the application's shutdown hooks.
func (r *Runner) Shutdown(ctx context.Context) error {
	if r.Server() == nil {
		return ErrNotSetup
	}
	return r.app.Shutdown(ctx)
}

// Cleanup runs the application's cleanup hooks and drops the server.
func (r *Runner) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.server == nil {
		return ErrNotSetup
	}
	err := r.app.Cleanup(ctx)
	r.server = nil
	r.log.Info("webapp.runner_cleanup", zap.String("app", r.app.Name()), zap.Error(err))
	return err
}
