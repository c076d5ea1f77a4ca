// Package webapp is a small application framework on top of chi. An
// Application owns its router, app-scoped values and startup, shutdown and
// cleanup hooks; a Runner drives that lifecycle and exposes the Server that
// dispatches requests into the application.
package webapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context, app *Application) error

type Application struct {
	name string
	log  *zap.Logger

	mu      sync.RWMutex
	router  *chi.Mux
	values  map[string]any
	subapps []*Application
	frozen  bool

	onStartup  []Hook
	onShutdown []Hook
	onCleanup  []Hook
}

type Option func(*Application)

func WithName(name string) Option     { return func(a *Application) { a.name = name } }
func WithLogger(l *zap.Logger) Option { return func(a *Application) { a.log = l } }

func New(opts ...Option) *Application {
	a := &Application{
		name:   "app",
		router: chi.NewRouter(),
		values: map[string]any{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

func (a *Application) Name() string { return a.name }

func (a *Application) Logger() *zap.Logger { return a.log }

// Router returns the router handlers are registered on.
func (a *Application) Router() chi.Router {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.router
}

// Set stores an app-scoped value, typically from a startup hook.
func (a *Application) Set(key string, v any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[key] = v
}

func (a *Application) Get(key string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.values[key]
	return v, ok
}

func (a *Application) OnStartup(h Hook)  { a.addHook(&a.onStartup, h) }
func (a *Application) OnShutdown(h Hook) { a.addHook(&a.onShutdown, h) }

// OnCleanup registers h to release resources. Cleanup hooks run in reverse
// registration order.
func (a *Application) OnCleanup(h Hook) { a.addHook(&a.onCleanup, h) }

func (a *Application) addHook(list *[]Hook, h Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen {
		panic(fmt.Sprintf("webapp: cannot add hooks to frozen application %q", a.name))
	}
	*list = append(*list, h)
}

// Mount attaches sub under prefix. The sub-application's hooks run after
// the parent's.
func (a *Application) Mount(prefix string, sub *Application) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen {
		panic(fmt.Sprintf("webapp: cannot mount on frozen application %q", a.name))
	}
	a.router.Mount(prefix, sub)
	a.subapps = append(a.subapps, sub)
}

func (a *Application) SubApps() []*Application {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]*Application(nil), a.subapps...)
}

// Freeze forbids further hook and mount changes on a and its sub-applications.
func (a *Application) Freeze() {
	a.mu.Lock()
	a.frozen = true
	subs := append([]*Application(nil), a.subapps...)
	a.mu.Unlock()
	for _, s := range subs {
		s.Freeze()
	}
}

func (a *Application) Frozen() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frozen
}

// Startup runs the startup hooks in order, then those of sub-applications.
// It stops at the first error.
func (a *Application) Startup(ctx context.Context) error {
	a.mu.RLock()
	hooks := append([]Hook(nil), a.onStartup...)
	subs := append([]*Application(nil), a.subapps...)
	a.mu.RUnlock()

	for _, h := range hooks {
		if err := h(ctx, a); err != nil {
			return fmt.Errorf("%s startup: %w", a.name, err)
		}
	}
	for _, s := range subs {
		if err := s.Startup(ctx); err != nil {
			return err
		}
	}
	a.log.Debug("webapp.startup_done", zap.String("app", a.name))
	return nil
}

// Shutdown runs every shutdown hook, sub-applications first.
func (a *Application) Shutdown(ctx context.Context) error {
	a.mu.RLock()
	hooks := append([]Hook(nil), a.onShutdown...)
	subs := append([]*Application(nil), a.subapps...)
	a.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		errs = append(errs, s.Shutdown(ctx))
	}
	for _, h := range hooks {
		if err := h(ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("%s shutdown: %w", a.name, err))
		}
	}
	return errors.Join(errs...)
}

// Cleanup runs every cleanup hook in reverse order, sub-applications first.
func (a *Application) Cleanup(ctx context.Context) error {
	a.mu.RLock()
	hooks := append([]Hook(nil), a.onCleanup...)
	subs := append([]*Application(nil), a.subapps...)
	a.mu.RUnlock()

	var errs []error
	for i := len(subs) - 1; i >= 0; i-- {
		errs = append(errs, subs[i].Cleanup(ctx))
	}
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("%s cleanup: %w", a.name, err))
		}
	}
	a.log.Debug("webapp.cleanup_done", zap.String("app", a.name))
	return errors.Join(errs...)
}

// ResetRoutes drops every registered route and mount, leaving an empty
// router. App-scoped values and hooks are kept.
func (a *Application) ResetRoutes() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.router = chi.NewRouter()
}

// RouteCount reports the number of routes reachable from the router.
func (a *Application) RouteCount() int {
	n := 0
	_ = chi.Walk(a.Router(), func(string, string, http.Handler, ...func(http.Handler) http.Handler) error {
		n++
		return nil
	})
	return n
}

// ServeHTTP dispatches r through the router with a as the current
// application.
func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	router := a.router
	a.mu.RUnlock()
	router.ServeHTTP(w, enterApp(r, a))
}
