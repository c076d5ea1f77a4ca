package application

import (
	"context"
	"reflect"

	"webtask-bridge/internal/broker"
	"webtask-bridge/internal/importer"
	"webtask-bridge/internal/webapp"
)

type fakeBroker struct {
	worker   bool
	handlers map[broker.Event][]broker.EventHandler
	deps     map[reflect.Type]any
	depCalls int
}

func (f *fakeBroker) IsWorkerProcess() bool { return f.worker }

func (f *fakeBroker) AddEventHandler(ev broker.Event, h broker.EventHandler) {
	if f.handlers == nil {
		f.handlers = map[broker.Event][]broker.EventHandler{}
	}
	f.handlers[ev] = append(f.handlers[ev], h)
}

func (f *fakeBroker) AddDependencyContext(deps map[reflect.Type]any) {
	f.depCalls++
	if f.deps == nil {
		f.deps = map[reflect.Type]any{}
	}
	for k, v := range deps {
		f.deps[k] = v
	}
}

func (f *fakeBroker) fire(ctx context.Context, ev broker.Event, state *broker.State) error {
	for _, h := range f.handlers[ev] {
		if err := h(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// lifecycleApp counts its own hook invocations.
type lifecycleApp struct {
	app *webapp.Application

	startups, shutdowns, cleanup int
}

func newLifecycleApp() *lifecycleApp {
	l := &lifecycleApp{app: webapp.New(webapp.WithName("counted"))}
	l.app.OnStartup(func(context.Context, *webapp.Application) error { l.startups++; return nil })
	l.app.OnShutdown(func(context.Context, *webapp.Application) error { l.shutdowns++; return nil })
	l.app.OnCleanup(func(context.Context, *webapp.Application) error { l.cleanup++; return nil })
	return l
}

func registryWith(path string, obj any) *importer.Registry {
	r := importer.NewRegistry()
	r.Register(path, obj)
	return r
}
