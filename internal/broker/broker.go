package broker

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"webtask-bridge/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

// Broker is the in-process core of a task broker: lifecycle events, the
// per-process state, the dependency context and dependency-injected calls.
type Broker struct {
	isWorker bool
	log      *zap.Logger
	metrics  *metrics.Lifecycle

	mu       sync.RWMutex
	handlers map[Event][]EventHandler
	deps     map[reflect.Type]any
	tasks    map[string]*task

	phase sync.Mutex
	state *State
}

type Option func(*Broker)

// WithWorkerProcess marks the broker as running inside a worker process.
func WithWorkerProcess(v bool) Option { return func(b *Broker) { b.isWorker = v } }
func WithLogger(l *zap.Logger) Option { return func(b *Broker) { b.log = l } }
func WithMetrics(m *metrics.Lifecycle) Option {
	return func(b *Broker) { b.metrics = m }
}

func New(opts ...Option) *Broker {
	b := &Broker{
		handlers: map[Event][]EventHandler{},
		deps:     map[reflect.Type]any{},
		tasks:    map[string]*task{},
		state:    NewState(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b
}

func (b *Broker) IsWorkerProcess() bool { return b.isWorker }

func (b *Broker) State() *State { return b.state }

// AddEventHandler appends h to the handlers of ev.
func (b *Broker) AddEventHandler(ev Event, h EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[ev] = append(b.handlers[ev], h)
}

// AddDependencyContext binds instances by type. Existing bindings for the
// same type are replaced.
func (b *Broker) AddDependencyContext(deps map[reflect.Type]any) {
	b.mu.Lock()
	for t, v := range deps {
		b.deps[t] = v
	}
	n := len(b.deps)
	b.mu.Unlock()
	b.metrics.SetDependencies(n)
}

// Dependencies returns a copy of the dependency context.
func (b *Broker) Dependencies() map[reflect.Type]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[reflect.Type]any, len(b.deps))
	for t, v := range b.deps {
		out[t] = v
	}
	return out
}

// Startup runs the startup handlers for this process kind in registration
// order, stopping at the first failure.
func (b *Broker) Startup(ctx context.Context) error {
	if !b.phase.TryLock() {
		return ErrLifecycleInProgress
	}
	defer b.phase.Unlock()

	ev := ClientStartup
	if b.isWorker {
		ev = WorkerStartup
	}
	for i, h := range b.eventHandlers(ev) {
		if err := b.run(ctx, ev, h); err != nil {
			b.log.Error("broker.startup_failed", zap.String("event", string(ev)), zap.Int("handler", i), zap.Error(err))
			return fmt.Errorf("%s handler %d: %w", ev, i, err)
		}
	}
	b.log.Info("broker.startup_done", zap.String("event", string(ev)))
	return nil
}

// Shutdown runs every shutdown handler for this process kind and joins
// their errors.
func (b *Broker) Shutdown(ctx context.Context) error {
	if !b.phase.TryLock() {
		return ErrLifecycleInProgress
	}
	defer b.phase.Unlock()

	ev := ClientShutdown
	if b.isWorker {
		ev = WorkerShutdown
	}
	var errs []error
	for i, h := range b.eventHandlers(ev) {
		if err := b.run(ctx, ev, h); err != nil {
			b.log.Warn("broker.shutdown_handler_failed", zap.String("event", string(ev)), zap.Int("handler", i), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s handler %d: %w", ev, i, err))
		}
	}
	b.log.Info("broker.shutdown_done", zap.String("event", string(ev)), zap.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func (b *Broker) eventHandlers(ev Event) []EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]EventHandler(nil), b.handlers[ev]...)
}

func (b *Broker) run(ctx context.Context, ev Event, h EventHandler) error {
	start := time.Now()
	err := h(ctx, b.state)
	b.metrics.ObserveEvent(string(ev), start, err)
	return err
}
