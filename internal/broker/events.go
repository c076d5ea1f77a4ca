package broker

import (
	"context"
	"sync"
)

// Event names a phase of the broker process lifecycle.
type Event string

const (
	WorkerStartup  Event = "worker_startup"
	WorkerShutdown Event = "worker_shutdown"
	ClientStartup  Event = "client_startup"
	ClientShutdown Event = "client_shutdown"
)

// EventHandler runs at a lifecycle phase. It receives the per-process state
// shared by every handler of this broker.
type EventHandler func(ctx context.Context, state *State) error

// State is the explicit per-process record handed to event handlers.
// Callers should key entries with unexported types, as with context values.
type State struct {
	mu     sync.RWMutex
	values map[any]any
}

func NewState() *State { return &State{values: map[any]any{}} }

func (s *State) Set(key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *State) Get(key any) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *State) Delete(key any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
