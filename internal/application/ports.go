package application

import (
	"reflect"

	"webtask-bridge/internal/broker"
)

// Broker is the part of a task broker the adapter needs.
type Broker interface {
	IsWorkerProcess() bool
	AddEventHandler(ev broker.Event, h broker.EventHandler)
	AddDependencyContext(deps map[reflect.Type]any)
}

var _ Broker = (*broker.Broker)(nil)
