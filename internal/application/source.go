package application

import (
	"context"
	"fmt"

	"webtask-bridge/internal/importer"
	"webtask-bridge/internal/webapp"
)

type sourceKind int

const (
	sourceInvalid sourceKind = iota
	sourceInstance
	sourceFactory
	sourceFallibleFactory
	sourceContextFactory
	sourceAnyFactory
)

func (k sourceKind) String() string {
	switch k {
	case sourceInstance:
		return "instance"
	case sourceFactory, sourceFallibleFactory, sourceAnyFactory:
		return "factory"
	case sourceContextFactory:
		return "context factory"
	default:
		return "invalid"
	}
}

// AppSource is an imported object normalized into one of the shapes the
// adapter accepts:
//
//	*webapp.Application
//	func() *webapp.Application
//	func() (*webapp.Application, error)
//	func(context.Context) (*webapp.Application, error)
//	func() any
//
// Anything else is kept as an invalid source and fails on Resolve.
type AppSource struct {
	kind sourceKind
	raw  any

	app            *webapp.Application
	factory        func() *webapp.Application
	fallible       func() (*webapp.Application, error)
	contextFactory func(context.Context) (*webapp.Application, error)
	anyFactory     func() any
}

// NewAppSource classifies obj. Nil funcs and nil applications are invalid.
func NewAppSource(obj any) AppSource {
	s := AppSource{raw: obj}
	switch v := obj.(type) {
	case *webapp.Application:
		if v != nil {
			s.kind, s.app = sourceInstance, v
		}
	case func() *webapp.Application:
		if v != nil {
			s.kind, s.factory = sourceFactory, v
		}
	case func() (*webapp.Application, error):
		if v != nil {
			s.kind, s.fallible = sourceFallibleFactory, v
		}
	case func(context.Context) (*webapp.Application, error):
		if v != nil {
			s.kind, s.contextFactory = sourceContextFactory, v
		}
	case func() any:
		if v != nil {
			s.kind, s.anyFactory = sourceAnyFactory, v
		}
	}
	return s
}

func (s AppSource) Kind() string { return s.kind.String() }

// Resolve returns the imported value, calling a factory exactly once. Only a
// context factory may block; it receives ctx. The result is not type-checked.
func (s AppSource) Resolve(ctx context.Context) (any, error) {
	switch s.kind {
	case sourceInstance:
		return s.app, nil
	case sourceFactory:
		return s.factory(), nil
	case sourceFallibleFactory:
		return s.fallible()
	case sourceContextFactory:
		return s.contextFactory(ctx)
	case sourceAnyFactory:
		return s.anyFactory(), nil
	default:
		return s.raw, nil
	}
}

func asApplication(path string, obj any) (*webapp.Application, error) {
	app, ok := obj.(*webapp.Application)
	if !ok || app == nil {
		return nil, fmt.Errorf("%w: %s is not a web application (got %T)", ErrConfiguration, path, obj)
	}
	return app, nil
}

// LoadApp imports appPath from reg and resolves it to an application.
func LoadApp(ctx context.Context, reg *importer.Registry, appPath string) (*webapp.Application, error) {
	obj, err := reg.Import(appPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	v, err := NewAppSource(obj).Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", appPath, err)
	}
	return asApplication(appPath, v)
}
