package application

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration means the locator does not lead to a web application.
	ErrConfiguration = errors.New("configuration error")
	// ErrEnvironment means the worker environment lacks something the adapter
	// needs at runtime.
	ErrEnvironment = errors.New("environment error")
	// ErrMissingState means shutdown ran without a successful startup.
	ErrMissingState = fmt.Errorf("%w: web app runner missing from worker state", ErrEnvironment)
)
