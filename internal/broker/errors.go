package broker

import "errors"

var (
	ErrUnknownTask         = errors.New("unknown task")
	ErrInvalidTask         = errors.New("invalid task handler")
	ErrMissingDependency   = errors.New("missing dependency")
	ErrDuplicateTask       = errors.New("task already registered")
	ErrLifecycleInProgress = errors.New("lifecycle phase already running")
	ErrInvalidArgument     = errors.New("invalid task argument")
)
