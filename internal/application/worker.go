package application

import "context"

// Worker represents a process that hosts task handlers.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context) error
}
