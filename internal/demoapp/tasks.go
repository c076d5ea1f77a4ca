package demoapp

import (
	"context"
	"net/http"

	"webtask-bridge/internal/domain"
)

const (
	TaskCountVisit = "demoapp.count_visit"
	TaskReadVisits = "demoapp.read_visits"
)

// TaskRegistrar is the part of a broker tasks are registered on.
type TaskRegistrar interface {
	Register(name string, fn any) error
}

// RegisterTasks adds the app's tasks. They receive the representative
// request from the worker's dependency context.
func RegisterTasks(b TaskRegistrar) error {
	if err := b.Register(TaskCountVisit, CountVisit); err != nil {
		return err
	}
	return b.Register(TaskReadVisits, ReadVisits)
}

// CountVisit increments the counter for key. It serves POST /visits/{key}
// and the count_visit task alike.
func CountVisit(ctx context.Context, r *http.Request, key string) (int64, error) {
	if err := domain.ValidateKey(key); err != nil {
		return 0, err
	}
	store, err := VisitsFromRequest(r)
	if err != nil {
		return 0, err
	}
	return store.Incr(ctx, key)
}

func ReadVisits(ctx context.Context, r *http.Request, key string) (int64, error) {
	if err := domain.ValidateKey(key); err != nil {
		return 0, err
	}
	store, err := VisitsFromRequest(r)
	if err != nil {
		return 0, err
	}
	return store.Get(ctx, key)
}
