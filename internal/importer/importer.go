// Package importer resolves "package/path:Name" locators to objects that
// packages registered from their init functions, the way database/sql
// resolves driver names.
package importer

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

var (
	ErrInvalidPath = errors.New("invalid import path")
	ErrNotFound    = errors.New("object not found")
)

// Registry maps locators to registered objects. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	objects map[string]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{objects: map[string]any{}} }

// ValidatePath reports whether path has the "package:Name" shape.
func ValidatePath(path string) error {
	pkg, name, ok := strings.Cut(path, ":")
	if !ok || strings.TrimSpace(pkg) == "" || strings.TrimSpace(name) == "" || strings.Contains(name, ":") {
		return fmt.Errorf("%w: %q (want \"package:Name\")", ErrInvalidPath, path)
	}
	return nil
}

// Register makes obj importable under path. It panics if path is malformed,
// obj is nil, or path is already taken.
func (r *Registry) Register(path string, obj any) {
	if err := ValidatePath(path); err != nil {
		panic("importer: " + err.Error())
	}
	if isNil(obj) {
		panic("importer: Register object is nil for " + path)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.objects[path]; dup {
		panic("importer: Register called twice for " + path)
	}
	r.objects[path] = obj
}

func (r *Registry) Import(path string) (any, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	r.mu.RLock()
	obj, ok := r.objects[path]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return obj, nil
}

// Paths lists registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.objects))
	for p := range r.objects {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

var std = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return std }

func Register(path string, obj any) { std.Register(path, obj) }
func Import(path string) (any, error) { return std.Import(path) }

// isNil also catches typed nils such as a nil func or pointer.
func isNil(obj any) bool {
	if obj == nil {
		return true
	}
	switch v := reflect.ValueOf(obj); v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
