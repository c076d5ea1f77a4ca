package broker

import (
	"context"
	"fmt"
	"reflect"

	"webtask-bridge/internal/infrastructure/logx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

type task struct {
	name       string
	fn         reflect.Value
	typ        reflect.Type
	returnsErr bool
}

// Register adds a task handler under name. fn must be a non-variadic func;
// a trailing error result is reported as the call error.
func (b *Broker) Register(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTask)
	}
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("%w: %s is %T, want func", ErrInvalidTask, name, fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return fmt.Errorf("%w: %s is variadic", ErrInvalidTask, name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tasks[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, name)
	}
	b.tasks[name] = &task{
		name:       name,
		fn:         v,
		typ:        t,
		returnsErr: t.NumOut() > 0 && t.Out(t.NumOut()-1) == errType,
	}
	return nil
}

// Call invokes the task registered under name in this process.
//
// Parameters of type context.Context receive ctx. Parameters whose type is
// bound in the dependency context receive the bound instance. Every other
// parameter consumes the next positional arg. Results are returned in order,
// without the trailing error.
func (b *Broker) Call(ctx context.Context, name string, args ...any) (res []any, err error) {
	b.mu.RLock()
	t, ok := b.tasks[name]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	defer func() { b.metrics.ObserveTask(name, err) }()

	id := uuid.NewString()
	ctx = logx.ContextWithTaskID(ctx, id)
	log := b.log.With(zap.String("task", name), zap.String("task_id", id))

	in, err := b.bind(ctx, t, args)
	if err != nil {
		log.Warn("task.bind_failed", zap.Error(err))
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("task.panic", zap.Any("r", r))
			res, err = nil, fmt.Errorf("task %s panicked: %v", name, r)
		}
	}()
	out := t.fn.Call(in)

	if t.returnsErr {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			err = last.Interface().(error)
		}
	}
	res = make([]any, len(out))
	for i, v := range out {
		res[i] = v.Interface()
	}
	if err != nil {
		log.Warn("task.failed", zap.Error(err))
		return res, err
	}
	log.Debug("task.done")
	return res, nil
}

func (b *Broker) bind(ctx context.Context, t *task, args []any) ([]reflect.Value, error) {
	deps := b.Dependencies()
	in := make([]reflect.Value, t.typ.NumIn())
	next := 0
	for i := range in {
		pt := t.typ.In(i)
		if pt == ctxType {
			in[i] = reflect.ValueOf(ctx)
			continue
		}
		if dep, ok := deps[pt]; ok {
			dv := reflect.ValueOf(dep)
			if !dv.IsValid() || !dv.Type().AssignableTo(pt) {
				return nil, fmt.Errorf("%w: binding for %s holds %T", ErrInvalidArgument, pt, dep)
			}
			in[i] = dv
			continue
		}
		if next >= len(args) {
			return nil, fmt.Errorf("%w: %s needs %s (parameter %d)", ErrMissingDependency, t.name, pt, i)
		}
		v, err := argValue(args[next], pt)
		if err != nil {
			return nil, fmt.Errorf("%s parameter %d: %w", t.name, i, err)
		}
		in[i] = v
		next++
	}
	if next != len(args) {
		return nil, fmt.Errorf("%w: %s takes %d positional args, got %d", ErrInvalidArgument, t.name, next, len(args))
	}
	return in, nil
}

func argValue(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch pt.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil for %s", ErrInvalidArgument, pt)
	}
	v := reflect.ValueOf(a)
	if !v.Type().AssignableTo(pt) {
		return reflect.Value{}, fmt.Errorf("%w: %T is not assignable to %s", ErrInvalidArgument, a, pt)
	}
	return v, nil
}
