// Package registry maps capabilities to at most one installed implementation.
//
// A capability is identified by a Go type, usually an interface. Installing,
// removing and resolving are safe for concurrent use, and resolving is
// lock-free so it can sit on instrumentation hot paths:
//
//	err := registry.Register[profiler.Profiler](registry.Default(), p)
//	...
//	if p, ok := registry.Get[profiler.Profiler](registry.Default()); ok {
//	    p.EndRegion(b)
//	}
//
// [Default] is the single process-wide registry. Components that need
// isolation (tests, embedded runtimes) create their own with [New].
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
)

// Sentinel errors returned by registration.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAlreadyRegistered = errors.New("capability already registered")
	ErrNotRegistered     = errors.New("capability not registered")
	ErrNotComparable     = errors.New("implementation is not comparable")
)

// Registry holds installed capability implementations.
//
// Create instances with [New], or use [Default].
type Registry struct {
	logger *slog.Logger
	slots  sync.Map // map[reflect.Type]*slot
	mu     sync.Mutex
}

type slot struct {
	cur atomic.Pointer[entry]
}

type entry struct {
	impl any
}

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger used to report registration changes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty [Registry].
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

var defaultRegistry = New()

// Default returns the process-wide [Registry].
func Default() *Registry {
	return defaultRegistry
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}

	return slog.Default()
}

func (r *Registry) slot(t reflect.Type) *slot {
	if s, ok := r.slots.Load(t); ok {
		return s.(*slot) //nolint:forcetypeassert // Only *slot values are stored.
	}

	s, _ := r.slots.LoadOrStore(t, &slot{})

	return s.(*slot) //nolint:forcetypeassert // Only *slot values are stored.
}

// Register installs impl as the implementation of capability T.
// It fails with [ErrAlreadyRegistered] if T already has an implementation.
func Register[T any](r *Registry, impl T) error {
	t := reflect.TypeFor[T]()

	v := any(impl)
	if v == nil {
		return fmt.Errorf("%w: nil %s implementation", ErrInvalidArgument, t)
	}

	if !reflect.TypeOf(v).Comparable() {
		return fmt.Errorf("%w: %T", ErrNotComparable, v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.slot(t)
	if cur := s.cur.Load(); cur != nil {
		return fmt.Errorf("%w: %s is held by %T", ErrAlreadyRegistered, t, cur.impl)
	}

	s.cur.Store(&entry{impl: v})
	r.log().Debug("registered capability", slog.String("capability", t.String()), slog.String("impl", fmt.Sprintf("%T", v)))

	return nil
}

// Unregister removes impl as the implementation of capability T. It fails
// with [ErrNotRegistered] unless impl is the current implementation.
func Unregister[T any](r *Registry, impl T) error {
	t := reflect.TypeFor[T]()
	v := any(impl)

	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.slot(t)

	cur := s.cur.Load()
	if cur == nil || v == nil || !reflect.TypeOf(v).Comparable() || cur.impl != v {
		return fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}

	s.cur.Store(nil)
	r.log().Debug("unregistered capability", slog.String("capability", t.String()), slog.String("impl", fmt.Sprintf("%T", v)))

	return nil
}

// Get returns the current implementation of capability T, if any.
func Get[T any](r *Registry) (T, bool) {
	var zero T

	s, ok := r.slots.Load(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}

	cur := s.(*slot).cur.Load() //nolint:forcetypeassert // Only *slot values are stored.
	if cur == nil {
		return zero, false
	}

	impl, ok := cur.impl.(T)

	return impl, ok
}
