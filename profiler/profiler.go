package profiler

import (
	"log/slog"
	"sync/atomic"

	"go.jacobcolvin.com/scopeprof/budget"
	"go.jacobcolvin.com/scopeprof/registry"
)

// Profiler is the pluggable backend capability. At most one Profiler is
// active per [registry.Registry].
//
// Implementations must be safe for concurrent use and must tolerate
// argCount == 0. EndRegion may be called on a Profiler that did not receive
// the matching BeginRegion when profilers are swapped while a region is open.
type Profiler interface {
	BeginRegion(b *budget.Budget, eventName string, argCount int, args ...any)
	EndRegion(b *budget.Budget)
}

var (
	reg         atomic.Pointer[registry.Registry]
	panicLogger atomic.Pointer[slog.Logger]
)

func init() {
	reg.Store(registry.Default())
}

// UseRegistry sets the registry that profilers are resolved from and returns
// the previous one. A nil registry selects [registry.Default].
func UseRegistry(r *registry.Registry) *registry.Registry {
	if r == nil {
		r = registry.Default()
	}

	return reg.Swap(r)
}

// SetLogger sets the logger used to report recovered collaborator panics.
// A nil logger selects [slog.Default].
func SetLogger(logger *slog.Logger) {
	panicLogger.Store(logger)
}

// Install registers p as the active [Profiler].
func Install(p Profiler) error {
	return registry.Register(reg.Load(), p)
}

// Uninstall removes p if it is the active [Profiler].
func Uninstall(p Profiler) error {
	return registry.Unregister(reg.Load(), p)
}

// Current returns the active [Profiler], if any.
func Current() (Profiler, bool) {
	return registry.Get[Profiler](reg.Load())
}

func logger() *slog.Logger {
	if l := panicLogger.Load(); l != nil {
		return l
	}

	return slog.Default()
}
