//go:build !release

package profiler

import (
	"log/slog"

	"go.jacobcolvin.com/scopeprof/budget"
	"go.jacobcolvin.com/scopeprof/platform"
)

// Enabled reports whether instrumentation is compiled in.
const Enabled = true

// Scope is an open region. The zero value is a closed no-op scope.
//
// Create instances with [Begin] and close them exactly once with [Scope.End].
type Scope struct {
	budget *budget.Budget
}

// Begin opens a region named eventName on b and returns the [Scope] that
// closes it. args are forwarded unchanged to the platform backend and the
// active [Profiler]. A nil b makes the scope a no-op.
func Begin(b *budget.Budget, eventName string, args ...any) Scope {
	BeginRegion(b, eventName, args...)

	return Scope{budget: b}
}

// End closes the region opened by [Begin].
func (s Scope) End() {
	EndRegion(s.budget)
}

// BeginRegion opens a region without creating a [Scope]. Every call must be
// matched by one [EndRegion] on the same budget.
func BeginRegion(b *budget.Budget, eventName string, args ...any) {
	if b == nil {
		return
	}

	if len(args) == 0 {
		beginPlatform(b, eventName)
	} else {
		beginPlatformArgs(b, eventName, args)
	}

	beginBudget(b)

	if p, ok := Current(); ok {
		beginProfiler(p, b, eventName, args)
	}
}

// EndRegion closes the most recent region opened on b, in the reverse order
// of [BeginRegion].
func EndRegion(b *budget.Budget) {
	if b == nil {
		return
	}

	endBudget(b)

	if p, ok := Current(); ok {
		endProfiler(p, b)
	}

	endPlatform(b)
}

// ReportCounter records an instantaneous named sample on the platform
// backend. A nil b is forwarded as is.
func ReportCounter(b *budget.Budget, counterName string, value any) {
	defer recoverCollaborator("platform", b)

	platform.ReportCounter(b, counterName, value)
}

// ReportProfileEvent records a zero-duration event on the platform backend.
// A nil b is forwarded as is.
func ReportProfileEvent(b *budget.Budget, eventName string) {
	defer recoverCollaborator("platform", b)

	platform.ReportEvent(b, eventName)
}

// Each collaborator call gets its own frame so a panic in one of them
// cannot skip the others.

func beginPlatform(b *budget.Budget, eventName string) {
	defer recoverCollaborator("platform", b)

	platform.BeginRegion(b, eventName)
}

func beginPlatformArgs(b *budget.Budget, eventName string, args []any) {
	defer recoverCollaborator("platform", b)

	platform.BeginRegionArgs(b, eventName, args...)
}

func beginBudget(b *budget.Budget) {
	defer recoverCollaborator("budget", b)

	b.BeginProfileRegion()
}

func beginProfiler(p Profiler, b *budget.Budget, eventName string, args []any) {
	defer recoverCollaborator("profiler", b)

	p.BeginRegion(b, eventName, len(args), args...)
}

func endBudget(b *budget.Budget) {
	defer recoverCollaborator("budget", b)

	b.EndProfileRegion()
}

func endProfiler(p Profiler, b *budget.Budget) {
	defer recoverCollaborator("profiler", b)

	p.EndRegion(b)
}

func endPlatform(b *budget.Budget) {
	defer recoverCollaborator("platform", b)

	platform.EndRegion(b)
}

func recoverCollaborator(collaborator string, b *budget.Budget) {
	r := recover()
	if r == nil {
		return
	}

	name := ""
	if b != nil {
		name = b.Name()
	}

	logger().Warn("profiling collaborator panicked",
		slog.String("collaborator", collaborator),
		slog.String("budget", name),
		slog.Any("panic", r),
	)
}
