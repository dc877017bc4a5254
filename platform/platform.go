// Package platform is the low-level region and marker emission boundary.
//
// The free functions [BeginRegion], [BeginRegionArgs], [EndRegion],
// [ReportCounter] and [ReportEvent] forward to the installed [Backend]
// unchanged. The default backend is [Nop]; [TraceBackend] emits
// [runtime/trace] user log events and [LogBackend] writes to a
// [log/slog.Logger].
//
// Backends are side-effect only and must be safe for concurrent use.
package platform

import (
	"sync/atomic"

	"go.jacobcolvin.com/scopeprof/budget"
)

// Backend emits regions, counters and events for a [budget.Budget].
// A nil budget is a valid argument for counters and events.
type Backend interface {
	BeginRegion(b *budget.Budget, eventName string, args ...any)
	EndRegion(b *budget.Budget)
	ReportCounter(b *budget.Budget, counterName string, value any)
	ReportEvent(b *budget.Budget, eventName string)
}

type holder struct {
	backend Backend
}

var current atomic.Pointer[holder]

func init() {
	current.Store(&holder{backend: Nop{}})
}

// Install sets the process-wide backend and returns the previous one.
// A nil backend installs [Nop].
func Install(b Backend) Backend {
	if b == nil {
		b = Nop{}
	}

	return current.Swap(&holder{backend: b}).backend
}

// Current returns the installed backend.
func Current() Backend {
	return current.Load().backend
}

// BeginRegion begins a region without structured arguments.
func BeginRegion(b *budget.Budget, eventName string) {
	Current().BeginRegion(b, eventName)
}

// BeginRegionArgs begins a region with structured arguments.
func BeginRegionArgs(b *budget.Budget, eventName string, args ...any) {
	Current().BeginRegion(b, eventName, args...)
}

// EndRegion ends the most recent region begun on b.
func EndRegion(b *budget.Budget) {
	Current().EndRegion(b)
}

// ReportCounter records an instantaneous named sample.
func ReportCounter(b *budget.Budget, counterName string, value any) {
	Current().ReportCounter(b, counterName, value)
}

// ReportEvent records a zero-duration event.
func ReportEvent(b *budget.Budget, eventName string) {
	Current().ReportEvent(b, eventName)
}

// Nop is a [Backend] that drops everything.
type Nop struct{}

// BeginRegion implements [Backend].
func (Nop) BeginRegion(*budget.Budget, string, ...any) {}

// EndRegion implements [Backend].
func (Nop) EndRegion(*budget.Budget) {}

// ReportCounter implements [Backend].
func (Nop) ReportCounter(*budget.Budget, string, any) {}

// ReportEvent implements [Backend].
func (Nop) ReportEvent(*budget.Budget, string) {}
