//go:build release

package profiler

import "go.jacobcolvin.com/scopeprof/budget"

// Enabled reports whether instrumentation is compiled in.
const Enabled = false

// Scope is a no-op when built with the "release" tag.
type Scope struct{}

// Begin is a no-op when built with the "release" tag.
func Begin(_ *budget.Budget, _ string, _ ...any) Scope {
	return Scope{}
}

// End is a no-op when built with the "release" tag.
func (Scope) End() {}

// BeginRegion is a no-op when built with the "release" tag.
func BeginRegion(_ *budget.Budget, _ string, _ ...any) {}

// EndRegion is a no-op when built with the "release" tag.
func EndRegion(_ *budget.Budget) {}

// ReportCounter is a no-op when built with the "release" tag.
func ReportCounter(_ *budget.Budget, _ string, _ any) {}

// ReportProfileEvent is a no-op when built with the "release" tag.
func ReportProfileEvent(_ *budget.Budget, _ string) {}
