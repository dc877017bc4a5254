// Package profiler brackets code regions against a [budget.Budget].
//
// [Begin] opens a region and returns a [Scope] whose [Scope.End] closes it.
// Pair them with defer so the region is closed on every exit path, including
// early returns and panics:
//
//	var Render = budget.New("Render")
//
//	func draw(mesh *Mesh) error {
//	    defer profiler.Begin(Render, "Draw", mesh.ID).End()
//	    ...
//	}
//
// Beginning a region fans out to three collaborators in order:
//
//  1. the [platform] backend ([platform.BeginRegion] or
//     [platform.BeginRegionArgs] when args are given),
//  2. the budget's own counters ([budget.Budget.BeginProfileRegion]),
//  3. the installed [Profiler], if any.
//
// Ending a region runs the mirrored sequence: budget, profiler, platform.
// A nil budget turns both steps into no-ops.
//
// The [Profiler] is resolved from the registry on every begin and end call
// rather than cached on the [Scope], so installing or removing a profiler
// takes effect immediately, including for regions already open.
//
// A panic raised by any collaborator is recovered and logged at warn level;
// instrumentation never changes the caller's control flow.
//
// # Release builds
//
// Building with the "release" tag compiles every instrumentation entry point
// to an empty function:
//
//	go build -tags release
//
// No registry lookups or platform calls happen and [Scope] is an empty
// struct. Call sites do not change between configurations. [Enabled] reports
// which variant was compiled.
package profiler
