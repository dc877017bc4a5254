// Package budget provides named accounting buckets for region profiling.
//
// A [Budget] groups profiling data by subsystem (rendering, audio, physics)
// and keeps lightweight counters that stay functional even when no rich
// profiler backend is attached. Budgets are typically declared once as
// package-level values and live for the whole process:
//
//	var Render = budget.New("Render")
//
// A [Tracker] owns a set of budgets keyed by name and can disable budgets by
// name. [Tracker.Budget] returns nil for a disabled budget, and a nil budget
// turns every region bracket that references it into a no-op.
//
// Use [Config] to register CLI flags and build a [Tracker] from flags and an
// optional YAML file:
//
//	cfg := budget.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	tracker, err := cfg.NewTracker()
//	render := tracker.Budget("Render")
package budget
