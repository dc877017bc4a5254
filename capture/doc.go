// Package capture records runtime profiles and execution traces for CLI runs.
//
// It covers CPU, heap, allocs, goroutine, threadcreate, block, and mutex
// profiles, plus a [runtime/trace] execution trace. Region, counter and event
// markers from the trace platform backend only show up in a run that has an
// execution trace, so pair that backend with --trace-output.
//
// Typical usage creates a [Config], registers flags, then wraps command
// execution with a [Session]:
//
//	cfg := capture.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	s := cfg.NewSession()
//	err := s.Start()
//	...
//	stopErr := s.Stop()
//
// Users then enable capture via flags like --cpu-profile=cpu.prof or
// --trace-output=trace.out.
package capture
