package capture

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// ErrUnknownProfile indicates a snapshot profile name that the runtime does
// not provide.
var ErrUnknownProfile = errors.New("unknown profile")

// Session controls the lifecycle of a capture run.
//
// Call [Session.Start] to begin CPU profiling and execution tracing, and
// [Session.Stop] to finish them and write all enabled snapshot profiles.
//
// Create instances with [Config.NewSession].
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
	Config
}

// Start configures runtime profiling rates, then starts CPU profiling and
// execution tracing if enabled. If tracing fails to start, CPU profiling is
// stopped again so the session holds no open files.
func (s *Session) Start() error {
	runtime.MemProfileRate = s.MemProfileRate
	runtime.SetBlockProfileRate(s.BlockProfileRate)
	runtime.SetMutexProfileFraction(s.MutexProfileFraction)

	if s.CPUProfile != "" {
		f, err := os.Create(s.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
		if err != nil {
			return fmt.Errorf("creating CPU profile: %w", err)
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return errors.Join(fmt.Errorf("starting CPU profile: %w", err), f.Close())
		}

		s.cpuFile = f
	}

	if s.TraceOutput != "" {
		err := s.startTrace()
		if err != nil {
			return errors.Join(err, s.stopCPU())
		}
	}

	return nil
}

func (s *Session) startTrace() error {
	f, err := os.Create(s.TraceOutput) //nolint:gosec // Trace path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating execution trace: %w", err)
	}

	err = trace.Start(f)
	if err != nil {
		return errors.Join(fmt.Errorf("starting execution trace: %w", err), f.Close())
	}

	s.traceFile = f

	return nil
}

// Stop stops execution tracing and CPU profiling, then writes all enabled
// snapshot profiles. Every step runs even if an earlier one fails; the
// returned error joins all failures.
func (s *Session) Stop() error {
	return errors.Join(s.stopTrace(), s.stopCPU(), s.writeSnapshots())
}

// Tracing reports whether the session is currently writing an execution
// trace.
func (s *Session) Tracing() bool {
	return s.traceFile != nil
}

func (s *Session) stopTrace() error {
	if s.traceFile == nil {
		return nil
	}

	trace.Stop()

	err := s.traceFile.Close()
	s.traceFile = nil

	if err != nil {
		return fmt.Errorf("closing execution trace: %w", err)
	}

	return nil
}

func (s *Session) stopCPU() error {
	if s.cpuFile == nil {
		return nil
	}

	pprof.StopCPUProfile()

	err := s.cpuFile.Close()
	s.cpuFile = nil

	if err != nil {
		return fmt.Errorf("closing CPU profile: %w", err)
	}

	return nil
}

// writeSnapshots writes all enabled snapshot profiles (heap, allocs,
// goroutine, etc.).
func (s *Session) writeSnapshots() error {
	profiles := []struct {
		name string
		path string
	}{
		{"heap", s.HeapProfile},
		{"allocs", s.AllocsProfile},
		{"goroutine", s.GoroutineProfile},
		{"threadcreate", s.ThreadcreateProfile},
		{"block", s.BlockProfile},
		{"mutex", s.MutexProfile},
	}

	var errs []error

	for _, p := range profiles {
		if p.path == "" {
			continue
		}

		err := writeProfile(p.name, p.path)
		if err != nil {
			errs = append(errs, fmt.Errorf("write %s profile: %w", p.name, err))
		}
	}

	return errors.Join(errs...)
}

// writeProfile writes a named pprof profile to the given file path.
func writeProfile(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write: %w", err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}
