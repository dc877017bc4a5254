package profiler_test

import (
	"fmt"
	"sync"
	"testing"

	"go.jacobcolvin.com/scopeprof/budget"
	"go.jacobcolvin.com/scopeprof/platform"
	"go.jacobcolvin.com/scopeprof/profiler"
	"go.jacobcolvin.com/scopeprof/registry"
)

// callLog is an ordered record of collaborator calls shared by the test
// doubles below. Each entry carries the budget depth observed at call time,
// which pins down where the budget's own mutators ran in the sequence.
type callLog struct {
	calls []string
	mu    sync.Mutex
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.calls...)
}

func (l *callLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = nil
}

func describe(b *budget.Budget) string {
	if b == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s@%d", b.Name(), b.Depth())
}

// platformRecorder is a [platform.Backend] that writes to a callLog.
type platformRecorder struct {
	log *callLog
}

func (p *platformRecorder) BeginRegion(b *budget.Budget, eventName string, args ...any) {
	p.log.add("platform.begin %s %s %v", describe(b), eventName, args)
}

func (p *platformRecorder) EndRegion(b *budget.Budget) {
	p.log.add("platform.end %s", describe(b))
}

func (p *platformRecorder) ReportCounter(b *budget.Budget, counterName string, value any) {
	p.log.add("platform.counter %s %s %v", describe(b), counterName, value)
}

func (p *platformRecorder) ReportEvent(b *budget.Budget, eventName string) {
	p.log.add("platform.event %s %s", describe(b), eventName)
}

// profilerRecorder is a [profiler.Profiler] that writes to a callLog.
type profilerRecorder struct {
	log  *callLog
	name string
}

func (p *profilerRecorder) BeginRegion(b *budget.Budget, eventName string, argCount int, args ...any) {
	p.log.add("%s.begin %s %s %d %v", p.name, describe(b), eventName, argCount, args)
}

func (p *profilerRecorder) EndRegion(b *budget.Budget) {
	p.log.add("%s.end %s", p.name, describe(b))
}

// setup installs a recording platform backend and an isolated registry.
// Tests using it replace process-wide state and must not run in parallel.
func setup(t *testing.T) *callLog {
	t.Helper()

	log := &callLog{}

	prevBackend := platform.Install(&platformRecorder{log: log})
	prevRegistry := profiler.UseRegistry(registry.New())

	t.Cleanup(func() {
		platform.Install(prevBackend)
		profiler.UseRegistry(prevRegistry)
	})

	return log
}

// install registers a recording profiler named name.
func install(t *testing.T, log *callLog, name string) *profilerRecorder {
	t.Helper()

	p := &profilerRecorder{log: log, name: name}

	err := profiler.Install(p)
	if err != nil {
		t.Fatalf("install profiler: %v", err)
	}

	return p
}
