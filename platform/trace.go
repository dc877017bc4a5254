package platform

import (
	"context"
	"fmt"
	"runtime/trace"
	"strings"

	"go.jacobcolvin.com/scopeprof/budget"
)

// Phase letters prefixed to trace messages, after the Trace Event Format.
const (
	PhaseBegin   = "B"
	PhaseEnd     = "E"
	PhaseCounter = "C"
	PhaseInstant = "i"
)

// TraceBackend emits [runtime/trace] user log events. The budget name is the
// log category and the message starts with a phase letter:
//
//	B <event> [arg ...]
//	E
//	C <counter>=<value>
//	i <event>
//
// Nothing is formatted unless a trace is being collected.
type TraceBackend struct {
	ctx context.Context //nolint:containedctx // Events are not tied to a request.
}

// NewTraceBackend creates a [TraceBackend]. Events are attached to ctx, so
// pass a context carrying a [trace.Task] to group them under that task.
func NewTraceBackend(ctx context.Context) *TraceBackend {
	if ctx == nil {
		ctx = context.Background()
	}

	return &TraceBackend{ctx: ctx}
}

// BeginRegion implements [Backend].
func (t *TraceBackend) BeginRegion(b *budget.Budget, eventName string, args ...any) {
	if !trace.IsEnabled() {
		return
	}

	trace.Log(t.ctx, budgetName(b), formatBegin(eventName, args))
}

// EndRegion implements [Backend].
func (t *TraceBackend) EndRegion(b *budget.Budget) {
	if !trace.IsEnabled() {
		return
	}

	trace.Log(t.ctx, budgetName(b), PhaseEnd)
}

// ReportCounter implements [Backend].
func (t *TraceBackend) ReportCounter(b *budget.Budget, counterName string, value any) {
	if !trace.IsEnabled() {
		return
	}

	trace.Log(t.ctx, budgetName(b), fmt.Sprintf("%s %s=%v", PhaseCounter, counterName, value))
}

// ReportEvent implements [Backend].
func (t *TraceBackend) ReportEvent(b *budget.Budget, eventName string) {
	if !trace.IsEnabled() {
		return
	}

	trace.Log(t.ctx, budgetName(b), PhaseInstant+" "+eventName)
}

func formatBegin(eventName string, args []any) string {
	var sb strings.Builder

	sb.WriteString(PhaseBegin)
	sb.WriteByte(' ')
	sb.WriteString(eventName)

	for _, arg := range args {
		sb.WriteByte(' ')
		fmt.Fprint(&sb, arg)
	}

	return sb.String()
}

func budgetName(b *budget.Budget) string {
	if b == nil {
		return ""
	}

	return b.Name()
}
