package platform

import (
	"context"
	"log/slog"

	"go.jacobcolvin.com/scopeprof/budget"
)

// LogBackend writes regions, counters and events to a [slog.Logger] at
// debug level.
type LogBackend struct {
	logger *slog.Logger
}

// NewLogBackend creates a [LogBackend]. A nil logger uses [slog.Default].
func NewLogBackend(logger *slog.Logger) *LogBackend {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogBackend{logger: logger}
}

// BeginRegion implements [Backend].
func (l *LogBackend) BeginRegion(b *budget.Budget, eventName string, args ...any) {
	if !l.enabled() {
		return
	}

	attrs := []slog.Attr{
		slog.String("budget", budgetName(b)),
		slog.String("event", eventName),
	}
	if len(args) > 0 {
		attrs = append(attrs, slog.Any("args", args))
	}

	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "begin region", attrs...)
}

// EndRegion implements [Backend].
func (l *LogBackend) EndRegion(b *budget.Budget) {
	if !l.enabled() {
		return
	}

	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "end region",
		slog.String("budget", budgetName(b)))
}

// ReportCounter implements [Backend].
func (l *LogBackend) ReportCounter(b *budget.Budget, counterName string, value any) {
	if !l.enabled() {
		return
	}

	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "counter",
		slog.String("budget", budgetName(b)),
		slog.String("counter", counterName),
		slog.Any("value", value))
}

// ReportEvent implements [Backend].
func (l *LogBackend) ReportEvent(b *budget.Budget, eventName string) {
	if !l.enabled() {
		return
	}

	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "event",
		slog.String("budget", budgetName(b)),
		slog.String("event", eventName))
}

func (l *LogBackend) enabled() bool {
	return l.logger.Enabled(context.Background(), slog.LevelDebug)
}
