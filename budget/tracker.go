package budget

import (
	"slices"
	"strings"
	"sync"
)

// Tracker owns a set of named budgets.
//
// Budgets are created on first use and reused for the same name. Safe for
// concurrent use.
//
// Create instances with [NewTracker].
type Tracker struct {
	budgets  map[string]*Budget
	disabled map[string]struct{}
	opts     []Option
	mu       sync.RWMutex
}

// TrackerOption configures a [Tracker].
type TrackerOption func(*Tracker)

// WithDisabled disables the named budgets. Names are matched
// case-insensitively.
func WithDisabled(names ...string) TrackerOption {
	return func(t *Tracker) {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			t.disabled[strings.ToLower(name)] = struct{}{}
		}
	}
}

// WithBudgetOptions sets the options applied to every budget the tracker
// creates.
func WithBudgetOptions(opts ...Option) TrackerOption {
	return func(t *Tracker) {
		t.opts = append(t.opts, opts...)
	}
}

// NewTracker creates a [Tracker] with the given options.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		budgets:  make(map[string]*Budget),
		disabled: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Budget returns the budget with the given name, creating it if needed.
// It returns nil when the name is disabled.
func (t *Tracker) Budget(name string) *Budget {
	if t.Disabled(name) {
		return nil
	}

	t.mu.RLock()
	b, ok := t.budgets[name]
	t.mu.RUnlock()

	if ok {
		return b
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok = t.budgets[name]
	if !ok {
		b = New(name, t.opts...)
		t.budgets[name] = b
	}

	return b
}

// Disabled reports whether the named budget is disabled.
func (t *Tracker) Disabled(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.disabled[strings.ToLower(name)]

	return ok
}

// Budgets returns all budgets created so far, sorted by name.
func (t *Tracker) Budgets() []*Budget {
	t.mu.RLock()
	out := make([]*Budget, 0, len(t.budgets))
	for _, b := range t.budgets {
		out = append(out, b)
	}
	t.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Budget) int {
		return strings.Compare(a.Name(), b.Name())
	})

	return out
}

// Snapshot returns [Stats] for all budgets, sorted by name.
func (t *Tracker) Snapshot() []Stats {
	budgets := t.Budgets()

	out := make([]Stats, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, b.Stats())
	}

	return out
}
