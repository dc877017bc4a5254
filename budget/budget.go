package budget

import (
	"hash/crc32"
	"sync"
	"time"
)

// Budget is a named accounting bucket.
//
// [Budget.BeginProfileRegion] and [Budget.EndProfileRegion] mark region entry
// and exit. They must be called in matched pairs and are safe for concurrent
// use, so one Budget may be shared by any number of goroutines.
//
// Create instances with [New].
type Budget struct {
	now func() time.Time

	name string
	id   uint32

	mu        sync.Mutex
	busySince time.Time
	busy      time.Duration
	depth     int64
	entries   uint64
	unmatched uint64
}

// Stats is a point-in-time snapshot of a [Budget].
type Stats struct {
	Name string `json:"name"`
	// Busy is the wall time during which at least one region was open.
	Busy time.Duration `json:"busy"`
	// Depth is the number of currently open regions.
	Depth int64 `json:"depth"`
	// Entries is the number of regions begun so far.
	Entries uint64 `json:"entries"`
	// Unmatched counts end calls that had no open region to close.
	Unmatched uint64 `json:"unmatched"`
}

// Option configures a [Budget].
type Option func(*Budget)

// WithClock sets the time source used for busy time accounting.
func WithClock(now func() time.Time) Option {
	return func(b *Budget) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a [Budget] with the given name.
func New(name string, opts ...Option) *Budget {
	b := &Budget{
		name: name,
		id:   crc32.ChecksumIEEE([]byte(name)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Name returns the budget name.
func (b *Budget) Name() string {
	return b.name
}

// ID returns the CRC-32 of the budget name.
func (b *Budget) ID() uint32 {
	return b.id
}

// BeginProfileRegion records entry into a region.
func (b *Budget) BeginProfileRegion() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.depth == 0 {
		b.busySince = b.now()
	}

	b.depth++
	b.entries++
}

// EndProfileRegion records exit from a region. An end without a matching
// begin is counted in [Stats.Unmatched] and otherwise ignored.
func (b *Budget) EndProfileRegion() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.depth == 0 {
		b.unmatched++
		return
	}

	b.depth--
	if b.depth == 0 {
		b.busy += b.now().Sub(b.busySince)
	}
}

// Depth returns the number of currently open regions.
func (b *Budget) Depth() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.depth
}

// Stats returns a snapshot of the budget counters. Busy time includes the
// currently open span, if any.
func (b *Budget) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	busy := b.busy
	if b.depth > 0 {
		busy += b.now().Sub(b.busySince)
	}

	return Stats{
		Name:      b.name,
		Busy:      busy,
		Depth:     b.depth,
		Entries:   b.entries,
		Unmatched: b.unmatched,
	}
}
