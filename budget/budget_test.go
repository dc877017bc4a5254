package budget_test

import (
	"hash/crc32"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/scopeprof/budget"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestNew(t *testing.T) {
	t.Parallel()

	b := budget.New("Render")

	assert.Equal(t, "Render", b.Name())
	assert.Equal(t, crc32.ChecksumIEEE([]byte("Render")), b.ID())
	assert.Equal(t, budget.Stats{Name: "Render"}, b.Stats())
}

func TestBudget_Regions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		run  func(*budget.Budget, *fakeClock)
		want budget.Stats
	}{
		"single region": {
			run: func(b *budget.Budget, c *fakeClock) {
				b.BeginProfileRegion()
				c.Advance(5 * time.Millisecond)
				b.EndProfileRegion()
			},
			want: budget.Stats{Busy: 5 * time.Millisecond, Entries: 1},
		},
		"nested regions count busy time once": {
			run: func(b *budget.Budget, c *fakeClock) {
				b.BeginProfileRegion()
				c.Advance(time.Millisecond)
				b.BeginProfileRegion()
				c.Advance(2 * time.Millisecond)
				b.EndProfileRegion()
				c.Advance(time.Millisecond)
				b.EndProfileRegion()
			},
			want: budget.Stats{Busy: 4 * time.Millisecond, Entries: 2},
		},
		"idle time between regions is excluded": {
			run: func(b *budget.Budget, c *fakeClock) {
				b.BeginProfileRegion()
				c.Advance(time.Millisecond)
				b.EndProfileRegion()
				c.Advance(time.Second)
				b.BeginProfileRegion()
				c.Advance(time.Millisecond)
				b.EndProfileRegion()
			},
			want: budget.Stats{Busy: 2 * time.Millisecond, Entries: 2},
		},
		"open region includes elapsed time": {
			run: func(b *budget.Budget, c *fakeClock) {
				b.BeginProfileRegion()
				c.Advance(3 * time.Millisecond)
			},
			want: budget.Stats{Busy: 3 * time.Millisecond, Depth: 1, Entries: 1},
		},
		"unmatched end is counted and ignored": {
			run: func(b *budget.Budget, _ *fakeClock) {
				b.EndProfileRegion()
				b.EndProfileRegion()
			},
			want: budget.Stats{Unmatched: 2},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			clock := newFakeClock()
			b := budget.New("test", budget.WithClock(clock.Now))

			tc.run(b, clock)

			tc.want.Name = "test"
			assert.Equal(t, tc.want, b.Stats())
			assert.Equal(t, tc.want.Depth, b.Depth())
		})
	}
}

func TestBudget_Concurrent(t *testing.T) {
	t.Parallel()

	b := budget.New("shared")

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			for range 500 {
				b.BeginProfileRegion()
				b.EndProfileRegion()
			}
		})
	}

	wg.Wait()

	stats := b.Stats()
	require.Zero(t, stats.Depth)
	assert.Equal(t, uint64(8*500), stats.Entries)
	assert.Zero(t, stats.Unmatched)
}
