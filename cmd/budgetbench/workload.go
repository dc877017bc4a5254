package main

import (
	"context"
	"sync"
	"sync/atomic"

	"go.jacobcolvin.com/scopeprof/budget"
	"go.jacobcolvin.com/scopeprof/profiler"
)

// Budget names used by the synthetic workload.
const (
	budgetFrame   = "Frame"
	budgetRender  = "Render"
	budgetPhysics = "Physics"
	budgetAudio   = "Audio"
)

var workloadBudgets = []string{budgetFrame, budgetRender, budgetPhysics, budgetAudio}

// sink keeps spin results observable so the loops are not optimized away.
var sink atomic.Uint64

// workload is a game-loop shaped benchmark. Each frame simulates physics,
// draws a nested render tree, mixes audio and then presents. Disabled budgets
// are nil and run uninstrumented.
type workload struct {
	frame   *budget.Budget
	render  *budget.Budget
	physics *budget.Budget
	audio   *budget.Budget
	depth   int
}

func newWorkload(t *budget.Tracker, depth int) *workload {
	return &workload{
		frame:   t.Budget(budgetFrame),
		render:  t.Budget(budgetRender),
		physics: t.Budget(budgetPhysics),
		audio:   t.Budget(budgetAudio),
		depth:   max(depth, 1),
	}
}

// run executes iterations frames on each of workers goroutines. It stops
// early between frames when ctx is done.
func (w *workload) run(ctx context.Context, workers, iterations int) {
	var wg sync.WaitGroup

	for id := range workers {
		wg.Go(func() {
			for i := range iterations {
				if ctx.Err() != nil {
					return
				}

				w.step(id, i)
			}
		})
	}

	wg.Wait()
}

func (w *workload) step(worker, frame int) {
	defer profiler.Begin(w.frame, "Frame", worker, frame).End()

	w.simulate()

	calls := w.draw(w.depth)
	profiler.ReportCounter(w.render, "DrawCalls", calls)

	w.mix()

	profiler.ReportProfileEvent(w.frame, "Present")
}

func (w *workload) simulate() {
	defer profiler.Begin(w.physics, "Simulate").End()

	spin(4096)
}

// draw opens depth nested Render regions and returns the number of draw
// calls issued.
func (w *workload) draw(depth int) int {
	defer profiler.Begin(w.render, "Draw", depth).End()

	spin(2048)

	if depth <= 1 {
		return 1
	}

	return 1 + w.draw(depth-1)
}

func (w *workload) mix() {
	defer profiler.Begin(w.audio, "Mix").End()

	spin(1024)
}

func spin(n int) {
	x := uint64(14695981039346656037)
	for i := range n {
		x ^= uint64(i)
		x *= 1099511628211
	}

	sink.Add(x)
}

// regionCounter is a [profiler.Profiler] that counts the regions it sees per
// budget.
type regionCounter struct {
	begins map[string]uint64
	ends   map[string]uint64
	mu     sync.Mutex
}

func newRegionCounter() *regionCounter {
	return &regionCounter{
		begins: make(map[string]uint64),
		ends:   make(map[string]uint64),
	}
}

func (c *regionCounter) BeginRegion(b *budget.Budget, _ string, _ int, _ ...any) {
	c.mu.Lock()
	c.begins[b.Name()]++
	c.mu.Unlock()
}

func (c *regionCounter) EndRegion(b *budget.Budget) {
	c.mu.Lock()
	c.ends[b.Name()]++
	c.mu.Unlock()
}

// counts returns the begin and end counts seen for the named budget. A nil
// counter reports zero.
func (c *regionCounter) counts(name string) (uint64, uint64) {
	if c == nil {
		return 0, 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.begins[name], c.ends[name]
}
