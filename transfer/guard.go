package transfer

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type slot struct {
	group   *errgroup.Group
	pending int32
}

func newGroup() *errgroup.Group {
	group := &errgroup.Group{}
	group.SetLimit(1)
	return group
}

// Guard makes sure that at most one worker per Kind is running.
// Workers of different kinds never wait for each other.
//
// Launch is meant to be called from a single goroutine (the one reading the
// control connection); Busy may be called from anywhere.
type Guard struct {
	mu    sync.Mutex
	slots [2]slot
}

// NewGuard returns a Guard with an idle slot for every Kind.
func NewGuard() *Guard {
	g := &Guard{}
	for idx := range g.slots {
		g.slots[idx].group = newGroup()
	}

	return g
}

func (g *Guard) group(kind Kind) *errgroup.Group {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slots[kind].group
}

// Launch blocks until the previous worker of `kind` returned
// and then runs `fn` in the background.
func (g *Guard) Launch(kind Kind, fn func() error) {
	pending := &g.slots[kind].pending
	atomic.AddInt32(pending, 1)

	g.group(kind).Go(func() error {
		defer atomic.AddInt32(pending, -1)
		return fn()
	})
}

// Busy returns true if a worker of `kind` is running or about to run.
func (g *Guard) Busy(kind Kind) bool {
	return atomic.LoadInt32(&g.slots[kind].pending) > 0
}

// Drain waits until no worker of any kind is running.
// It returns the first error a worker returned since the last Drain.
func (g *Guard) Drain() error {
	var firstErr error
	for idx := range g.slots {
		group := g.group(Kind(idx))
		if err := group.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}

		// errgroup remembers the first error forever; start over.
		g.mu.Lock()
		if g.slots[idx].group == group {
			g.slots[idx].group = newGroup()
		}
		g.mu.Unlock()
	}

	return firstErr
}
