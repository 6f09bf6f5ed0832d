package lingo

import (
	"context"
	"sync"
)

// call is one pending translation shared by every caller of the same key.
type call struct {
	done chan struct{}
	val  string
	err  error
}

// inflightGroup coalesces concurrent translation requests per cache key.
// Unlike singleflight, a single leader (a batch call) may complete several
// keys from one provider round trip.
type inflightGroup struct {
	mu    sync.Mutex
	calls map[string]*call
}

func newInflightGroup() *inflightGroup {
	return &inflightGroup{calls: make(map[string]*call)}
}

// begin registers key as in flight. If the key is already pending, the
// existing call is returned with leader == false and the caller must wait on
// it instead of issuing its own request.
func (g *inflightGroup) begin(key string) (c *call, leader bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.calls[key]; ok {
		return existing, false
	}

	c = &call{done: make(chan struct{})}
	g.calls[key] = c
	return c, true
}

// finish publishes the result for key and releases all waiters. The entry is
// removed so later requests start fresh; failures are never kept in flight.
func (g *inflightGroup) finish(key string, c *call, val string, err error) {
	c.val = val
	c.err = err

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	close(c.done)
}

// wait blocks until the call completes or ctx is cancelled.
func (g *inflightGroup) wait(ctx context.Context, c *call) (string, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
