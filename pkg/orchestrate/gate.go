package orchestrate

import (
	"container/list"
	"context"
	"fmt"
	"sync"
)

// Gate is a counting admission gate bounding how many job bodies run at once.
// Waiters are admitted strictly in the order they called Acquire: Release
// hands the freed slot directly to the oldest waiter, so a late Acquire can
// never barge past one that is already queued.
//
// The zero value is not usable; construct with NewGate.
type Gate struct {
	mu       sync.Mutex
	slots    int
	capacity int
	waiters  list.List // of chan struct{}
}

func NewGate(slots int) (*Gate, error) {
	if slots < 1 {
		return nil, fmt.Errorf("gate slots must be >= 1, got %d", slots)
	}
	return &Gate{slots: slots, capacity: slots}, nil
}

// Acquire blocks until a slot is available or ctx is done. On success the
// caller owns one slot and must pair it with Release.
func (g *Gate) Acquire(ctx context.Context) error {
	g.mu.Lock()
	if g.slots > 0 && g.waiters.Len() == 0 {
		g.slots--
		g.mu.Unlock()
		return nil
	}

	ready := make(chan struct{})
	elem := g.waiters.PushBack(ready)
	g.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		select {
		case <-ready:
			// The slot was handed over while we were cancelling; pass it on
			// so it is not lost.
			g.mu.Unlock()
			g.Release()
		default:
			g.waiters.Remove(elem)
			g.mu.Unlock()
		}
		return ctx.Err()
	}
}

// Release frees a slot. If anyone is waiting, the oldest waiter is admitted
// immediately. Releasing a slot that was never acquired panics.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if elem := g.waiters.Front(); elem != nil {
		g.waiters.Remove(elem)
		close(elem.Value.(chan struct{}))
		return
	}
	if g.slots == g.capacity {
		panic("orchestrate: gate released more times than acquired")
	}
	g.slots++
}
