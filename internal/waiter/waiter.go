package waiter

import (
	"context"
	"sync"
	"time"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
)

const defaultParkTTL = 10 * time.Minute

// Engine is an in-process implementation of port/waiter.WaitNotify. A result
// published before anyone waits is parked until the first waiter collects it,
// covering the race between a fast delegate and a slow submitter. Parked
// results that are never collected expire after the park TTL so abandoned
// wait ids do not accumulate.
type Engine struct {
	ttl time.Duration

	mu        sync.Mutex
	waiting   map[string][]chan domaintask.Result
	parked    map[string]parkedResult
	nextSweep time.Time
}

type parkedResult struct {
	result  domaintask.Result
	expires time.Time
}

// NewEngine builds an engine whose parked results live for parkTTL. Sizing
// the TTL to the task timeout works well: nobody waits for a result past the
// task's own deadline. Non-positive falls back to a conservative default.
func NewEngine(parkTTL time.Duration) *Engine {
	if parkTTL <= 0 {
		parkTTL = defaultParkTTL
	}
	return &Engine{
		ttl:     parkTTL,
		waiting: make(map[string][]chan domaintask.Result),
		parked:  make(map[string]parkedResult),
	}
}

// DoneWith publishes the terminal result for a wait id. Later publishes for
// the same id are dropped; the first result wins.
func (e *Engine) DoneWith(_ context.Context, waitID string, r domaintask.Result) error {
	now := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sweepLocked(now)

	if chans, ok := e.waiting[waitID]; ok {
		for _, ch := range chans {
			ch <- r // buffered, never blocks
		}
		delete(e.waiting, waitID)
		return nil
	}

	if _, ok := e.parked[waitID]; !ok {
		e.parked[waitID] = parkedResult{result: r, expires: now.Add(e.ttl)}
	}
	return nil
}

// WaitForTask blocks until the wait id completes or ctx is done.
func (e *Engine) WaitForTask(ctx context.Context, waitID string) (domaintask.Result, error) {
	now := time.Now()

	e.mu.Lock()
	if p, ok := e.parked[waitID]; ok {
		delete(e.parked, waitID)
		if now.Before(p.expires) {
			e.mu.Unlock()
			return p.result, nil
		}
		// Expired while parked: treat as never published.
	}
	ch := make(chan domaintask.Result, 1)
	e.waiting[waitID] = append(e.waiting[waitID], ch)
	e.mu.Unlock()

	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		e.drop(waitID, ch)
		return domaintask.Result{}, ctx.Err()
	}
}

// sweepLocked evicts expired parked results, at most once per quarter TTL so
// a publish burst does not rescan the map every call.
func (e *Engine) sweepLocked(now time.Time) {
	if now.Before(e.nextSweep) {
		return
	}
	for id, p := range e.parked {
		if now.After(p.expires) {
			delete(e.parked, id)
		}
	}
	e.nextSweep = now.Add(e.ttl / 4)
}

func (e *Engine) drop(waitID string, ch chan domaintask.Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	chans := e.waiting[waitID]
	for i, c := range chans {
		if c == ch {
			e.waiting[waitID] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(e.waiting[waitID]) == 0 {
		delete(e.waiting, waitID)
	}
}
