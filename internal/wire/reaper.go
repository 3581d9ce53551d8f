package wire

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fleetmesh/dispatch/internal/config"
	"github.com/fleetmesh/dispatch/internal/domain/event"
	porteventbus "github.com/fleetmesh/dispatch/internal/port/eventbus"
)

// startReaper subscribes to the delegate event channel and schedules a
// grace-period timer whenever a delegate goes offline. A reconnect within
// the grace period cancels the timer; expiry fails the delegate's in-flight
// tasks so their submitters are notified instead of waiting out the task
// timeout. Queued broadcasts are untouched — the rebroadcast sweep redirects
// those.
func startReaper(ctx context.Context, app *App, bus porteventbus.EventBus, cfg config.Config) {
	type key struct {
		accountID  string
		delegateID string
	}

	var (
		mu     sync.Mutex
		timers = make(map[key]*time.Timer)
	)

	schedule := func(k key, grace time.Duration) {
		t := time.AfterFunc(grace, func() {
			mu.Lock()
			delete(timers, k)
			mu.Unlock()

			if err := app.Dispatch.MarkTasksFailedForDelegate(context.Background(), k.accountID, k.delegateID); err != nil {
				slog.Error("reaper: failing tasks for offline delegate failed",
					"account_id", k.accountID, "delegate_id", k.delegateID, "error", err)
			}
		})
		mu.Lock()
		timers[k] = t
		mu.Unlock()
	}

	cancel := func(k key) {
		mu.Lock()
		if t, ok := timers[k]; ok {
			t.Stop()
			delete(timers, k)
		}
		mu.Unlock()
	}

	if _, err := bus.Subscribe(ctx, event.TypeDelegateOffline, func(_ context.Context, e event.Event) {
		schedule(key{accountID: e.AccountID, delegateID: e.EntityID}, cfg.OfflineGrace)
	}); err != nil {
		slog.Error("reaper: failed to subscribe to delegate offline events", "error", err)
	}

	if _, err := bus.Subscribe(ctx, event.TypeDelegateOnline, func(_ context.Context, e event.Event) {
		cancel(key{accountID: e.AccountID, delegateID: e.EntityID})
	}); err != nil {
		slog.Error("reaper: failed to subscribe to delegate online events", "error", err)
	}
}

// startSweeps runs the periodic expiry and rebroadcast loops. Both sweeps
// take a Postgres advisory lock internally, so running them on every manager
// replica is safe — one replica does the work per tick.
func startSweeps(ctx context.Context, app *App, cfg config.Config) {
	go func() {
		ticker := time.NewTicker(cfg.ExpirySweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := app.Dispatch.ExpirySweep(ctx); err != nil {
					slog.Error("expiry sweep failed", "error", err)
				}
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.RebroadcastSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := app.Dispatch.RebroadcastSweep(ctx); err != nil {
					slog.Error("rebroadcast sweep failed", "error", err)
				}
			}
		}
	}()
}
