package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/addahub/addahub-web/internal/logging"
)

// Watcher keeps a Store in step with changes other processes make to the
// shared credential. The store is re-read on a fixed interval; stores that
// implement Notifier are also followed by push.
type Watcher struct {
	store    *Store
	interval time.Duration

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWatcher(store *Store, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{store: store, interval: interval}
}

// Start syncs once and then follows the backing store until Stop or ctx ends.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return fmt.Errorf("session watcher already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.sync(ctx)

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", w.interval), func() { w.sync(ctx) }); err != nil {
		cancel()
		w.cancel = nil
		return fmt.Errorf("schedule session sync: %w", err)
	}
	c.Start()
	w.cron = c

	// The poll keeps running when the subscription drops.
	if n, ok := w.store.Backend().(Notifier); ok {
		w.done = make(chan struct{})
		go func() {
			defer close(w.done)
			if err := n.Watch(ctx, func() { w.sync(ctx) }); err != nil && ctx.Err() == nil {
				logging.For(ctx).LogError("session_watch", err)
			}
		}()
	}
	return nil
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
		w.cron = nil
	}
	if w.done != nil {
		<-w.done
		w.done = nil
	}
}

func (w *Watcher) sync(ctx context.Context) {
	changed, err := w.store.Sync(ctx)
	if err != nil {
		logging.For(ctx).LogError("session_sync", err)
		return
	}
	if changed {
		id, ok := w.store.Current()
		logging.For(ctx).LogInfo("session_sync", "session credential changed",
			slog.Bool("authenticated", ok),
			slog.String("user_id", id.UserID),
		)
	}
}
