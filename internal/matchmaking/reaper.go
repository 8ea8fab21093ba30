package matchmaking

import (
	"context"
	"log"
	"time"

	"github.com/woneyH/game-pot/internal/platform/timeouts"
	"github.com/woneyH/game-pot/internal/storage"
)

// Reaper removes queue entries older than the retention window so
// abandoned sessions do not linger in matching results.
type Reaper struct {
	queue     storage.QueueStore
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewReaper builds a reaper over the queue store. Non-positive durations
// fall back to the defaults of one hour between sweeps and a two hour
// retention window.
func NewReaper(queue storage.QueueStore, interval, retention time.Duration) *Reaper {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 2 * time.Hour
	}
	return &Reaper{
		queue:     queue,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Run sweeps the queue on the configured interval until ctx is cancelled.
// Sweep failures are logged and the loop keeps going.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				log.Printf("queue reaper sweep: %v", err)
			}
		}
	}
}

// RunOnce deletes queue entries created before the retention cutoff.
func (r *Reaper) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.ReaperTick)
	defer cancel()

	cutoff := r.now().UTC().Add(-r.retention)
	deleted, err := r.queue.DeleteQueueEntriesBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		log.Printf("queue reaper removed %d stale entries", deleted)
	}
	return nil
}
