package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

// defaultMaxAttempts is how many inserts an entry gets before it is moved to
// the dead-letter list.
const defaultMaxAttempts = 5

// queueItem is an activity entry as it travels through the queue. Attempts is
// absent on entries pushed by the recorder.
type queueItem struct {
	model.Activity
	Attempts int `json:"attempts,omitempty"`
}

// ActivityWorker consumes persist_activity_queue and inserts entries into admin_activity.
type ActivityWorker struct {
	store       gateway.ActivityStore
	rdb         *redis.Client
	log         zerolog.Logger
	retryDelay  time.Duration
	maxAttempts int
}

// NewActivityWorker creates a new ActivityWorker.
func NewActivityWorker(store gateway.ActivityStore, rdb *redis.Client, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		store:       store,
		rdb:         rdb,
		log:         log.With().Str("component", "activity_worker").Logger(),
		retryDelay:  5 * time.Second,
		maxAttempts: defaultMaxAttempts,
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ActivityWorker) processNext(ctx context.Context) {
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistActivityQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		if w.retry(context.WithoutCancel(ctx), result[1], err) {
			select {
			case <-ctx.Done():
			case <-time.After(w.retryDelay):
			}
		}
	}
}

// handle persists one raw queue item. Malformed items are logged and dropped.
func (w *ActivityWorker) handle(ctx context.Context, raw string) error {
	var item queueItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping item")
		return nil
	}
	return w.store.Insert(ctx, &item.Activity)
}

// reroute counts a failed attempt on raw and picks the list it goes back to.
func (w *ActivityWorker) reroute(raw string) (key, payload string) {
	var item queueItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return config.WorkerKey.ActivityDeadLetterQueue, raw
	}
	item.Attempts++

	key = config.WorkerKey.PersistActivityQueue
	if item.Attempts >= w.maxAttempts {
		key = config.WorkerKey.ActivityDeadLetterQueue
	}
	data, err := json.Marshal(item)
	if err != nil {
		return config.WorkerKey.ActivityDeadLetterQueue, raw
	}
	return key, string(data)
}

// retry pushes a failed item back to the queue or to the dead-letter list.
// It reports whether the item was queued for another attempt.
func (w *ActivityWorker) retry(ctx context.Context, raw string, cause error) bool {
	key, payload := w.reroute(raw)
	if err := w.rdb.RPush(ctx, key, payload).Err(); err != nil {
		w.log.Error().Err(err).AnErr("cause", cause).Str("item", raw).Msg("Failed to requeue activity entry, entry lost")
		return false
	}
	if key == config.WorkerKey.ActivityDeadLetterQueue {
		w.log.Error().Err(cause).Str("queue", key).Msg("Persist failed too often, moved to dead-letter list")
		return false
	}
	w.log.Warn().Err(cause).Msg("Persist error, retrying")
	return true
}

// drain gives every entry still queued at shutdown one more attempt. Entries
// that fail again are requeued for the next start or dead-lettered.
func (w *ActivityWorker) drain(ctx context.Context) {
	pending, err := w.rdb.LLen(ctx, config.WorkerKey.PersistActivityQueue).Result()
	if err != nil {
		w.log.Error().Err(err).Msg("Drain failed to read queue length")
		return
	}

	drained, failed := 0, 0
	for ; pending > 0; pending-- {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.PersistActivityQueue).Result()
		if err != nil {
			break
		}
		if err := w.handle(ctx, raw); err != nil {
			failed++
			w.retry(ctx, raw, err)
			continue
		}
		drained++
	}

	if drained > 0 || failed > 0 {
		w.log.Info().Int("count", drained).Int("failed", failed).Msg("Drained remaining items")
	}
}
