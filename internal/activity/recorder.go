// Package activity records console mutations for the audit log.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

// Recorder accepts audit entries. Recording is best-effort and never fails the
// mutation being audited.
type Recorder interface {
	Record(ctx context.Context, a model.Activity)
}

// QueueRecorder pushes entries onto the Redis persist queue for the activity worker.
type QueueRecorder struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewQueueRecorder creates a QueueRecorder.
func NewQueueRecorder(rdb *redis.Client, log zerolog.Logger) *QueueRecorder {
	return &QueueRecorder{rdb: rdb, log: log.With().Str("component", "activity_queue").Logger()}
}

func (r *QueueRecorder) Record(ctx context.Context, a model.Activity) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	data, err := json.Marshal(a)
	if err != nil {
		r.log.Error().Err(err).Msg("Marshal activity")
		return
	}
	if err := r.rdb.RPush(context.WithoutCancel(ctx), config.WorkerKey.PersistActivityQueue, data).Err(); err != nil {
		r.log.Error().Err(err).Str("action", string(a.Action)).Msg("Queue activity")
	}
}

// StoreRecorder writes entries straight to a store. Used without Redis.
type StoreRecorder struct {
	store gateway.ActivityStore
	log   zerolog.Logger
}

// NewStoreRecorder creates a StoreRecorder.
func NewStoreRecorder(store gateway.ActivityStore, log zerolog.Logger) *StoreRecorder {
	return &StoreRecorder{store: store, log: log.With().Str("component", "activity_store").Logger()}
}

func (r *StoreRecorder) Record(ctx context.Context, a model.Activity) {
	if err := r.store.Insert(context.WithoutCancel(ctx), &a); err != nil {
		r.log.Error().Err(err).Str("action", string(a.Action)).Msg("Persist activity")
	}
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, model.Activity) {}
