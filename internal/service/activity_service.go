package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

// Activity list bounds.
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
)

// ActivityService reads the admin activity log.
type ActivityService struct {
	store    gateway.ActivityStore
	fallback gateway.ActivityStore
	timeout  time.Duration
	log      zerolog.Logger
}

// NewActivityService creates a new ActivityService. fallback may be nil.
func NewActivityService(store, fallback gateway.ActivityStore, timeout time.Duration, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		store:    store,
		fallback: fallback,
		timeout:  timeout,
		log:      log.With().Str("component", "activity_service").Logger(),
	}
}

// Recent returns up to limit entries, newest first. Out-of-range limits use the default.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > MaxActivityLimit {
		limit = DefaultActivityLimit
	}
	read := func(store gateway.ActivityStore) func(context.Context) ([]model.Activity, error) {
		return func(ctx context.Context) ([]model.Activity, error) { return store.ListRecent(ctx, limit) }
	}

	var fb func(context.Context) ([]model.Activity, error)
	if s.fallback != nil {
		fb = read(s.fallback)
	}
	entries, _, err := gateway.Read(ctx, s.log, "activity.list", withTimeout(s.timeout, read(s.store)), fb)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.Activity{}
	}
	return entries, nil
}
