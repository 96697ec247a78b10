package service

import (
	"context"
	"time"

	"github.com/medconsole/admin-backend/internal/listview"
)

// ListResult is one filtered list screen: the matching records, the size of
// the unfiltered collection and statistics over the unfiltered collection.
type ListResult[T any, S any] struct {
	Items    []T              `json:"items"`
	Total    int              `json:"total"`
	Matched  int              `json:"matched"`
	Stats    S                `json:"stats"`
	Banner   *listview.Banner `json:"banner,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// lister binds a loader to its filter spec and statistics.
type lister[T any, S any] struct {
	load    listview.Loader[T]
	spec    listview.Spec[T]
	stats   func([]T) S
	timeout time.Duration
}

func (l lister[T, S]) result(items []T, q listview.Query, banner *listview.Banner) *ListResult[T, S] {
	filtered := listview.Filter(items, l.spec, q)
	return &ListResult[T, S]{
		Items:   filtered,
		Total:   len(items),
		Matched: len(filtered),
		Stats:   l.stats(items),
		Banner:  banner,
	}
}

// list loads the collection and applies q.
func (l lister[T, S]) list(ctx context.Context, q listview.Query) (*ListResult[T, S], error) {
	c := listview.New(l.load, l.timeout)
	defer c.Dispose()

	items, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	return l.result(items, q, nil), nil
}

// mutate runs fn for record id, reloads the collection and applies q.
// A failed mutation is returned as the error; the reloaded list is discarded.
func (l lister[T, S]) mutate(ctx context.Context, id, success string, q listview.Query, fn func(context.Context) error) (*ListResult[T, S], error) {
	c := listview.New(l.load, l.timeout)
	defer c.Dispose()

	banner, err := c.Mutate(ctx, id, success, fn)
	if err != nil {
		return nil, err
	}
	view := c.Snapshot()
	if view.State == listview.LoadError {
		return nil, view.Err
	}
	return l.result(view.Items, q, &banner), nil
}
