// Package listview implements the load/filter/mutate cycle shared by the
// admin, user and consultation lists: fetch the full collection, filter it in
// memory, and after every single-record mutation fetch it again.
package listview

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State of a controller.
type State uint8

const (
	Idle State = iota
	Loading
	Loaded
	LoadError
	Mutating
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadError:
		return "load_error"
	case Mutating:
		return "mutating"
	default:
		return "idle"
	}
}

var (
	// ErrStale is returned for results that arrive after Dispose or after a newer load started.
	ErrStale = errors.New("listview: stale result discarded")
	// ErrDisposed is returned when a disposed controller is asked to do work.
	ErrDisposed = errors.New("listview: controller disposed")
)

// BannerKind styles a transient message.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is the transient message shown after a mutation.
type Banner struct {
	Kind    BannerKind `json:"kind"`
	Message string     `json:"message"`
}

// Loader fetches the full collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// View is a snapshot of a controller.
type View[T any] struct {
	State      State
	MutatingID string
	Items      []T
	Err        error
	Banner     *Banner
}

// Controller owns one list's state. It is safe for concurrent use.
type Controller[T any] struct {
	load    Loader[T]
	timeout time.Duration

	mu         sync.Mutex
	state      State
	mutatingID string
	items      []T
	err        error
	banner     *Banner
	gen        uint64
	disposed   bool
}

// New creates an Idle controller. Each load is bounded by timeout when positive.
func New[T any](load Loader[T], timeout time.Duration) *Controller[T] {
	return &Controller[T]{load: load, timeout: timeout}
}

// Load fetches the collection. Idle/Loaded/LoadError → Loading → Loaded|LoadError.
func (c *Controller[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, ErrDisposed
	}
	c.banner = nil
	c.state = Loading
	c.mu.Unlock()

	return c.fetch(ctx)
}

// fetch runs the loader and applies the result unless it went stale.
func (c *Controller[T]) fetch(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	items, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || gen != c.gen {
		return nil, ErrStale
	}
	if err != nil {
		c.state = LoadError
		c.err = err
		return nil, err
	}
	c.state = Loaded
	c.err = nil
	c.items = items
	return items, nil
}

// Mutate runs fn against record id, then always reloads the whole collection.
// The mutation error, if any, is returned and reflected in the banner; the
// reload error is available from Snapshot.
func (c *Controller[T]) Mutate(ctx context.Context, id, success string, fn func(context.Context) error) (Banner, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return Banner{}, ErrDisposed
	}
	c.banner = nil
	c.state = Mutating
	c.mutatingID = id
	c.mu.Unlock()

	mctx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		mctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	err := fn(mctx)

	banner := Banner{Kind: BannerSuccess, Message: success}
	if err != nil {
		banner = Banner{Kind: BannerError, Message: err.Error()}
	}

	_, lerr := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if errors.Is(lerr, ErrStale) {
		return banner, err
	}
	c.mutatingID = ""
	c.banner = &banner
	return banner, err
}

// Dispose discards every in-flight and future result.
func (c *Controller[T]) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
	c.gen++
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View[T]{
		State:      c.state,
		MutatingID: c.mutatingID,
		Items:      c.items,
		Err:        c.err,
		Banner:     c.banner,
	}
}
