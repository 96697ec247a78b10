// Package apperr defines the error kinds shared by the gateway adapters, the
// services and the HTTP layer. Callers branch on Kind, never on message text.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	// KindSystem is the catch-all for unexpected failures.
	KindSystem Kind = iota
	// KindNotFound means a credential or record lookup returned no row.
	KindNotFound
	// KindConflict means a unique key (login) is already taken or an invariant would break.
	KindConflict
	// KindUnauthorized means the caller is not permitted to perform the action.
	KindUnauthorized
	// KindUnavailable means the gateway could not be reached.
	KindUnavailable
	// KindTimeout means a gateway call exceeded its deadline.
	KindTimeout
	// KindInvalid means the input violates a wire-level contract (e.g. an unknown status).
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnavailable:
		return "gateway_unavailable"
	case KindTimeout:
		return "timeout"
	case KindInvalid:
		return "invalid"
	default:
		return "system_error"
	}
}

// Error carries a Kind, the operation that failed and the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, &Error{Kind: k}) match on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// E wraps err with a kind and operation name.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// New creates a sentinel-style error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Op: msg}
}

// KindOf walks the chain and returns the first Kind found.
// Context deadline errors without a Kind report KindTimeout.
func KindOf(err error) Kind {
	if err == nil {
		return KindSystem
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindSystem
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Degradable reports whether a read may fall back to demo data. Any gateway
// failure qualifies except a definitive not-found and a caller that went away.
func Degradable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return KindOf(err) != KindNotFound
}
