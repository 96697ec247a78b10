package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	sentinel := New(KindConflict, "login already taken")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindSystem},
		{"plain", errors.New("boom"), KindSystem},
		{"kinded", E(KindNotFound, "admins.get", errors.New("no rows")), KindNotFound},
		{"wrapped sentinel", fmt.Errorf("create admin: %w", sentinel), KindConflict},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindTimeout},
		{"kinded beats deadline", E(KindUnavailable, "ping", context.DeadlineExceeded), KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", E(KindUnavailable, "profiles.list", errors.New("dial tcp: refused")))

	assert.True(t, errors.Is(err, &Error{Kind: KindUnavailable}))
	assert.False(t, errors.Is(err, &Error{Kind: KindTimeout}))
}

func TestSentinelIdentity(t *testing.T) {
	a := New(KindUnauthorized, "wrong password")
	b := New(KindUnauthorized, "cannot delete yourself")

	assert.True(t, errors.Is(fmt.Errorf("login: %w", a), a))
	assert.False(t, errors.Is(a, b))
}

func TestDegradable(t *testing.T) {
	assert.True(t, Degradable(E(KindUnavailable, "op", nil)))
	assert.True(t, Degradable(context.DeadlineExceeded))
	assert.True(t, Degradable(E(KindSystem, "admins.get_by_login", errors.New("relation does not exist"))))
	assert.True(t, Degradable(errors.New("permission denied for table simple_admins")))
	assert.False(t, Degradable(E(KindNotFound, "op", nil)))
	assert.False(t, Degradable(fmt.Errorf("query: %w", context.Canceled)))
	assert.False(t, Degradable(nil))
}
