package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreOverwritesAndClears(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(8, time.Hour)

	got, err := s.Read(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, got)

	issued := time.Now()
	require.NoError(t, s.Save(ctx, Session{AdminID: "a1", JTI: "first", IssuedAt: issued}))
	require.NoError(t, s.Save(ctx, Session{AdminID: "a1", JTI: "second", IssuedAt: issued}))

	got, err = s.Read(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.JTI)

	require.NoError(t, s.Clear(ctx, "a1"))
	require.NoError(t, s.Clear(ctx, "a1"))
	got, _ = s.Read(ctx, "a1")
	assert.Nil(t, got)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(8, 20*time.Millisecond)

	require.NoError(t, s.Save(ctx, Session{AdminID: "a1", JTI: "j"}))
	assert.Eventually(t, func() bool {
		got, _ := s.Read(ctx, "a1")
		return got == nil
	}, time.Second, 10*time.Millisecond)
}
