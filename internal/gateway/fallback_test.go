package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/logger"
)

func constant(v []string, err error) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) { return v, err }
}

func TestReadPrefersPrimary(t *testing.T) {
	got, degraded, err := Read(context.Background(), logger.Nop(), "admins.list",
		constant([]string{"gateway"}, nil), constant([]string{"demo"}, nil))

	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, []string{"gateway"}, got)
}

func TestReadFallsBackOnUnavailable(t *testing.T) {
	down := apperr.E(apperr.KindUnavailable, "admins.list", errors.New("dial tcp: connection refused"))

	got, degraded, err := Read(context.Background(), logger.Nop(), "admins.list",
		constant(nil, down), constant([]string{"demo"}, nil))

	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, []string{"demo"}, got)
}

func TestReadFallsBackOnTimeout(t *testing.T) {
	_, degraded, err := Read(context.Background(), logger.Nop(), "admins.list",
		constant(nil, context.DeadlineExceeded), constant([]string{"demo"}, nil))

	require.NoError(t, err)
	assert.True(t, degraded)
}

func TestReadFallsBackOnQueryError(t *testing.T) {
	missing := apperr.E(apperr.KindSystem, "admins.get_by_login",
		&pgconn.PgError{Code: "42P01", Message: `relation "simple_admins" does not exist`})

	got, degraded, err := Read(context.Background(), logger.Nop(), "admins.get_by_login",
		constant(nil, missing), constant([]string{"demo"}, nil))

	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, []string{"demo"}, got)
}

func TestReadKeepsNotFound(t *testing.T) {
	notFound := apperr.E(apperr.KindNotFound, "admins.get", nil)

	_, degraded, err := Read(context.Background(), logger.Nop(), "admins.get",
		constant(nil, notFound), constant([]string{"demo"}, nil))

	assert.False(t, degraded)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestReadKeepsCancellation(t *testing.T) {
	_, degraded, err := Read(context.Background(), logger.Nop(), "admins.list",
		constant(nil, context.Canceled), constant([]string{"demo"}, nil))

	assert.False(t, degraded)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadWithoutFallback(t *testing.T) {
	down := apperr.E(apperr.KindUnavailable, "admins.list", nil)

	_, degraded, err := Read[[]string](context.Background(), logger.Nop(), "admins.list",
		constant(nil, down), nil)

	assert.False(t, degraded)
	assert.True(t, apperr.IsKind(err, apperr.KindUnavailable))
}
