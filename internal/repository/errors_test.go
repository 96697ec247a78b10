package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/gateway"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"no rows", pgx.ErrNoRows, apperr.KindNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, apperr.KindConflict},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, apperr.KindNotFound},
		{"other pg", &pgconn.PgError{Code: "42P01"}, apperr.KindSystem},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), apperr.KindTimeout},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, apperr.KindUnavailable},
		{"unknown", errors.New("boom"), apperr.KindSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(classify("op", tt.err)))
		})
	}
	assert.NoError(t, classify("op", nil))
}

func TestLoginConflictKeepsCause(t *testing.T) {
	err := loginConflict(classify("admins.create", &pgconn.PgError{Code: "23505"}))

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.ErrorIs(t, err, gateway.ErrDuplicateLogin)
}
