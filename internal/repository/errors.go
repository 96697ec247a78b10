package repository

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/gateway"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

// classify maps a pgx error to an apperr kind so services can decide between
// failing and degrading to demo data.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.E(apperr.KindNotFound, op, gateway.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.E(apperr.KindConflict, op, err)
		case pgInvalidText:
			// A malformed uuid can never match a row.
			return apperr.E(apperr.KindNotFound, op, gateway.ErrNotFound)
		}
		return apperr.E(apperr.KindSystem, op, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return apperr.E(apperr.KindTimeout, op, err)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return apperr.E(apperr.KindUnavailable, op, err)
	}
	return apperr.E(apperr.KindSystem, op, err)
}

// affected turns a zero-row write into NotFound.
func affected(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return classify(op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.E(apperr.KindNotFound, op, gateway.ErrNotFound)
	}
	return nil
}
