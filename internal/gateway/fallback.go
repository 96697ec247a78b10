package gateway

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/apperr"
)

var fallbackTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_gateway_fallback_total",
		Help: "Reads served from demo data because the gateway read failed",
	},
	[]string{"op"},
)

// Read runs primary and, if it fails and fallback is set, serves the result of
// fallback instead. The degraded result reports true. A definitive not-found
// and a cancelled caller are returned unchanged.
func Read[T any](ctx context.Context, log zerolog.Logger, op string, primary, fallback func(context.Context) (T, error)) (T, bool, error) {
	v, err := primary(ctx)
	if err == nil || fallback == nil || !apperr.Degradable(err) {
		return v, false, err
	}

	log.Warn().Err(err).Str("op", op).Msg("Gateway read failed, serving demo data")
	fallbackTotal.WithLabelValues(op).Inc()

	// The caller's deadline may be what failed; demo data is local.
	fv, ferr := fallback(context.WithoutCancel(ctx))
	return fv, true, ferr
}
