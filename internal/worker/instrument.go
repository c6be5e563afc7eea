package worker

import (
	"context"

	"fintrack/internal/amqp"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrument counts every handled event by type and outcome.
func Instrument(next amqp.Handler, consumed *prometheus.CounterVec) amqp.Handler {
	return func(ctx context.Context, ev *amqp.LedgerEvent) error {
		err := next(ctx, ev)
		status := "success"
		if err != nil {
			status = "failed"
		}
		consumed.WithLabelValues(string(ev.Type), status).Inc()
		return err
	}
}
