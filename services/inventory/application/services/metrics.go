package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ghuser/cafestock/services/inventory"

// engineMetrics are exported through the global OTel meter provider, which
// the api process backs with the Prometheus reader on /metrics.
type engineMetrics struct {
	operations   metric.Int64Counter
	failures     metric.Int64Counter
	reservations metric.Int64Counter
	sweeps       metric.Int64Counter
}

func newEngineMetrics() *engineMetrics {
	m := otel.Meter(meterName)
	ops, _ := m.Int64Counter("inventory.operations",
		metric.WithDescription("Completed inventory mutations by operation"))
	fails, _ := m.Int64Counter("inventory.operation_failures",
		metric.WithDescription("Rejected inventory mutations by operation and reason"))
	res, _ := m.Int64Counter("inventory.reservation_transitions",
		metric.WithDescription("Reservation state transitions by target status"))
	sweeps, _ := m.Int64Counter("inventory.sweeps",
		metric.WithDescription("Expiry sweeper ticks by outcome"))
	return &engineMetrics{operations: ops, failures: fails, reservations: res, sweeps: sweeps}
}

func (m *engineMetrics) succeeded(ctx context.Context, op string) {
	m.operations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}

func (m *engineMetrics) failed(ctx context.Context, op string, err error) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("reason", errorReason(err)),
	))
}

func (m *engineMetrics) transitioned(ctx context.Context, status string) {
	m.reservations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *engineMetrics) swept(ctx context.Context, outcome string) {
	m.sweeps.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
