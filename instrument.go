package tadau

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this library in traces and metrics
const instrumentationName = "github.com/itsneelabh/tadau"

// instruments holds the OpenTelemetry tracer and counters for the
// reporter. Only the global API is used: the host application owns the
// provider setup, and without one everything here is a safe no-op.
type instruments struct {
	tracer trace.Tracer
	sent   metric.Int64Counter
	failed metric.Int64Counter
}

func newInstruments() *instruments {
	meter := otel.Meter(instrumentationName)

	// Counter creation only fails on invalid instrument names; a nil
	// counter simply disables accounting.
	sent, _ := meter.Int64Counter("tadau.events.sent",
		metric.WithDescription("Events dispatched to the collect endpoint"))
	failed, _ := meter.Int64Counter("tadau.events.failed",
		metric.WithDescription("Events skipped or failed during dispatch"))

	return &instruments{
		tracer: otel.Tracer(instrumentationName),
		sent:   sent,
		failed: failed,
	}
}

func (i *instruments) addSent(ctx context.Context) {
	if i.sent != nil {
		i.sent.Add(ctx, 1)
	}
}

func (i *instruments) addFailed(ctx context.Context) {
	if i.failed != nil {
		i.failed.Add(ctx, 1)
	}
}
