package telemetry_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/samirrijal/evoteli/internal/pkg/telemetry"
)

func TestInitTracer(t *testing.T) {
	// The gRPC exporter connects lazily, so an unreachable collector is fine here.
	shutdown, err := telemetry.InitTracer(context.Background(), "evoteli-test", "127.0.0.1:4317")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown()

	_, span := otel.Tracer(telemetry.TracerBackend).Start(context.Background(), "ping")
	if !span.SpanContext().TraceID().IsValid() {
		t.Error("expected a recording provider to mint trace IDs")
	}
	span.End()
}
