package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "litmuschaos.io/chaos-engine"
)

// StartExperimentSpan opens a span covering one experiment run
func StartExperimentSpan(ctx context.Context, experimentID, name string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "chaos_experiment",
		trace.WithAttributes(
			attribute.String("chaos.experiment.id", experimentID),
			attribute.String("chaos.experiment.name", name),
		))
}
