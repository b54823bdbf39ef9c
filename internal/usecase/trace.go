package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var economyTracer = otel.Tracer("dbr-fantasy/economy")

// startUsecaseSpan joins an existing request trace; untraced callers such as
// the window monitor or tests get the no-op span already in ctx.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return economyTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
