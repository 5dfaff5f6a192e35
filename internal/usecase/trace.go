package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	queryTracer   = otel.Tracer("league-sheets/internal/usecase")
	queryNoopSpan = trace.SpanFromContext(context.Background())
)

// startQuerySpan only opens a child span when the caller is already traced,
// so CLI runs and warmup without a parent stay span free.
func startQuerySpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, queryNoopSpan
	}
	return queryTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
