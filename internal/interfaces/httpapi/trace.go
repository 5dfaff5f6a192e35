package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	apiTracer = otel.Tracer("league-sheets/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// handlerSpan opens "httpapi.Handler.<op>" under the otelhttp server span.
// Filtered routes such as /healthz have no parent and stay untraced.
func handlerSpan(r *http.Request, op string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, handlerSpanName(op), trace.WithAttributes(
		attribute.String("http.route", r.Pattern),
	))
}

func handlerSpanName(op string) string {
	return "httpapi.Handler." + op
}
