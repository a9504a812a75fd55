package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan opens an ingestion span on the global tracer provider.
func StartSpan(ctx context.Context, name, domain, file string) (context.Context, trace.Span) {
	tracer := otel.Tracer("opex-ingest")
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("ingest.domain", domain),
			attribute.String("ingest.file", file),
		),
	)
}

// EndSpan closes a span with the outcome recorded.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "ok")
	}
	span.End()
}
