package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const schedulerTracerName = "github.com/taskdo/reminder-dispatch/internal/scheduler"

func SchedulerTracer() trace.Tracer {
	return otel.Tracer(schedulerTracerName)
}

func StartTickSpan(ctx context.Context, now time.Time, lookahead time.Duration) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.tick",
		trace.WithAttributes(
			attribute.String("tick.now", now.Format(time.RFC3339)),
			attribute.Int64("tick.lookahead_minutes", int64(lookahead.Minutes())),
		),
	)
}

func StartDeliverySpan(ctx context.Context, taskID string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.delivery",
		trace.WithAttributes(
			attribute.String("task_id", taskID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// InjectToHTTPRequest propagates the current trace context onto an outbound
// request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
