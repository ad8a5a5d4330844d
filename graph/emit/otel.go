package emit

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating an OpenTelemetry span per
// event. Each event is a point in time (trace/prune/error/complete are
// all instantaneous from the engine's perspective), so the span is
// started and ended immediately rather than left open.
//
// Usage:
//
//	tracer := otel.Tracer("depgraph")
//	emitter := emit.NewOTelEmitter(tracer)
//	g, err := graph.New(getDeps, graph.WithEmitter(emitter))
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter backed by tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit starts and immediately ends a span named after the event kind.
func (o *OTelEmitter) Emit(event Event) {
	o.emitOne(context.Background(), event)
}

func (o *OTelEmitter) emitOne(ctx context.Context, event Event) {
	_, span := o.tracer.Start(ctx, "depgraph."+event.Kind.String())
	defer span.End()

	attrs := []attribute.KeyValue{attribute.String("depgraph.kind", event.Kind.String())}
	if event.Node != "" {
		attrs = append(attrs, attribute.String("depgraph.node", event.Node))
	}
	if len(event.Dependencies) > 0 {
		attrs = append(attrs, attribute.StringSlice("depgraph.dependencies", event.Dependencies))
	}
	span.SetAttributes(attrs...)

	if event.Err != nil {
		span.SetStatus(codes.Error, event.Err.Error())
		span.RecordError(event.Err)
	}
}

// EmitBatch creates one span per event, sharing ctx for propagation.
func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		o.emitOne(ctx, event)
	}
	return nil
}

// Flush force-flushes the active TracerProvider if it supports it.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	tp := otel.GetTracerProvider()

	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := tp.(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}
