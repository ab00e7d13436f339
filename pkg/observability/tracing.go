// Package observability provides tracing for tabprep runs
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/tabprep/pkg/errors"
)

// Span wraps a trace span and batches its attributes until End.
type Span struct {
	span       trace.Span
	startTime  time.Time
	attributes []attribute.KeyValue
}

// NewSpan starts a span named operationName.
func NewSpan(ctx context.Context, tracer trace.Tracer, operationName string) (context.Context, *Span) {
	ctx, span := tracer.Start(ctx, operationName)
	return ctx, &Span{span: span, startTime: time.Now()}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	case []string:
		attr = attribute.StringSlice(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Finish records err, if any, as the span status.
func (s *Span) Finish(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		s.SetAttribute("error.type", string(errors.TypeOf(err)))
		return
	}
	s.span.SetStatus(codes.Ok, "")
}

// End ends the span.
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.SetAttributes(attribute.Int64("duration_us", time.Since(s.startTime).Microseconds()))
	s.span.End()
}

// PipelineTracer starts spans carrying the pipeline name.
type PipelineTracer struct {
	pipeline string
	tracer   trace.Tracer
}

// NewPipelineTracer creates a tracer for one pipeline.
func NewPipelineTracer(tracer trace.Tracer, pipeline string) *PipelineTracer {
	return &PipelineTracer{pipeline: pipeline, tracer: tracer}
}

// StartSpan starts a span named "tabprep.<operation>".
func (pt *PipelineTracer) StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	ctx, span := NewSpan(ctx, pt.tracer, "tabprep."+operation)
	span.SetAttribute("pipeline.name", pt.pipeline)
	span.SetAttribute("pipeline.operation", operation)
	return ctx, span
}

// Trace runs fn inside a span and records its error.
func (pt *PipelineTracer) Trace(ctx context.Context, operation string, fn func(ctx context.Context, span *Span) error) error {
	ctx, span := pt.StartSpan(ctx, operation)
	defer span.End()

	err := fn(ctx, span)
	span.Finish(err)
	return err
}
