package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ajitpratap0/tabprep/pkg/errors"
)

func recorder(t *testing.T) (*tracetest.SpanRecorder, *Provider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, NewProviderFrom(tp)
}

func attrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestPipelineTracerSuccess(t *testing.T) {
	sr, p := recorder(t)
	pt := NewPipelineTracer(p.Tracer(), "insurance")

	err := pt.Trace(context.Background(), "load", func(ctx context.Context, span *Span) error {
		span.SetAttribute("rows", 1337)
		span.SetAttribute("columns", []string{"age", "sex"})
		return nil
	})
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "tabprep.load", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	a := attrs(spans[0])
	assert.Equal(t, "insurance", a["pipeline.name"].AsString())
	assert.Equal(t, int64(1337), a["rows"].AsInt64())
	assert.Equal(t, []string{"age", "sex"}, a["columns"].AsStringSlice())
}

func TestPipelineTracerRecordsErrorType(t *testing.T) {
	sr, p := recorder(t)
	pt := NewPipelineTracer(p.Tracer(), "p")

	want := errors.New(errors.ErrorTypeDomain, "log requires positive values")
	err := pt.Trace(context.Background(), "step", func(context.Context, *Span) error { return want })
	assert.Same(t, want, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "domain", attrs(spans[0])["error.type"].AsString())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestNestedSpansShareTrace(t *testing.T) {
	sr, p := recorder(t)
	pt := NewPipelineTracer(p.Tracer(), "p")

	_ = pt.Trace(context.Background(), "run", func(ctx context.Context, _ *Span) error {
		return pt.Trace(ctx, "step", func(context.Context, *Span) error { return nil })
	})

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestStdoutProvider(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Writer = &buf

	p, err := NewProvider(cfg)
	require.NoError(t, err)

	_ = NewPipelineTracer(p.Tracer(), "p").Trace(context.Background(), "load", func(context.Context, *Span) error { return nil })
	require.NoError(t, p.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"tabprep.load"`)
}

func TestDisabledProvider(t *testing.T) {
	p, err := NewProvider(DefaultTracingConfig())
	require.NoError(t, err)

	ctx, span := NewSpan(context.Background(), p.Tracer(), "noop")
	span.Finish(nil)
	span.End()
	assert.NotNil(t, ctx)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.5).Description(), samplerFor(0.5).Description())
}
