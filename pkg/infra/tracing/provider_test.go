package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
		errs   int
	}{
		{"disabled ignores everything", func(o *Options) { o.ExporterType = "bogus" }, 0},
		{"enabled stdout", func(o *Options) { o.Enabled = true }, 0},
		{"grpc without endpoint", func(o *Options) {
			o.Enabled = true
			o.ExporterType = ExporterOTLPGRPC
			o.Endpoint = ""
		}, 1},
		{"bad exporter", func(o *Options) { o.Enabled = true; o.ExporterType = "zipkin" }, 1},
		{"bad ratio", func(o *Options) { o.Enabled = true; o.SamplerType = SamplerRatio; o.SamplerRatio = 2 }, 1},
		{"bad sampler and timeouts", func(o *Options) {
			o.Enabled = true
			o.SamplerType = "sometimes"
			o.BatchTimeout = 0
			o.ExportTimeout = 0
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.modify(o)
			assert.Len(t, o.Validate(), tt.errs)
		})
	}
}

func TestNewProviderDisabled(t *testing.T) {
	restoreGlobals(t)

	p, err := NewProvider(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	_, span := p.Tracer("test").Start(context.Background(), "op")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderInvalid(t *testing.T) {
	o := NewOptions()
	o.Enabled = true
	o.ExporterType = "zipkin"

	_, err := NewProvider(context.Background(), o)
	assert.Error(t, err)
}

func TestStdoutExporterWritesSpans(t *testing.T) {
	restoreGlobals(t)

	var buf bytes.Buffer
	prev := stdoutWriter
	stdoutWriter = &buf
	t.Cleanup(func() { stdoutWriter = prev })

	o := NewOptions()
	o.Enabled = true
	o.ServiceName = "secq"

	p, err := NewProvider(context.Background(), o)
	require.NoError(t, err)
	require.True(t, p.Enabled())

	ctx, span := StartSpan(context.Background(), SpanQuestion, String(AttrQuestionID, "7"))
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("model timeout"))
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "question"`)
	assert.Contains(t, buf.String(), "model timeout")
}

func TestNoopExporter(t *testing.T) {
	restoreGlobals(t)

	o := NewOptions()
	o.Enabled = true
	o.ExporterType = ExporterNoop

	p, err := NewProvider(context.Background(), o)
	require.NoError(t, err)

	ctx, span := p.Tracer("test").Start(context.Background(), "op")
	assert.True(t, trace.SpanFromContext(ctx).IsRecording())
	span.End()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))
	assert.NotPanics(t, func() {
		RecordError(ctx, errors.New("x"))
		RecordError(ctx, nil)
		AddSpanAttributes(ctx, String(AttrPath, "a.pdf"))
	})
}
