package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func setupTracer(t *testing.T) trace.Tracer {
	t.Helper()

	tp := sdktrace.NewTracerProvider()
	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})

	return tp.Tracer("httpclient-test")
}

func TestInjectTraceContext(t *testing.T) {
	tracer := setupTracer(t)
	client := NewClient(time.Second, 0)

	t.Run("with span", func(t *testing.T) {
		ctx, span := tracer.Start(context.Background(), "generate")
		defer span.End()

		req := httptest.NewRequest(http.MethodPost, "http://ollama.local/api/generate", nil).WithContext(ctx)
		client.injectTraceContext(req)

		// version-trace_id-parent_id-flags
		assert.Len(t, req.Header.Get("traceparent"), 55)
	})

	t.Run("without span", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://ollama.local/api/generate", nil)
		client.injectTraceContext(req)
		assert.Empty(t, req.Header.Get("traceparent"))
	})

	t.Run("nil request", func(t *testing.T) {
		assert.NotPanics(t, func() { client.injectTraceContext(nil) })
	})
}

func TestDoRequestPropagatesTrace(t *testing.T) {
	tracer := setupTracer(t)

	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, span := tracer.Start(context.Background(), "question")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := NewClient(time.Second, 0).DoRequest(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Contains(t, received, span.SpanContext().TraceID().String())
}

func TestDoRequestNoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := NewClient(time.Second, 0).DoRequest(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoRequestRetriesWithBody(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "payload", string(body))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("payload"))
	require.NoError(t, err)

	resp, err := NewClient(time.Second, 1).DoRequest(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"model":"llama3"}`, string(body))
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	var out struct {
		Response string `json:"response"`
	}
	err := NewClient(time.Second, 0).PostJSON(context.Background(), server.URL,
		map[string]string{"model": "llama3"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Response)
}

func TestDoJSONStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	err = NewClient(time.Second, 0).DoJSON(req, nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "model not found")
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = NewClient(20*time.Millisecond, 0).DoRequest(req)
	assert.Error(t, err)
}
