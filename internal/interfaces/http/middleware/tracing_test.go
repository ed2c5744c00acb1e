package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	r := gin.New()
	r.Use(Tracing(TracingConfig{Enabled: false}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SpanPerRequest(t *testing.T) {
	sr := setupTestTracer(t)
	r := gin.New()
	r.Use(RequestID(), Tracing(TracingConfig{ServiceName: "rentwise-test", Enabled: true}), SpanErrorMarker())
	r.GET("/api/v1/tasks/:id", func(c *gin.Context) {
		c.Set(logger.GinAgencyIDKey, "agency-1")
		c.Set(logger.GinUserIDKey, "user-1")
		c.Next()
	}, SpanAttributes(), func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/42", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	serve(r, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Contains(t, span.Name(), "/api/v1/tasks/:id")
	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := spanAttrs(span)
	assert.Equal(t, "req-7", attrs["request_id"].AsString())
	assert.Equal(t, "agency-1", attrs["agency_id"].AsString())
	assert.Equal(t, "user-1", attrs["user_id"].AsString())
}

func TestSpanErrorMarker_Success(t *testing.T) {
	sr := setupTestTracer(t)
	r := gin.New()
	r.Use(Tracing(TracingConfig{ServiceName: "rentwise-test", Enabled: true}), SpanErrorMarker())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}
