package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGinMiddleware_PropagatesIdentifiers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinMiddleware(MiddlewareConfig{}))

	var seenRequestID, seenCorrelationID string
	engine.GET("/api/documents", func(c *gin.Context) {
		seenRequestID = RequestIDFromContext(c.Request.Context())
		seenCorrelationID = CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "req-1", seenRequestID)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))
	require.NotEmpty(t, seenCorrelationID)
	assert.Equal(t, seenCorrelationID, rec.Header().Get("X-Correlation-Id"))
	_, err := ulid.Parse(seenCorrelationID)
	assert.NoError(t, err)
}

func TestEnsureCorrelationID_KeepsExisting(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc")
	ctx, id := EnsureCorrelationID(ctx)
	assert.Equal(t, "abc", id)
	assert.Equal(t, "abc", CorrelationIDFromContext(ctx))
}

func TestWithContext_AddsTraceFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	ctx := WithRequestID(context.Background(), "req-1")
	WithContext(ctx, base).Info("without span")
	WithContext(trace.ContextWithSpanContext(ctx, sc), base).Info("with span")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0].ContextMap(), "trace_id")
	fields := entries[1].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
}

func TestGormLoggerConfigFor(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLoggerConfigFor("debug").Level)
	assert.Equal(t, gormlogger.Warn, GormLoggerConfigFor("info").Level)
	assert.True(t, GormLoggerConfigFor("info").IgnoreRecordNotFound)
}
