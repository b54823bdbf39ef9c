package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("http request", map[string]any{"path": "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipUptraceLog("http request", map[string]any{"path": "/v1/team/me"}) {
		t.Fatalf("did not expect non-health log to be skipped")
	}
	if shouldSkipUptraceLog("player bought", map[string]any{"path": "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	values := fieldsToMap([]zapcore.Field{
		zap.String("user_id", "usr_1"),
		zap.Int64("price", 95),
		zap.String("trace_id", "4bf92f3577b34da6a3ce929d0e0e4736"),
	})

	attrs := buildOTelLogAttributes(values)
	if len(attrs) != 2 {
		t.Fatalf("expected trace fields to be dropped, got %d attributes", len(attrs))
	}
	if attrs[0].Key != "price" || attrs[0].Value.AsInt64() != 95 {
		t.Fatalf("unexpected price attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "user_id" || attrs[1].Value.AsString() != "usr_1" {
		t.Fatalf("unexpected user_id attribute: %+v", attrs[1])
	}
}

func TestContextFromTraceFields(t *testing.T) {
	ctx := contextFromTraceFields(map[string]any{
		"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":  "00f067aa0ba902b7",
	})
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() || spanCtx.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("expected span context to be rebuilt, got %+v", spanCtx)
	}

	if trace.SpanContextFromContext(contextFromTraceFields(map[string]any{"trace_id": "zz"})).IsValid() {
		t.Fatalf("expected invalid trace fields to be ignored")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"tries":  3,
		"winner": true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	if items := v.AsMap(); len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}
