package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestOpMeta_SpanName verifies span name follows vk.call.<method>.
func TestOpMeta_SpanName(t *testing.T) {
	tests := []struct {
		method   string
		expected string
	}{
		{"users.get", "vk.call.users.get"},
		{"wall.get", "vk.call.wall.get"},
		{"groups.getById", "vk.call.groups.getById"},
	}

	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			meta := OpMeta{Method: tc.method}
			if got := meta.SpanName(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

// TestTracer_SpanAttributes verifies all attributes are present on span.
func TestTracer_SpanAttributes(t *testing.T) {
	// Set up in-memory span recorder
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := NewTracer(tracer)
	meta := OpMeta{
		Method:  "users.get",
		Service: "profiles",
		Version: "5.199",
		Attempt: 2,
	}

	ctx, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)
	_ = ctx // Suppress unused warning

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	if s.Name() != "vk.call.users.get" {
		t.Errorf("expected span name 'vk.call.users.get', got %q", s.Name())
	}

	attrs := s.Attributes()
	attrMap := make(map[string]attribute.Value)
	for _, a := range attrs {
		attrMap[string(a.Key)] = a.Value
	}

	if v, ok := attrMap["vk.method"]; !ok || v.AsString() != "users.get" {
		t.Errorf("expected vk.method='users.get', got %v", v)
	}
	if v, ok := attrMap["vk.service"]; !ok || v.AsString() != "profiles" {
		t.Errorf("expected vk.service='profiles', got %v", v)
	}
	if v, ok := attrMap["vk.version"]; !ok || v.AsString() != "5.199" {
		t.Errorf("expected vk.version='5.199', got %v", v)
	}
	if v, ok := attrMap["vk.attempt"]; !ok || v.AsInt64() != 2 {
		t.Errorf("expected vk.attempt=2, got %v", v)
	}
	if v, ok := attrMap["vk.error"]; !ok || v.AsBool() != false {
		t.Errorf("expected vk.error=false, got %v", v)
	}
}

// TestTracer_SpanAttributesMinimal verifies only required attributes when minimal meta.
func TestTracer_SpanAttributesMinimal(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := NewTracer(tracer)
	meta := OpMeta{
		Method: "users.get",
	}

	ctx, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]
	attrs := s.Attributes()
	attrMap := make(map[string]attribute.Value)
	for _, a := range attrs {
		attrMap[string(a.Key)] = a.Value
	}

	// Required attributes should be present
	if _, ok := attrMap["vk.method"]; !ok {
		t.Error("expected vk.method attribute")
	}
	if _, ok := attrMap["vk.error"]; !ok {
		t.Error("expected vk.error attribute")
	}

	// Optional attributes should NOT be present when empty
	if v, ok := attrMap["vk.service"]; ok && v.AsString() != "" {
		t.Errorf("expected no vk.service, got %v", v)
	}
	if v, ok := attrMap["vk.version"]; ok && v.AsString() != "" {
		t.Errorf("expected no vk.version, got %v", v)
	}
}

// TestTracer_ContextPropagation verifies parent span is propagated.
func TestTracer_ContextPropagation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := NewTracer(tracer)
	meta := OpMeta{Method: "users.get"}

	// Create parent span
	parentCtx, parentSpan := tracer.Start(context.Background(), "parent")

	// Create child span through our tracer
	childCtx, childSpan := tr.StartSpan(parentCtx, meta)
	tr.EndSpan(childSpan, nil)
	parentSpan.End()
	_ = childCtx

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	// Find the child span (the one with vk.call prefix)
	var child sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == "vk.call.users.get" {
			child = s
			break
		}
	}
	if child == nil {
		t.Fatal("child span not found")
	}

	// Verify parent-child relationship
	if child.Parent().TraceID() != parentSpan.SpanContext().TraceID() {
		t.Error("child span should have same trace ID as parent")
	}
	if !child.Parent().SpanID().IsValid() {
		t.Error("child span should have valid parent span ID")
	}
}

// TestTracer_ErrorRecording verifies error sets span status and attribute.
func TestTracer_ErrorRecording(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := NewTracer(tracer)
	meta := OpMeta{Method: "wall.get"}

	ctx, span := tr.StartSpan(context.Background(), meta)
	testErr := errors.New("upstream failed")
	tr.EndSpan(span, testErr)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	// Verify error status
	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status().Code)
	}

	// Verify vk.error attribute
	attrs := s.Attributes()
	var callError bool
	for _, a := range attrs {
		if string(a.Key) == "vk.error" {
			callError = a.Value.AsBool()
			break
		}
	}
	if !callError {
		t.Error("expected vk.error=true")
	}
}
