package telemetry_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(original) })
	return sr
}

func attrMap(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)
	owner := uuid.New()

	ctx, span := telemetry.StartServiceSpan(t.Context(), "cart", "add_to_cart",
		telemetry.SpanAttrOwnerID, owner,
		telemetry.SpanAttrQuantity, 2,
		42, "ignored",
		"dangling",
	)
	assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "cart.add_to_cart", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())

	attrs := attrMap(spans[0])
	assert.Equal(t, owner.String(), attrs[telemetry.SpanAttrOwnerID].AsString())
	assert.Equal(t, int64(2), attrs[telemetry.SpanAttrQuantity].AsInt64())
	assert.Len(t, attrs, 2)
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(t.Context(), "catalog", "search")
	telemetry.SetAttributes(span, "query", "mug", "matched", true, "ratio", 0.5, "tags", []string{"a"})
	span.End()

	attrs := attrMap(sr.Ended()[0])
	assert.Equal(t, "mug", attrs["query"].AsString())
	assert.True(t, attrs["matched"].AsBool())
	assert.Equal(t, 0.5, attrs["ratio"].AsFloat64())
	assert.Equal(t, []string{"a"}, attrs["tags"].AsStringSlice())

	assert.NotPanics(t, func() { telemetry.SetAttributes(nil, "k", "v") })
}

func TestEndSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, ok := telemetry.StartServiceSpan(t.Context(), "cart", "remove")
	telemetry.EndSpan(ok, nil)

	_, failed := telemetry.StartServiceSpan(t.Context(), "cart", "decrement")
	telemetry.EndSpan(failed, errors.New("line not in order"))

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "line not in order", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestRecordError_NilInputs(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.RecordError(nil, errors.New("x"))
	})
}
