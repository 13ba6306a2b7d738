package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:4318", "localhost:4318"},
		{"https://collector.example.com/", "collector.example.com"},
		{"localhost:4318", "localhost:4318"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, endpointHost(tt.in))
	}
}

func TestStartSpan_NoopWhenDisabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.NoError(t, setup(context.Background(), "", ""))
	assert.False(t, Enabled())

	ctx, span := StartSpan(context.Background(), "test", "attachment.upload", "task_id", "t1", "dangling")
	defer span.End()
	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())

	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	assert.NoError(t, Shutdown(context.Background()))
}
