package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Cyclone1070/aiagent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_WriteToTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordToolCall("get_files_info", false, 10*time.Millisecond)
	m.RecordToolCall("get_files_info", true, 5*time.Millisecond)
	m.RecordModelCall(false, time.Second, 120, 30)
	m.RecordRounds(3)

	path := filepath.Join(t.TempDir(), "aiagent.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `aiagent_tool_calls_total{status="success",tool="get_files_info"} 1`)
	assert.Contains(t, text, `aiagent_tool_calls_total{status="failure",tool="get_files_info"} 1`)
	assert.Contains(t, text, `aiagent_model_requests_total{status="success"} 1`)
	assert.Contains(t, text, `aiagent_model_tokens_used_total{direction="prompt"} 120`)
	assert.Contains(t, text, `aiagent_model_tokens_used_total{direction="response"} 30`)
	assert.Contains(t, text, "aiagent_loop_rounds_count 1")
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordToolCall("x", false, time.Second)
		m.RecordModelCall(true, time.Second, 1, 1)
		m.RecordRounds(1)
	})
	assert.NoError(t, m.WriteToTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestMetrics_EmptyPathSkipsWrite(t *testing.T) {
	assert.NoError(t, NewMetrics().WriteToTextfile(""))
}

func TestNewTracerSetup_NoEndpoint(t *testing.T) {
	setup, err := NewTracerSetup(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	assert.Nil(t, setup)

	// Nil setup still hands out a usable tracer.
	_, span := setup.Tracer().Start(context.Background(), "test")
	span.End()
	assert.NoError(t, setup.Shutdown(context.Background()))
}

func TestNewTracerSetup_WithEndpoint(t *testing.T) {
	setup, err := NewTracerSetup(context.Background(), config.TelemetryConfig{
		ServiceName:  "aiagent-test",
		OTLPEndpoint: "localhost:4318",
		OTLPInsecure: true,
	})
	require.NoError(t, err)
	require.NotNil(t, setup)

	_, span := setup.Tracer().Start(context.Background(), "test")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// Export may fail without a collector; shutdown must still return.
	_ = setup.Shutdown(ctx)
}
