package telemetry

import (
	"context"
	"testing"

	"github.com/DanielPopoola/x402-gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), config.TelemetryConfig{ServiceName: "x402-gateway"})

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_WithEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), config.TelemetryConfig{
		ServiceName:  "x402-gateway",
		OTLPEndpoint: "localhost:4318",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// No spans were recorded, so shutdown has nothing to flush.
	_ = shutdown(ctx)
}

func TestExporterOptions(t *testing.T) {
	assert.Len(t, exporterOptions("collector:4318"), 2)
	assert.Len(t, exporterOptions("https://collector.example.com/v1/traces"), 1)
}
