package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewClientUsesGivenTracer(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { tp.Shutdown(t.Context()) })
	tracer := tp.Tracer(TracerName)

	// Creating the client does not dial the daemon.
	c, err := NewClient("tcp://127.0.0.1:2375", tracer)
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, tracer, c.tracer)
	assert.Equal(t, "tcp://127.0.0.1:2375", c.Host())
}

func TestNewClientDefaultTracer(t *testing.T) {
	c, err := NewClient("tcp://127.0.0.1:2375", nil)
	require.NoError(t, err)
	defer c.Close()
	assert.NotNil(t, c.tracer)
}
