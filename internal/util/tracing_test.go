package util

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerWithoutEndpoint(t *testing.T) {
	tp, err := InitTracer("minitemu-test", "")
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := StartSpan(context.Background(), "test.span")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
}

func TestInitLogger(t *testing.T) {
	for _, env := range []string{"production", "console", "development"} {
		require.NoError(t, InitLogger(env), env)
		assert.NotNil(t, GetLogger())
	}
	SyncLogger()
}
