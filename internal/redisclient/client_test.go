package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyKeys(t *testing.T) {
	t.Skip("Integration test - requires redis")

	client, err := NewClient("localhost:6379", "", 0)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	key := uuid.NewString()

	_, found, err := client.GetIdempotencyKey(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, client.SetIdempotencyKey(ctx, key, "order-1", time.Minute))

	val, found, err := client.GetIdempotencyKey(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "order-1", val)

	assert.NoError(t, client.Ping(ctx))
}
