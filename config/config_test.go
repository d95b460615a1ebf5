package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "REDIS_ENABLED", "KAFKA_ENABLED", "KAFKA_BROKERS", "JAEGER_ENDPOINT", "CHECKOUT_IDEMPOTENCY_TTL_SECONDS", "SEED_DEMO_DATA"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Observ.JaegerEndpoint)
	assert.Equal(t, 24*time.Hour, cfg.Market.CheckoutIdempotencyTTL)
	assert.False(t, cfg.Market.SeedDemoData)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("KAFKA_ENABLED", "1")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_TOPIC_MARKET_EVENTS", "events")
	t.Setenv("CHECKOUT_IDEMPOTENCY_TTL_SECONDS", "60")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "events", cfg.Kafka.TopicMarketEvents)
	assert.Equal(t, time.Minute, cfg.Market.CheckoutIdempotencyTTL)
	assert.True(t, cfg.Market.SeedDemoData)
}

func TestMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("REDIS_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.Redis.Enabled)
}
