package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Observ ObservabilityConfig
	Market MarketConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled           bool
	Brokers           []string
	TopicMarketEvents string
	ConsumerGroup     string
}

type ObservabilityConfig struct {
	// JaegerEndpoint empty disables span export
	JaegerEndpoint string
}

type MarketConfig struct {
	CheckoutIdempotencyTTL time.Duration
	SeedDemoData           bool
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:           getEnvBool("KAFKA_ENABLED", false),
			Brokers:           splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			TopicMarketEvents: getEnv("KAFKA_TOPIC_MARKET_EVENTS", "market-events"),
			ConsumerGroup:     getEnv("KAFKA_CONSUMER_GROUP", "minitemu-sales-group"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		},
		Market: MarketConfig{
			CheckoutIdempotencyTTL: time.Duration(getEnvInt("CHECKOUT_IDEMPOTENCY_TTL_SECONDS", 86400)) * time.Second,
			SeedDemoData:           getEnvBool("SEED_DEMO_DATA", false),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
