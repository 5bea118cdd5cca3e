package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP    HTTPConfig
	Mongo   MongoConfig
	Auth    AuthConfig
	Kafka   KafkaConfig
	Elastic ElasticConfig
	Gemini  GeminiConfig
	Stripe  StripeConfig
	Telem   TelemConfig
}

type HTTPConfig struct {
	Addr string
}

type MongoConfig struct {
	URI      string
	Database string
}

type AuthConfig struct {
	SessionSecret string
	StaffCode     string // shared secret presented at staff registration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type ElasticConfig struct {
	Addr string
}

type GeminiConfig struct {
	APIKey string
}

type StripeConfig struct {
	SecretKey string
}

type TelemConfig struct {
	MetricsAddr  string
	OTLPEndpoint string // empty disables tracing export
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", "127.0.0.1:8000"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "daebakDB"),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("session_secret", ""),
			StaffCode:     getEnv("STAFF_CODE", "1234!"),
		},
		Kafka: KafkaConfig{
			Topic: getEnv("KAFKA_TOPIC", "logs"),
		},
		Elastic: ElasticConfig{
			Addr: getEnv("ELASTICSEARCH_ADDR", ""),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		},
		Telem: TelemConfig{
			MetricsAddr:  getEnv("METRICS_ADDR", "127.0.0.1:9100"),
			OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
		},
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}

	return cfg, nil
}

// KafkaEnabled reports whether the request log pipeline should run.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// GeminiEnabled reports whether the AI assistant endpoints are available.
func (c *Config) GeminiEnabled() bool {
	return c.Gemini.APIKey != ""
}

func (c *Config) StripeEnabled() bool {
	return c.Stripe.SecretKey != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
