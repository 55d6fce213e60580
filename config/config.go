package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

type MongoConfig struct {
	URL    string
	DBName string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers    []string
	TopicOrder string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

type StripeConfig struct {
	APIKey        string
	WebhookSecret string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type BusinessConfig struct {
	Currency              string
	FreeShippingThreshold float64
	ShippingFee           float64
	PendingTxTTLMinutes   int
	ExpirySweepSeconds    int
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "720"))
	freeShipping, _ := strconv.ParseFloat(getEnv("FREE_SHIPPING_THRESHOLD", "50"), 64)
	shippingFee, _ := strconv.ParseFloat(getEnv("SHIPPING_FEE", "5"), 64)
	pendingTTL, _ := strconv.Atoi(getEnv("PENDING_TX_TTL_MINUTES", "60"))
	sweepSeconds, _ := strconv.Atoi(getEnv("EXPIRY_SWEEP_SECONDS", "300"))

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Env:         getEnv("ENV", "development"),
			CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		},
		Mongo: MongoConfig{
			URL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
			DBName: getEnv("DB_NAME", "jungle_store"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicOrder: getEnv("KAFKA_TOPIC_ORDER_EVENTS", "order-events"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "jungle-swimwear-secret-key-2024"),
			TokenTTLHours: tokenTTL,
		},
		Stripe: StripeConfig{
			APIKey:        getEnv("STRIPE_API_KEY", "sk_test_emergent"),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Business: BusinessConfig{
			Currency:              getEnv("CURRENCY", "usd"),
			FreeShippingThreshold: freeShipping,
			ShippingFee:           shippingFee,
			PendingTxTTLMinutes:   pendingTTL,
			ExpirySweepSeconds:    sweepSeconds,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
