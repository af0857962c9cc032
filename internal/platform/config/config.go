package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean.
type Server struct {
	Addr          string
	JWTSigningKey string

	// TargetCountry is the locality the gate tests nationality against.
	TargetCountry string

	// PostgresDSN enables the postgres application/stage stores when set;
	// empty means in-memory stores.
	PostgresDSN string

	// RedisURL enables the redis government-lookup cache when set.
	RedisURL string

	// KafkaBrokers enables the Kafka audit publisher when non-empty.
	KafkaBrokers []string
	AuditTopic   string
}

// GovCacheTTL bounds retention of cached government lookups.
var GovCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:          getenv("KYC_GATEWAY_ADDR", ":8080"),
		TargetCountry: getenv("KYC_TARGET_COUNTRY", "SINGAPORE"),
		PostgresDSN:   os.Getenv("KYC_POSTGRES_DSN"),
		RedisURL:      os.Getenv("KYC_REDIS_URL"),
		AuditTopic:    getenv("KYC_AUDIT_TOPIC", "kyc.audit"),
	}

	cfg.JWTSigningKey = os.Getenv("JWT_SIGNING_KEY")
	if cfg.JWTSigningKey == "" {
		// Development default - must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	if brokers := os.Getenv("KYC_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
