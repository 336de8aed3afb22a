package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Config holds application configuration values.
type Config struct {
	Secret         string
	HTTPPort       string
	DatabaseDriver string
	DatabaseDSN    string
	StoragePrefix  string
	RabbitMQURL    string
	OrderExchange  string
	LogLevel       string
	LogFormat      string
	CORSOrigins    []string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	cfg := Config{
		Secret:         getEnv("SECRET", "dev_secret"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "pharmacie.db"),
		StoragePrefix:  getEnv("STORAGE_PREFIX", "pharmacie_talah_"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		OrderExchange:  getEnv("ORDER_EXCHANGE", "orders_exchange"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Warn().Str("value", cfg.HTTPPort).Msg("invalid HTTP_PORT, defaulting to 8080")
		cfg.HTTPPort = "8080"
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "pgx":
	default:
		log.Warn().Str("value", cfg.DatabaseDriver).Msg("unsupported DATABASE_DRIVER, defaulting to sqlite")
		cfg.DatabaseDriver = "sqlite"
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
