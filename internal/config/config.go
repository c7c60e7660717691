package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Shopify ShopifyConfig
	Webhook WebhookConfig
	Kafka   KafkaConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port string
}

type ShopifyConfig struct {
	AccessToken string
	StoreDomain string
	APIVersion  string
	Timeout     time.Duration
}

type WebhookConfig struct {
	// AllowedOrigin is the single origin declared in the CORS headers.
	AllowedOrigin string
	// JWTSecret enables inbound bearer-token verification when non-empty.
	JWTSecret string
}

type KafkaConfig struct {
	// Brokers empty disables event publishing.
	Brokers     []string
	EventsTopic string
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

// Load reads the full configuration from the environment. The store
// credential and domain are required and missing values fail here, at
// startup, rather than surfacing on the first webhook.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getenv("PORT", "8080"),
		},
		Shopify: ShopifyConfig{
			AccessToken: strings.TrimSpace(os.Getenv("SHOPIFY_ACCESS_TOKEN")),
			StoreDomain: strings.TrimSpace(os.Getenv("SHOPIFY_STORE_DOMAIN")),
			APIVersion:  getenv("SHOPIFY_API_VERSION", "2024-01"),
			Timeout:     10 * time.Second,
		},
		Webhook: WebhookConfig{
			AllowedOrigin: getenv("WEBHOOK_ALLOWED_ORIGIN", "*"),
			JWTSecret:     strings.TrimSpace(os.Getenv("WEBHOOK_JWT_SECRET")),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			EventsTopic: getenv("KAFKA_EVENTS_TOPIC", "booking.tags-reconciled"),
		},
		Logging: LoggingConfig{
			Directory: getenv("LOG_DIR", "./logs"),
			Level:     getenv("LOG_LEVEL", "info"),
			Format:    getenv("LOG_FORMAT", "text"),
		},
	}

	if raw := strings.TrimSpace(os.Getenv("SHOPIFY_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse SHOPIFY_TIMEOUT: %w", err)
		}
		cfg.Shopify.Timeout = timeout
	}

	var missing []string
	if cfg.Shopify.AccessToken == "" {
		missing = append(missing, "SHOPIFY_ACCESS_TOKEN")
	}
	if cfg.Shopify.StoreDomain == "" {
		missing = append(missing, "SHOPIFY_STORE_DOMAIN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
