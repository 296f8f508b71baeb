package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage backend: "sqlite" or "memory"
	DataBackend  string
	SQLiteDBPath string

	// AMQP (cloud sync, optional — empty URL disables it)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Transactional mail (optional — empty endpoint disables it)
	EmailEndpoint   string
	EmailServiceID  string
	EmailTemplateID string
	EmailUserID     string

	// Receipt OCR (feature-flagged)
	OCREnabled  bool
	OCREndpoint string
	OCRAPIKey   string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/truckbooks.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "truckbooks"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "record_events"),

		EmailEndpoint:   getEnv("EMAIL_API_ENDPOINT", ""),
		EmailServiceID:  getEnv("EMAIL_SERVICE_ID", ""),
		EmailTemplateID: getEnv("EMAIL_TEMPLATE_ID", ""),
		EmailUserID:     getEnv("EMAIL_USER_ID", ""),

		OCREnabled:  getEnvBool("OCR_ENABLED", false),
		OCREndpoint: getEnv("OCR_API_ENDPOINT", ""),
		OCRAPIKey:   getEnv("OCR_API_KEY", ""),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.EmailEndpoint != "" {
		if c.EmailServiceID == "" || c.EmailTemplateID == "" || c.EmailUserID == "" {
			errs = append(errs, "EMAIL_SERVICE_ID, EMAIL_TEMPLATE_ID and EMAIL_USER_ID are required when EMAIL_API_ENDPOINT is set")
		}
	}

	if c.OCREnabled {
		if c.OCREndpoint == "" {
			errs = append(errs, "OCR_API_ENDPOINT is required when OCR is enabled")
		}
		if c.OCRAPIKey == "" {
			errs = append(errs, "OCR_API_KEY is required when OCR is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
