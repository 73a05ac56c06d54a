// Package config loads service configuration from the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingRequired is returned when a required environment variable is unset.
var ErrMissingRequired = errors.New("required environment variable is not set")

// Config holds all configuration for the service.
type Config struct {
	Port            string
	Environment     string
	DatabaseURL     string
	JWTSecret       string
	JWTTTL          time.Duration
	AllowedOrigins  []string
	RoutePolicyFile string
	AuthRatePerMin  int
}

// Load reads configuration from environment variables. JWT_SECRET and
// DATABASE_URL are required; everything else has a default.
func Load() (*Config, error) {
	secret, err := getEnvRequired("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	dsn, err := getEnvRequired("DATABASE_URL")
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            getEnv("PORT", "5050"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		DatabaseURL:     dsn,
		JWTSecret:       secret,
		JWTTTL:          parseDuration(getEnv("JWT_TTL", "1h"), time.Hour),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5050")),
		RoutePolicyFile: getEnv("ROUTE_POLICY_FILE", ""),
		AuthRatePerMin:  parseInt(getEnv("AUTH_RATE_PER_MINUTE", "10"), 10),
	}, nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvRequired(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingRequired)
	}
	return v, nil
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func parseInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
