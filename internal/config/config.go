// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config represents the application configuration
type Config struct {
	APIName            string `env:"SGS_API_APP_NAME"`
	APIVersion         string `env:"SGS_API_APP_VERSION"`
	ServerPort         string `env:"SGS_API_SERVER_PORT"`
	ServerLogLevel     string `env:"SGS_API_SERVER_LOG_LEVEL"`
	PostgresDsn        string `env:"SGS_API_PG_DSN"`
	PostgresLogLevel   string `env:"SGS_API_PG_LOG_LEVEL"`
	RedisHost          string `env:"SGS_API_REDIS_HOST"`
	RedisPort          string `env:"SGS_API_REDIS_PORT"`
	RedisPassword      string `env:"SGS_API_REDIS_PASSWORD"`
	ServiceLayerURL    string `env:"SGS_API_SL_URL"`
	ServiceLayerDB     string `env:"SGS_API_SL_COMPANY_DB"`
	SessionTTLMinutes  string `env:"SGS_API_SL_SESSION_TTL_MINUTES"`
	JwtSecret          string `env:"SGS_API_JWT_SECRET"`
	JwtIssuer          string `env:"SGS_API_JWT_ISSUER"`
	JwtExpiresMinutes  string `env:"SGS_API_JWT_EXPIRES_MINUTES"`
}

var (
	SingleLine string = "--------------------------------------------------"
)

var (
	instance *Config
	once     sync.Once
	err      error
)

// Get returns the application configuration
func Get() (*Config, error) {
	once.Do(func() {
		instance, err = loadConfig()
	})
	return instance, err
}

// loadConfig loads configuration from environment variables
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() error {
	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(c).Elem()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			return fmt.Errorf("missing env tag for field %s", field.Name)
		}

		value := os.Getenv(envTag)
		if value == "" {
			return fmt.Errorf("env variable %s is required but not set", envTag)
		}

		v.Field(i).SetString(value)
	}

	return nil
}

// SessionTTL returns the Service Layer session cache TTL. The value must
// stay below the ERP's own session timeout; 25 minutes is used when the
// configured value does not parse.
func (c *Config) SessionTTL() time.Duration {
	m, err := strconv.Atoi(c.SessionTTLMinutes)
	if err != nil || m <= 0 {
		m = 25
	}
	return time.Duration(m) * time.Minute
}

// JwtExpiry returns the lifetime of issued access tokens.
func (c *Config) JwtExpiry() time.Duration {
	m, err := strconv.Atoi(c.JwtExpiresMinutes)
	if err != nil || m <= 0 {
		m = 60
	}
	return time.Duration(m) * time.Minute
}

// String returns the configuration as a string
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n--------------------------------------\n")
	sb.WriteString("Configuration:\n")
	sb.WriteString("--------------------------------------\n")

	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(*c)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i).String()

		// Mask sensitive fields
		value = maskSensitiveField(field.Name, value)
		sb.WriteString(fmt.Sprintf("  %s:  %s\n", field.Name, value))
	}

	sb.WriteString("--------------------------------------\n")

	return sb.String()
}

func maskSensitiveField(fieldName, value string) string {
	sensitiveFields := []string{"secret", "dsn", "password", "url"}

	fieldNameLower := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(fieldNameLower, sensitive) {
			return maskValue(value)
		}
	}

	return value
}

func maskValue(value string) string {
	if len(value) <= 3 {
		return strings.Repeat("*", 7)
	}
	return value[:3] + strings.Repeat("*", 7)
}
