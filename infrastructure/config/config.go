package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domainconfig "breathe-backend/domain/config"
)

// Persistence backends
const (
	PersistenceMemory   = "memory"
	PersistenceDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// AWS configuration
	AWSRegion    string `yaml:"aws_region"`
	TableName    string `yaml:"table_name"`
	IndexName    string `yaml:"index_name"` // GSI1 - email lookups
	EventBusName string `yaml:"event_bus_name"`
	IsLambda     bool   `yaml:"-"`

	// Storage and catalog
	Persistence     string `yaml:"persistence"`
	TechniquesPath  string `yaml:"techniques_path"`
	WatchTechniques bool   `yaml:"watch_techniques"`

	// Progress rules
	StreakTimezone  string  `yaml:"streak_timezone"`
	CompletionRatio float64 `yaml:"completion_ratio"`

	// Authentication
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	JWTTTLHours int    `yaml:"jwt_ttl_hours"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	// Protection
	RateLimitPerMinute    int    `yaml:"rate_limit_per_minute"`
	BreakerMaxFailures    int    `yaml:"breaker_max_failures"`
	BreakerTimeoutSeconds int    `yaml:"breaker_timeout_seconds"`
	MetricsNamespace      string `yaml:"metrics_namespace"`

	watchSet bool
}

// defaults returns the configuration used when nothing is set
func defaults() *Config {
	return &Config{
		ServerAddress:         ":8080",
		Environment:           "development",
		AWSRegion:             "us-west-2",
		TableName:             "breathe",
		IndexName:             "GSI1",
		EventBusName:          "breathe-events",
		Persistence:           PersistenceMemory,
		StreakTimezone:        "UTC",
		CompletionRatio:       1.0,
		JWTIssuer:             "breathe-api",
		JWTTTLHours:           168,
		LogLevel:              "info",
		EnableMetrics:         true,
		EnableCORS:            true,
		RateLimitPerMinute:    100,
		BreakerMaxFailures:    5,
		BreakerTimeoutSeconds: 30,
		MetricsNamespace:      "Breathe",
	}
}

// LoadConfig loads configuration from .env, an optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var probe struct {
		Watch *bool `yaml:"watch_techniques"`
	}
	if err := yaml.Unmarshal(data, &probe); err == nil && probe.Watch != nil {
		c.watchSet = true
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.TableName = getEnv("TABLE_NAME", c.TableName)
	c.IndexName = getEnv("INDEX_NAME", c.IndexName)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.IsLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	c.Persistence = getEnv("PERSISTENCE", c.Persistence)
	c.TechniquesPath = getEnv("TECHNIQUES_PATH", c.TechniquesPath)
	if !c.watchSet {
		c.WatchTechniques = c.IsDevelopment()
	}
	c.WatchTechniques = getEnvBool("WATCH_TECHNIQUES", c.WatchTechniques)

	c.StreakTimezone = getEnv("STREAK_TIMEZONE", c.StreakTimezone)
	c.CompletionRatio = getEnvFloat("COMPLETION_RATIO", c.CompletionRatio)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.JWTTTLHours = getEnvInt("JWT_TTL_HOURS", c.JWTTTLHours)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)

	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.BreakerMaxFailures = getEnvInt("BREAKER_MAX_FAILURES", c.BreakerMaxFailures)
	c.BreakerTimeoutSeconds = getEnvInt("BREAKER_TIMEOUT_SECONDS", c.BreakerTimeoutSeconds)
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.TableName == "" {
			return fmt.Errorf("TABLE_NAME is required in production")
		}
	}

	switch c.Persistence {
	case PersistenceMemory, PersistenceDynamoDB:
	default:
		return fmt.Errorf("unknown PERSISTENCE %q", c.Persistence)
	}

	if _, err := time.LoadLocation(c.StreakTimezone); err != nil {
		return fmt.Errorf("invalid STREAK_TIMEZONE %q: %w", c.StreakTimezone, err)
	}

	if c.CompletionRatio <= 0 || c.CompletionRatio > 1 {
		return fmt.Errorf("COMPLETION_RATIO must be in (0,1], got %v", c.CompletionRatio)
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// JWTTTL is the lifetime of issued tokens
func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// DomainConfig derives the business rules from configuration
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	rules := domainconfig.DefaultDomainConfig()
	if loc, err := time.LoadLocation(c.StreakTimezone); err == nil {
		rules.StreakLocation = loc
	}
	if c.CompletionRatio > 0 {
		rules.CompletionRatio = c.CompletionRatio
	}
	return rules
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
