// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Generator GeneratorConfig `mapstructure:"generator"`
	History   HistoryConfig   `mapstructure:"history"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name         string   `mapstructure:"name"`
	Env          string   `mapstructure:"env"` // development, staging, production
	Port         int      `mapstructure:"port"`
	Debug        bool     `mapstructure:"debug"`
	TemplatesDir string   `mapstructure:"templates_dir"`
	CORSOrigins  []string `mapstructure:"cors_origins"` // empty allows any origin
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Name          string        `mapstructure:"name"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	SSLMode       string        `mapstructure:"ssl_mode"`
	MaxOpenConns  int           `mapstructure:"max_open_conns"`
	MaxIdleConns  int           `mapstructure:"max_idle_conns"`
	MaxLifetime   time.Duration `mapstructure:"max_lifetime"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis connection settings for caching and locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	AnalysisTTL time.Duration `mapstructure:"analysis_ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// EngineConfig holds scoring engine settings.
type EngineConfig struct {
	TablesFile        string  `mapstructure:"tables_file"` // optional YAML overlay
	DefaultMarket     string  `mapstructure:"default_market"`
	DefaultNicheFocus float64 `mapstructure:"default_niche_focus"`
}

// ScraperConfig holds the history collaborator endpoint.
type ScraperConfig struct {
	BaseURL   string          `mapstructure:"base_url"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	UserAgent string          `mapstructure:"user_agent"`
	APIKey    string          `mapstructure:"api_key"`
	Retry     RetryConfig     `mapstructure:"retry"`
	CB        CBConfig        `mapstructure:"circuit_breaker"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// RateLimitConfig holds outbound rate limit settings.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// GeneratorConfig holds text generation settings.
type GeneratorConfig struct {
	Provider    string        `mapstructure:"provider"` // anthropic, openai, or empty to disable
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	CB          CBConfig      `mapstructure:"circuit_breaker"`
}

// HistoryConfig holds background history refresh settings.
type HistoryConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	OnStartup bool          `mapstructure:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout"`
	BatchSize int           `mapstructure:"batch_size"`
	MaxTweets int           `mapstructure:"max_tweets"`
	MaxAge    time.Duration `mapstructure:"max_age"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"` // empty disables token checks
	Issuer      string `mapstructure:"issuer"`
	DefaultUser string `mapstructure:"default_user"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Generator.Provider {
	case "", "anthropic", "openai":
	default:
		return fmt.Errorf("unknown generator provider %q", c.Generator.Provider)
	}
	if c.Generator.Provider != "" && c.Generator.APIKey == "" {
		return fmt.Errorf("generator %s needs an api_key", c.Generator.Provider)
	}
	if c.Engine.DefaultNicheFocus < 0 || c.Engine.DefaultNicheFocus > 1 {
		return fmt.Errorf("engine.default_niche_focus must be within [0,1], got %v", c.Engine.DefaultNicheFocus)
	}
	if c.History.Interval <= 0 {
		return fmt.Errorf("history.interval must be positive")
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "tweet-score-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.templates_dir", "./web/templates")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "tweet_score")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.slow_threshold", "200ms")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.analysis_ttl", "1h")
	v.SetDefault("cache.key_prefix", "tweetscore")

	// Engine defaults
	v.SetDefault("engine.tables_file", "")
	v.SetDefault("engine.default_market", "US")
	v.SetDefault("engine.default_niche_focus", 0.5)

	// Scraper defaults
	v.SetDefault("scraper.base_url", "http://localhost:8081")
	v.SetDefault("scraper.timeout", "15s")
	v.SetDefault("scraper.user_agent", "tweet-score-service/1.0")
	v.SetDefault("scraper.api_key", "")
	v.SetDefault("scraper.retry.max_attempts", 2)
	v.SetDefault("scraper.retry.wait_time", "1s")
	v.SetDefault("scraper.retry.max_wait_time", "5s")
	v.SetDefault("scraper.circuit_breaker.max_requests", 3)
	v.SetDefault("scraper.circuit_breaker.interval", "60s")
	v.SetDefault("scraper.circuit_breaker.timeout", "30s")
	v.SetDefault("scraper.circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("scraper.rate_limit.rps", 2)
	v.SetDefault("scraper.rate_limit.burst", 4)

	// Generator defaults
	v.SetDefault("generator.provider", "")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.base_url", "")
	v.SetDefault("generator.model", "claude-sonnet-4-5")
	v.SetDefault("generator.max_tokens", 1024)
	v.SetDefault("generator.temperature", 0.8)
	v.SetDefault("generator.timeout", "60s")
	v.SetDefault("generator.max_retries", 2)
	v.SetDefault("generator.circuit_breaker.max_requests", 1)
	v.SetDefault("generator.circuit_breaker.interval", "60s")
	v.SetDefault("generator.circuit_breaker.timeout", "60s")
	v.SetDefault("generator.circuit_breaker.failure_ratio", 0.6)

	// History defaults
	v.SetDefault("history.interval", "6h")
	v.SetDefault("history.on_startup", false)
	v.SetDefault("history.timeout", "2m")
	v.SetDefault("history.batch_size", 50)
	v.SetDefault("history.max_tweets", 50)
	v.SetDefault("history.max_age", "12h")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.default_user", "anonymous")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}
