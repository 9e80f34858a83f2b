package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const envPrefix = "KILINIKS"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Events    EventsConfig    `mapstructure:"events"`
	Email     EmailConfig     `mapstructure:"email"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" split_words:"true"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" split_words:"true"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	// URL takes precedence over the discrete fields when set.
	URL             string        `mapstructure:"url" envconfig:"DATABASE_URL"`
	SecretARN       string        `mapstructure:"secret_arn" envconfig:"DB_SECRET_ARN"`
	Region          string        `mapstructure:"region"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" split_words:"true"`
	AutoMigrate     bool          `mapstructure:"auto_migrate" split_words:"true"`
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}

type AuthConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	JWTSecret    string `mapstructure:"jwt_secret" split_words:"true"`
	Issuer       string `mapstructure:"issuer"`
	LocalSubject string `mapstructure:"local_subject" split_words:"true"`
}

type EventsConfig struct {
	Driver         string            `mapstructure:"driver"`
	Channel        string            `mapstructure:"channel"`
	Source         string            `mapstructure:"source"`
	PublishTimeout time.Duration     `mapstructure:"publish_timeout" split_words:"true"`
	Redis          RedisConfig       `mapstructure:"redis"`
	ServiceBus     ServiceBusConfig  `mapstructure:"servicebus"`
	EventBridge    EventBridgeConfig `mapstructure:"eventbridge"`
	Breaker        BreakerConfig     `mapstructure:"breaker"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries" split_words:"true"`
	PoolSize     int    `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int    `mapstructure:"min_idle_conns" split_words:"true"`
}

type ServiceBusConfig struct {
	ConnectionString string `mapstructure:"connection_string" split_words:"true"`
	Queue            string `mapstructure:"queue"`
}

type EventBridgeConfig struct {
	BusName string `mapstructure:"bus_name" split_words:"true"`
	Region  string `mapstructure:"region"`
}

type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests" split_words:"true"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold" split_words:"true"`
}

type EmailConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" split_words:"true"`
	Burst             int           `mapstructure:"burst"`
	TTL               time.Duration `mapstructure:"ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
	AllowedMethods []string `mapstructure:"allowed_methods" split_words:"true"`
	AllowedHeaders []string `mapstructure:"allowed_headers" split_words:"true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WorkerConfig struct {
	Port          int           `mapstructure:"port"`
	RetryAttempts int           `mapstructure:"retry_attempts" split_words:"true"`
	RetryDelay    time.Duration `mapstructure:"retry_delay" split_words:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "kiliniks")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.local_subject", "local-user")

	v.SetDefault("events.driver", "console")
	v.SetDefault("events.channel", "kiliniks.events")
	v.SetDefault("events.source", "kiliniks.api")
	v.SetDefault("events.publish_timeout", 2*time.Second)
	v.SetDefault("events.redis.url", "redis://localhost:6379/0")
	v.SetDefault("events.redis.max_retries", 3)
	v.SetDefault("events.redis.pool_size", 10)
	v.SetDefault("events.breaker.max_requests", 1)
	v.SetDefault("events.breaker.interval", time.Minute)
	v.SetDefault("events.breaker.timeout", 30*time.Second)
	v.SetDefault("events.breaker.failure_threshold", 5)

	v.SetDefault("email.port", 587)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.ttl", 10*time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type", "X-Request-ID"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("worker.port", 3001)
	v.SetDefault("worker.retry_attempts", 3)
	v.SetDefault("worker.retry_delay", 2*time.Second)
}

// Load reads config.yaml from the usual locations (or CONFIG_FILE) and then
// applies KILINIKS_* environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 {
		problems = append(problems, "server.port must be positive")
	}
	switch c.Events.Driver {
	case "console", "redis":
	case "servicebus":
		if c.Events.ServiceBus.ConnectionString == "" || c.Events.ServiceBus.Queue == "" {
			problems = append(problems, "events.servicebus requires connection_string and queue")
		}
	case "eventbridge":
		if c.Events.EventBridge.BusName == "" {
			problems = append(problems, "events.eventbridge requires bus_name")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown events.driver %q", c.Events.Driver))
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required when auth is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
