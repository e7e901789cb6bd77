package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Pending row write strategies.
const (
	PendingModeAppend = "append"
	PendingModeUpsert = "upsert"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// requestTimeoutMargin covers store writes around the upstream calls.
const requestTimeoutMargin = 5 * time.Second

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Perahub       PerahubConfig       `mapstructure:"perahub"`
	Remittance    RemittanceConfig    `mapstructure:"remittance"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Auth          AuthConfig          `mapstructure:"auth"`
	InstanceID    string              `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	CORS              CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	ConnectRetries  uint          `mapstructure:"connect_retries"`
}

type RedisConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	DB                int           `mapstructure:"db"`
	Password          string        `mapstructure:"password"`
	ConnectRetries    uint          `mapstructure:"connect_retries"`
	ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
	ReferenceTTL      time.Duration `mapstructure:"reference_ttl"`
}

// PerahubConfig describes the upstream remittance gateway.
type PerahubConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	GatewayToken string        `mapstructure:"gateway_token"`
	Timeout      time.Duration `mapstructure:"timeout"`

	// The gateway is reached without certificate verification.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`

	ReferenceBreakerFailures uint32        `mapstructure:"reference_breaker_failures"`
	ReferenceBreakerTimeout  time.Duration `mapstructure:"reference_breaker_timeout"`
}

type RemittanceConfig struct {
	PendingMode string `mapstructure:"pending_mode"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("REMIT")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/remittance")

	// Config file is optional
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("database.port must be positive"))
	}
	if c.Redis.Port <= 0 {
		errs = append(errs, fmt.Errorf("redis.port must be positive"))
	}
	if c.Perahub.BaseURL == "" {
		errs = append(errs, fmt.Errorf("perahub.base_url is required"))
	}
	if c.Perahub.GatewayToken == "" {
		errs = append(errs, fmt.Errorf("perahub.gateway_token is required"))
	}
	if c.Perahub.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("perahub.timeout must be positive"))
	}
	if c.Server.WriteTimeout > 0 && c.Perahub.Timeout > 0 && c.Server.WriteTimeout <= c.RequestTimeout() {
		errs = append(errs, fmt.Errorf("server.write_timeout must exceed the request timeout %s, got %s",
			c.RequestTimeout(), c.Server.WriteTimeout))
	}
	switch c.Remittance.PendingMode {
	case PendingModeAppend, PendingModeUpsert:
	default:
		errs = append(errs, fmt.Errorf("remittance.pending_mode must be %q or %q, got %q",
			PendingModeAppend, PendingModeUpsert, c.Remittance.PendingMode))
	}

	env := os.Getenv("ENV")
	if env == "production" || env == "prod" {
		if c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("database.password required in production"))
		}
		if c.Auth.JWTSecret == "" {
			errs = append(errs, fmt.Errorf("auth.jwt_secret required in production"))
		}
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least 32 characters"))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "75s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.requests_per_minute", 600)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "remittance")
	v.SetDefault("database.database", "remittance")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.connect_retries", 5)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connect_retries", 5)
	v.SetDefault("redis.connect_retry_delay", "1s")
	v.SetDefault("redis.reference_ttl", "10m")

	// Upstream gateway defaults
	v.SetDefault("perahub.base_url", "")
	v.SetDefault("perahub.gateway_token", "")
	v.SetDefault("perahub.timeout", "30s")
	v.SetDefault("perahub.insecure_skip_verify", true)
	v.SetDefault("perahub.reference_breaker_failures", 5)
	v.SetDefault("perahub.reference_breaker_timeout", "30s")

	v.SetDefault("remittance.pending_mode", PendingModeAppend)

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", false)

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("instance_id", "remittance-1")
}

// RequestTimeout bounds an inbound remittance request. Send and payout make
// two sequential gateway calls, each bounded by perahub.timeout.
func (c *Config) RequestTimeout() time.Duration {
	return 2*c.Perahub.Timeout + requestTimeoutMargin
}

func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// DatabaseURL returns the connection string in URL form for golang-migrate.
func (c *DatabaseConfig) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
