package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/credscore/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Model     ModelConfig     `mapstructure:"model"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Audit     AuditConfig     `mapstructure:"audit"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	GRPCPort        int      `mapstructure:"grpc_port"`
	GRPCEnabled     bool     `mapstructure:"grpc_enabled"`
	Environment     string   `mapstructure:"environment"`
	ReadTimeout     int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout    int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout     int      `mapstructure:"idle_timeout"`  // in seconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// HTTPAddress returns host:port for the HTTP listener.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddress returns host:port for the gRPC listener.
func (c *ServerConfig) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

// IsProduction reports whether the server runs in production mode.
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ModelConfig locates the scorecard artifact.
type ModelConfig struct {
	ArtifactPath string `mapstructure:"artifact_path"`
	Watch        bool   `mapstructure:"watch"`
}

// DatabaseConfig selects and tunes the decision store.
// Driver is one of sqlite, postgres (gorm) or pgx (raw pool).
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxConns        int    `mapstructure:"max_conns"`
	MinConns        int    `mapstructure:"min_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"`  // in seconds
	MaxConnIdleTime int    `mapstructure:"max_conn_idle_time"` // in seconds
	ConnTimeout     int    `mapstructure:"conn_timeout"`       // in seconds
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// CacheConfig controls caching of aggregate stats.
type CacheConfig struct {
	StatsTTL        time.Duration `mapstructure:"stats_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	RequiredAcks int           `mapstructure:"required_acks"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AuditConfig controls the decision audit trail.
type AuditConfig struct {
	LogPredictions bool   `mapstructure:"log_predictions"`
	HMACSecret     string `mapstructure:"hmac_secret"`
}

type RateLimitConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Distributed bool    `mapstructure:"distributed"`
	RPS         float64 `mapstructure:"rps"`
	Burst       int     `mapstructure:"burst"`
}

// AuthConfig protects the stats endpoint with an HS256 bearer token when a secret is set.
type AuthConfig struct {
	StatsJWTSecret string `mapstructure:"stats_jwt_secret"`
	Issuer         string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	Environment    string  `mapstructure:"environment"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.GRPCEnabled && (c.Server.GRPCPort <= 0 || c.Server.GRPCPort > 65535) {
		return fmt.Errorf("server.grpc_port out of range: %d", c.Server.GRPCPort)
	}
	if c.Model.ArtifactPath == "" {
		return fmt.Errorf("model.artifact_path is required")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for the sqlite driver")
		}
	case "postgres", "pgx":
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("database.host and database.database are required for the %s driver", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database.driver: %q", c.Database.Driver)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("tracing.sampling_rate must be within [0,1]: %v", c.Tracing.SamplingRate)
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps must be positive when rate limiting is enabled")
	}
	switch constants.LogLevel(c.Log.Level) {
	case "", constants.LogLevelDebug, constants.LogLevelInfo, constants.LogLevelWarn,
		constants.LogLevelError, constants.LogLevelFatal:
	default:
		return fmt.Errorf("unsupported log.level: %q", c.Log.Level)
	}
	return nil
}

//Personal.AI order the ending
