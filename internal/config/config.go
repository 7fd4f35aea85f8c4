package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full runtime configuration for a kiosk instance.
type Config struct {
	Environment string

	Server   ServerConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	// DSN for the local SQLite credential store.
	DSN string
}

type RedisConfig struct {
	// Enabled switches lockout state from the in-process store to a
	// site-shared Redis instance.
	Enabled  bool
	URL      string
	PoolSize int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type SecurityConfig struct {
	// BaseSecret is the shared secret master passwords are derived from.
	// The same value is configured in the support tool.
	BaseSecret string
	// DeviceID overrides hardware MAC detection when set.
	DeviceID string

	MasterMaxAttempts int
	PINMaxAttempts    int
	LockoutDuration   time.Duration

	JWTSecret  string
	SessionTTL time.Duration
}

// LoadConfig reads configuration from the environment, with .env support
// for development setups.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "127.0.0.1"),
			Port:         getEnvInt("SERVER_PORT", 8085),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", "kiosk-auth.db"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			URL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getEnv("KAFKA_SECURITY_TOPIC", "kiosk-security-events"),
		},
		Security: SecurityConfig{
			BaseSecret:        getEnv("AUTH_BASE_SECRET", ""),
			DeviceID:          getEnv("AUTH_DEVICE_ID", ""),
			MasterMaxAttempts: getEnvInt("AUTH_MASTER_MAX_ATTEMPTS", 3),
			PINMaxAttempts:    getEnvInt("AUTH_PIN_MAX_ATTEMPTS", 5),
			LockoutDuration:   getEnvDuration("AUTH_LOCKOUT_DURATION", 15*time.Minute),
			JWTSecret:         getEnv("AUTH_JWT_SECRET", ""),
			SessionTTL:        getEnvDuration("AUTH_SESSION_TTL", 30*time.Minute),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
