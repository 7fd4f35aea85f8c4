package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 3, cfg.Security.MasterMaxAttempts)
	assert.Equal(t, 5, cfg.Security.PINMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Security.LockoutDuration)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("AUTH_MASTER_MAX_ATTEMPTS", "4")
	t.Setenv("AUTH_LOCKOUT_DURATION", "30m")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("AUTH_DEVICE_ID", "aa:bb:cc:dd:ee:ff")

	cfg := LoadConfig()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Security.MasterMaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Security.LockoutDuration)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", cfg.Security.DeviceID)
}

func TestLoadConfig_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("AUTH_LOCKOUT_DURATION", "soon")
	t.Setenv("REDIS_ENABLED", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Security.LockoutDuration)
	assert.False(t, cfg.Redis.Enabled)
}

func TestServerAddress(t *testing.T) {
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "8443")

	cfg := LoadConfig()
	assert.Equal(t, "0.0.0.0:8443", cfg.ServerAddress())
}
