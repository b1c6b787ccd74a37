package bootstrap

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijitam01/drawr/internal/infra/setup"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Act
	cfg, err := loadConfig(envOf(map[string]string{"REDIS_ADDR": "localhost:6379", "JWT_SECRET": "s"}))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, setup.DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "drawr:", cfg.KeyPrefix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 10*time.Minute, cfg.SceneCacheTTL)
	assert.False(t, cfg.MDNSEnabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(envOf(map[string]string{
		"REDIS_ADDR":        "redis:6379",
		"JWT_SECRET":        "s",
		"DB_DRIVER":         "postgres",
		"REDIS_DB":          "2",
		"LOG_LEVEL":         "loud",
		"RATE_LIMIT_WINDOW": "1m",
		"SCENE_CACHE_TTL":   "30s",
		"MDNS_ENABLED":      "true",
		"MDNS_INSTANCE":     "studio",
	}))

	require.NoError(t, err)
	assert.Equal(t, setup.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 30*time.Second, cfg.SceneCacheTTL)
	assert.True(t, cfg.MDNSEnabled)
	assert.Equal(t, "studio", cfg.MDNSInstance)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing redis":  {"JWT_SECRET": "s"},
		"missing secret": {"REDIS_ADDR": "r"},
		"bad redis db":   {"REDIS_ADDR": "r", "JWT_SECRET": "s", "REDIS_DB": "two"},
		"bad ttl":        {"REDIS_ADDR": "r", "JWT_SECRET": "s", "SCENE_CACHE_TTL": "-5s"},
		"bad mdns flag":  {"REDIS_ADDR": "r", "JWT_SECRET": "s", "MDNS_ENABLED": "maybe"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(envOf(env))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger_ProductionUsesJSON(t *testing.T) {
	std := logrus.StandardLogger()
	prevFormatter, prevLevel, prevOut := std.Formatter, std.GetLevel(), std.Out
	t.Cleanup(func() {
		std.SetFormatter(prevFormatter)
		std.SetLevel(prevLevel)
		std.SetOutput(prevOut)
	})

	log := NewLogger(&Config{AppEnv: "production", LogLevel: "debug"})

	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, std.Formatter)
}
