package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/infra/setup"
	"github.com/Abhijitam01/drawr/internal/service"
)

// Config holds everything read from the environment.
type Config struct {
	DB              setup.DBConfig
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	KeyPrefix       string
	JWTSecret       string
	JWTExpiryHours  int
	ServerPort      string
	LogLevel        string
	AppEnv          string // development or production
	CORSOrigin      string
	RateLimitMax    int
	RateLimitWindow time.Duration
	SceneCacheTTL   time.Duration
	MDNSEnabled     bool
	MDNSInstance    string
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DB: setup.DBConfig{
			Driver:   getenv("DB_DRIVER"),
			User:     getenv("DB_USER"),
			Password: getenv("DB_PASSWORD"),
			Host:     getenv("DB_HOST"),
			Port:     getenv("DB_PORT"),
			Name:     getenv("DB_NAME"),
		},
		RedisAddr:       getenv("REDIS_ADDR"),
		RedisPassword:   getenv("REDIS_PASSWORD"),
		KeyPrefix:       getenv("REDIS_KEY_PREFIX"),
		JWTSecret:       getenv("JWT_SECRET"),
		ServerPort:      getenv("SERVER_PORT"),
		LogLevel:        getenv("LOG_LEVEL"),
		AppEnv:          getenv("APP_ENV"),
		CORSOrigin:      getenv("CORS_ALLOWED_ORIGIN"),
		MDNSInstance:    getenv("MDNS_INSTANCE"),
		JWTExpiryHours:  24,
		RateLimitMax:    100,
		RateLimitWindow: time.Second,
		SceneCacheTTL:   service.DefaultSceneTTL,
	}

	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = setup.DriverMySQL
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "drawr:"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	var err error
	if cfg.RedisDB, err = intEnv(getenv, "REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.JWTExpiryHours, err = intEnv(getenv, "JWT_EXPIRY_HOURS", cfg.JWTExpiryHours); err != nil {
		return nil, err
	}
	if cfg.RateLimitMax, err = intEnv(getenv, "RATE_LIMIT_MAX", cfg.RateLimitMax); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = durationEnv(getenv, "RATE_LIMIT_WINDOW", cfg.RateLimitWindow); err != nil {
		return nil, err
	}
	if cfg.SceneCacheTTL, err = durationEnv(getenv, "SCENE_CACHE_TTL", cfg.SceneCacheTTL); err != nil {
		return nil, err
	}
	if v := getenv("MDNS_ENABLED"); v != "" {
		if cfg.MDNSEnabled, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid MDNS_ENABLED %q: %w", v, err)
		}
	}
	return cfg, nil
}

func intEnv(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

// NewLogger builds the application logger and applies the same settings to
// the package-level logrus logger used by the internal packages.
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	for _, l := range []*logrus.Logger{log, logrus.StandardLogger()} {
		if cfg.AppEnv == "production" {
			l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
		} else {
			l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
		level, _ := logrus.ParseLevel(cfg.LogLevel)
		l.SetLevel(level)
		l.SetOutput(os.Stdout)
	}
	return log
}
