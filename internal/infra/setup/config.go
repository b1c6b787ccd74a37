package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DBConfig selects the SQL driver and where to reach it.
type DBConfig struct {
	Driver   string
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DSN builds the driver-specific connection string.
func (c DBConfig) DSN() (string, error) {
	if c.User == "" {
		return "", fmt.Errorf("database user is not configured")
	}
	host, port, name := c.Host, c.Port, c.Name
	if host == "" {
		host = "127.0.0.1"
	}
	if name == "" {
		name = "drawr"
	}
	switch c.Driver {
	case DriverMySQL, "":
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, host, port, name), nil
	case DriverPostgres:
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			host, c.User, c.Password, name, port), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func (c DBConfig) dialector(dsn string) gorm.Dialector {
	if c.Driver == DriverPostgres {
		return postgres.Open(dsn)
	}
	return mysql.Open(dsn)
}

// InitDB opens the connection pool and verifies it with a ping.
func InitDB(cfg DBConfig) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("build DSN: %w", err)
	}

	db, err := gorm.Open(cfg.dialector(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	logrus.WithField("driver", cfg.Driver).Info("Database connected")
	return db, nil
}

// InitRedis connects and pings the Redis server.
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 5,
		MaxConnAge:   30 * time.Minute,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to Redis at %s: %w", addr, err)
	}
	logrus.WithField("addr", addr).Info("Redis connected")
	return client, nil
}
